package commands

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ncobase/keyset/config"
	"github.com/ncobase/keyset/data"
	dc "github.com/ncobase/keyset/data/config"
	"github.com/ncobase/keyset/logging/logger"
	"github.com/ncobase/keyset/paging"
	"github.com/spf13/cobra"
)

const seedBatchSize = 500

type seedOptions struct {
	Count int
	Start time.Time
	Step  time.Duration
	Seed  uint64
}

// NewSeedCommand creates the seed command
func NewSeedCommand(configPath *string) *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert sample records into the configured store",
		Long: `Insert sample records into the configured store.

Records carry createdAt (ascending from --start by --step), name and a
pseudo random score. Identities are assigned by the store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Data.Driver == dc.DriverMemory {
				return fmt.Errorf("seed: the memory driver does not persist, use serve --seed instead")
			}
			cleanupLogger, err := logger.New(cfg.Logger)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer cleanupLogger()

			d, cleanup, err := data.New(cmd.Context(), cfg.Data)
			if err != nil {
				return err
			}
			defer cleanup()
			return seedRecords(cmd.Context(), d, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.Count, "count", "n", 100, "number of records")
	cmd.Flags().DurationVar(&opts.Step, "step", time.Minute, "createdAt distance between records")
	cmd.Flags().Uint64Var(&opts.Seed, "rand-seed", 1, "seed of the score generator")
	return cmd
}

// seedRecords inserts opts.Count records in batches.
func seedRecords(ctx context.Context, d *data.Data, opts seedOptions) error {
	if opts.Count <= 0 {
		return fmt.Errorf("seed: count must be positive")
	}
	if opts.Step <= 0 {
		opts.Step = time.Minute
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now().UTC().Add(-time.Duration(opts.Count) * opts.Step).Truncate(time.Second)
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))

	batch := make([]paging.Document, 0, seedBatchSize)
	for i := 0; i < opts.Count; i++ {
		batch = append(batch, paging.Document{
			"createdAt": opts.Start.Add(time.Duration(i) * opts.Step),
			"name":      fmt.Sprintf("record-%05d", i+1),
			"score":     int64(rng.IntN(100)),
		})
		if len(batch) == seedBatchSize || i == opts.Count-1 {
			if err := d.Insert(ctx, batch...); err != nil {
				return fmt.Errorf("seed: insert: %w", err)
			}
			batch = batch[:0]
		}
	}
	logger.Infof(ctx, "seeded %d records", opts.Count)
	return nil
}
