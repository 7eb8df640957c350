package commands

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/keyset/config"
	"github.com/ncobase/keyset/data"
	"github.com/ncobase/keyset/data/metrics"
	"github.com/ncobase/keyset/handler"
	"github.com/ncobase/keyset/paging"
)

// app is the wired service: data layer, paginator and HTTP server.
type app struct {
	cfg       *config.Config
	data      *data.Data
	paginator *paging.Paginator
	server    *http.Server
}

func newApp(ctx context.Context, cfg *config.Config, opts ...data.Option) (*app, func(), error) {
	var (
		collector metrics.Collector = metrics.NoOpCollector{}
		prom      *metrics.PrometheusCollector
	)
	if m := cfg.Data.Metrics; m != nil && m.Enabled {
		prom = metrics.NewPrometheusCollector(m.Namespace)
		collector = prom
	}

	opts = append([]data.Option{data.WithMetricsCollector(collector)}, opts...)
	d, cleanup, err := data.New(ctx, cfg.Data, opts...)
	if err != nil {
		return nil, nil, err
	}

	p, err := paging.New(d.Scanner(), cfg.Paging, paging.WithObserver(collector))
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	hopts := []handler.Option{handler.WithHealth(d)}
	if prom != nil {
		hopts = append(hopts, handler.WithMetrics(prom.Handler()))
	}
	gin.SetMode(ginMode(cfg.RunMode))
	engine := handler.NewEngine(handler.New(p, cfg.Data.Fields, hopts...))

	return &app{
		cfg:       cfg,
		data:      d,
		paginator: p,
		server: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      engine,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}, cleanup, nil
}

func ginMode(runMode string) string {
	switch runMode {
	case gin.DebugMode, gin.TestMode:
		return runMode
	default:
		return gin.ReleaseMode
	}
}
