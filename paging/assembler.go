package paging

import (
	"context"
	"fmt"
	"time"
)

// Observer receives one event per storage round trip made by a Paginator.
type Observer interface {
	ObservePage(op string, elapsed time.Duration, count int, err error)
}

// window is an assembled page before it is shaped for the caller.
type window struct {
	docs    []Document
	hasMore bool
	first   string
	last    string
}

type assembler struct {
	scanner  Scanner
	codec    *Codec
	observer Observer
}

// assemble runs q with an over-fetch probe, trims it, restores display order
// for backward scans and derives the boundary cursors under sortField.
func (a *assembler) assemble(ctx context.Context, op string, q *Query, backward bool, sortField string) (*window, error) {
	probe := *q
	probe.Limit = q.Limit + 1

	start := time.Now()
	docs, err := a.scanner.Scan(ctx, &probe)
	if a.observer != nil {
		a.observer.ObservePage(op, time.Since(start), len(docs), err)
	}
	if err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}

	docs, hasMore := TrimProbe(docs, q.Limit)
	if backward {
		Reverse(docs)
	}
	if docs == nil {
		docs = make([]Document, 0)
	}

	w := &window{docs: docs, hasMore: hasMore}
	if len(docs) == 0 {
		return w, nil
	}
	if w.first, err = a.codec.Encode(docs[0], sortField); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if w.last, err = a.codec.Encode(docs[len(docs)-1], sortField); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return w, nil
}
