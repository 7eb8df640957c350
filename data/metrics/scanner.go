package metrics

import (
	"context"
	"time"

	"github.com/ncobase/keyset/paging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName scopes the spans recorded around store scans.
const tracerName = "github.com/ncobase/keyset/data"

// InstrumentedScanner reports the latency and outcome of every scan and
// records each one as a "scan" span on the global tracer provider.
type InstrumentedScanner struct {
	next      paging.Scanner
	driver    string
	collector Collector
}

// WrapScanner instruments next under the given driver name.
func WrapScanner(next paging.Scanner, driver string, collector Collector) *InstrumentedScanner {
	if collector == nil {
		collector = NoOpCollector{}
	}
	return &InstrumentedScanner{next: next, driver: driver, collector: collector}
}

// Scan implements paging.Scanner.
func (s *InstrumentedScanner) Scan(ctx context.Context, q *paging.Query) ([]paging.Document, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "scan",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("driver", s.driver),
			attribute.Int("limit", q.Limit),
		),
	)
	defer span.End()

	start := time.Now()
	docs, err := s.next.Scan(ctx, q)
	s.collector.StoreScan(s.driver, time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return docs, err
	}
	span.SetAttributes(attribute.Int("rows", len(docs)))
	return docs, nil
}
