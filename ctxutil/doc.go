// Package ctxutil carries request scoped values, mainly the trace id, through
// context.Context and gin.Context.
//
//	ctx, traceID := ctxutil.EnsureTraceID(ctx)
//	logger.Info(ctx, "listing records") // carries trace_id
package ctxutil
