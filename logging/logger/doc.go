// Package logger is a context aware logrus wrapper.
//
// Every entry carries the trace id found in the context and the configured
// version. Arguments after a leading message are read as key/value pairs:
//
//	logger.Info(ctx, "page served", "operation", "by_field", "count", 10)
//
// Fields listed in the masked_fields configuration are replaced before they
// reach the output.
package logger
