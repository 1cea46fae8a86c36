// Package logger builds the service's slog logger.
//
// Records are JSON on stdout. Context extractors copy request-scoped values,
// such as the request ID, into every record logged with a context:
//
//	log := logger.New(logger.Config{Level: "debug"},
//	    logger.StringExtractor(requestIDKey{}, "request_id"),
//	)
//	log.InfoContext(ctx, "email sent", slog.String("message_id", id))
//
// Setting SentryDSN additionally ships warnings and errors to Sentry. Call
// [Flush] before exit so buffered events are not lost.
package logger
