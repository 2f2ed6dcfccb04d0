// Package monitoring provides structured logging and Prometheus metrics.
//
// Loggers are built with zap and rotate through lumberjack when writing to a
// file:
//
//	logger, err := monitoring.NewLogger(&settings.Logging)
//	defer logger.Sync()
//
// Metrics are registered on the default Prometheus registry and exposed with
// Handler:
//
//	http.Handle("/metrics", monitoring.Handler())
package monitoring
