// Package observability provides logging and metrics support for the
// publication service.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for duplicate checks and publications
//   - Context helpers for propagating observability data
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:     "info",
//	    Format:    "json",
//	    Output:    "stdout",
//	    AddSource: true,
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("request_id", reqID).Msg("check started")
//
// Add request context to logger:
//
//	logger = observability.WithRequestContext(logger, requestID, method, path)
//
// # Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics("publication_service")
//
// Record metrics:
//
//	metrics.RecordCheck("no_conflict", 3, 0.004)
//	metrics.RecordPublicationCreated()
//
// # Context Helpers
//
// Store and retrieve request context:
//
//	ctx = observability.WithRequestID(ctx, requestID)
//	reqID := observability.RequestIDFromContext(ctx)
//
// # Standard Fields
//
// Common fields used across the service:
//
//   - request_id: HTTP request identifier
//   - publication_id: Publication identifier
//   - title: Publication title
//   - creation_status: Outcome of a duplicate check
//   - candidates: Number of candidates compared
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
