// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The package standardises structured logging across the notifier codebase by
// exposing a single factory - New - that creates a *slog.Logger configured by
// a set of Option functions. Helper constructors such as Error, UserID,
// EventID and NotificationID live in attr.go and keep attribute naming
// consistent between the resolution engine, the digest flusher and the HTTP
// module.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithProduction("notifier"),
//	)
//	log.InfoContext(ctx, "notification materialized",
//	    logger.UserID(userID),
//	    logger.NotificationID(notifID),
//	)
package logger
