// Package notification holds the notification state store and the query/view
// layer on top of it.
//
// # Architecture
//
//   - Notification / Draft: the core domain model. Read state only ever
//     transitions from unread to read; there is no mark-unread operation.
//   - Storage: persistence contract with atomic state transitions. Memory,
//     Postgres and Mongo implementations are provided; WithConflictRetry
//     wraps any of them with bounded retries for optimistic-concurrency
//     backends.
//   - View: filtered queries (event type, channel, free-text search) and the
//     unread/total/readRate aggregates, always computed from the current
//     store state.
//
// # Basic Usage
//
//	storage := notification.NewMemoryStorage()
//	view := notification.NewView(storage, notification.WithEventLog(eventLog))
//
//	n, err := storage.Create(ctx, notification.Draft{
//	    UserID:  "user123",
//	    Channel: notification.ChannelInApp,
//	    Title:   "New audit",
//	    Content: "Audit #7",
//	})
//
//	list, err := view.Query(ctx, "user123", notification.Filter{SearchText: "audit"})
//	agg, err := view.Aggregates(ctx, "user123")
//
// For production, point NewPGStorage at a pgx pool (see pkg/pg and
// migrations/) or NewMongoStorage at a mongo database.
package notification
