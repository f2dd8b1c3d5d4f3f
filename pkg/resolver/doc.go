// Package resolver fans ingested events out to per-user notifications.
//
// The Engine consults each recipient's effective preference for every
// delivery channel and routes accordingly: REAL_TIME rules materialize a
// notification immediately, DAILY and WEEKLY rules accumulate the event into
// digest buckets, disabled rules suppress silently. For the EMAIL channel
// the record is persisted only after the delivery sink acknowledges the
// send, and sends run in the background so a slow or failing email provider
// never blocks event ingestion.
//
// The engine also implements digest.Materializer, so flushed digest buckets
// pass through the same channel routing as real-time notifications.
//
// Usage:
//
//	engine := resolver.New(prefStore, storage,
//	    resolver.WithEventLog(eventLog),
//	    resolver.WithEmailSink(delivery.NewEmailSink(sender, resolveAddr)),
//	    resolver.WithAccumulator(acc),
//	)
//
//	ev, created, err := engine.Ingest(ctx, event.TypeNewAudit,
//	    map[string]any{"message": "Audit #42 opened"},
//	    []string{"user-1", "user-2"},
//	)
package resolver
