// Package digest batches events into periodic aggregated notifications.
//
// Events whose effective preference asks for DAILY or WEEKLY delivery are
// not materialized immediately. Instead they accumulate in buckets keyed by
// user, channel and calendar period: the UTC day for daily digests, the ISO
// week for weekly ones. A flush drains each non-empty bucket and produces a
// single notification summarizing its events.
//
// Flushes are idempotent and mutually exclusive per bucket. Draining is
// atomic, so two concurrent flush triggers for the same bucket result in
// exactly one digest notification; the second trigger sees an empty bucket
// and does nothing. When materialization fails, the drained events are put
// back so the next flush retries them.
//
// Usage:
//
//	acc := digest.NewAccumulator()
//	key := digest.KeyFor(userID, notification.ChannelInApp, digest.KindDaily, ev.CreatedAt)
//	if err := acc.Add(ctx, key, ev); err != nil { ... }
//
//	flusher := digest.NewFlusher(acc, engine)
//	sched := digest.NewScheduler(flusher)
//	go sched.Run(ctx)
package digest
