package digest

import (
	"fmt"
	"time"

	"github.com/dmitrymomot/notifier/pkg/notification"
)

// Kind selects the digest cadence.
type Kind string

const (
	KindDaily  Kind = "DAILY"
	KindWeekly Kind = "WEEKLY"
)

// BucketKey identifies one pending digest accumulator: the events one user
// will receive as a single aggregated notification on one channel for one
// calendar period.
type BucketKey struct {
	UserID  string
	Channel notification.Channel
	Kind    Kind
	Period  string
}

// String renders the key in a stable, log-friendly form.
func (k BucketKey) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", k.UserID, k.Channel, k.Kind, k.Period)
}

// PeriodFor derives the fixed-boundary calendar window containing t:
// the UTC calendar day for daily digests, the ISO week for weekly ones.
func PeriodFor(kind Kind, t time.Time) string {
	utc := t.UTC()
	switch kind {
	case KindDaily:
		return utc.Format("2006-01-02")
	case KindWeekly:
		year, week := utc.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	default:
		panic(fmt.Sprintf("digest: unknown kind %q", kind))
	}
}

// KeyFor builds the bucket key for an event observed at t.
func KeyFor(userID string, ch notification.Channel, kind Kind, t time.Time) BucketKey {
	return BucketKey{
		UserID:  userID,
		Channel: ch,
		Kind:    kind,
		Period:  PeriodFor(kind, t),
	}
}
