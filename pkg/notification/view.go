package notification

import (
	"context"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/dmitrymomot/notifier/pkg/event"
)

// Filter narrows a notification query. Zero values match everything.
type Filter struct {
	EventType  event.Type // exact match against the resolved event type
	Channel    Channel    // exact match against the delivery channel
	SearchText string     // case-insensitive substring over title, description and content
}

// Aggregates are the per-user counters displayed next to the feed.
// They are always computed from the current state of the store at call time.
type Aggregates struct {
	Unread   int `json:"unread"`
	Total    int `json:"total"`
	ReadRate int `json:"read_rate"` // round(100 * (total-unread) / total), 0 when total is 0
}

// View serves filtered, ordered notification lists and aggregate counts on
// top of a Storage. It holds no state of its own, so any staleness is a
// property of caching done outside this core.
type View struct {
	storage Storage
	events  event.Log // optional, resolves types of event-linked records
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithEventLog lets the view fall back to the linked event's type when a
// notification carries no denormalized event type of its own.
func WithEventLog(log event.Log) ViewOption {
	return func(v *View) {
		v.events = log
	}
}

// NewView creates a query/view layer over the given storage.
func NewView(storage Storage, opts ...ViewOption) *View {
	v := &View{
		storage: storage,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Query returns the user's notifications matching the filter, newest first,
// ties broken by id for determinism.
func (v *View) Query(ctx context.Context, userID string, filter Filter) ([]Notification, error) {
	all, err := v.storage.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	// A Caser may be stateful, so each call gets its own instead of
	// sharing one across concurrent queries.
	fold := cases.Fold()
	needle := ""
	if filter.SearchText != "" {
		needle = fold.String(filter.SearchText)
	}

	filtered := make([]Notification, 0, len(all))
	for _, n := range all {
		if filter.Channel != "" && n.Channel != filter.Channel {
			continue
		}
		if filter.EventType != "" && v.resolveType(ctx, n) != filter.EventType {
			continue
		}
		if needle != "" && !matchesSearch(fold, n, needle) {
			continue
		}
		filtered = append(filtered, n)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].ID < filtered[j].ID
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	return filtered, nil
}

// Aggregates computes unread/total/readRate from the current store state.
func (v *View) Aggregates(ctx context.Context, userID string) (Aggregates, error) {
	unread, err := v.storage.CountUnread(ctx, userID)
	if err != nil {
		return Aggregates{}, err
	}
	total, err := v.storage.CountTotal(ctx, userID)
	if err != nil {
		return Aggregates{}, err
	}
	return Aggregates{
		Unread:   unread,
		Total:    total,
		ReadRate: ReadRate(total, unread),
	}, nil
}

// ReadRate returns the rounded percentage of read notifications,
// 0 when there are none at all.
func ReadRate(total, unread int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(total-unread) / float64(total)))
}

// resolveType returns the notification's event type: the denormalized field
// always wins, falling back to the linked event's type when one is tracked.
func (v *View) resolveType(ctx context.Context, n Notification) event.Type {
	if n.EventType != "" {
		return n.EventType
	}
	if n.EventID == nil || v.events == nil {
		return ""
	}
	ev, err := v.events.Get(ctx, *n.EventID)
	if err != nil {
		// A missing event leaves the notification untyped rather than
		// failing the whole query.
		return ""
	}
	return ev.Type
}

func matchesSearch(fold cases.Caser, n Notification, foldedNeedle string) bool {
	haystack := fold.String(strings.Join([]string{n.Title, n.Description, n.Content}, " "))
	return strings.Contains(haystack, foldedNeedle)
}
