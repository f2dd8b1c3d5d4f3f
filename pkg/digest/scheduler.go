package digest

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Schedule determines when a digest kind should next be flushed.
type Schedule interface {
	Next(from time.Time) time.Time
	String() string
}

// dailySchedule fires once per day at the given UTC time.
type dailySchedule struct {
	hour   int
	minute int
}

func (s dailySchedule) Next(from time.Time) time.Time {
	from = from.UTC()
	next := time.Date(
		from.Year(), from.Month(), from.Day(),
		s.hour, s.minute, 0, 0, time.UTC,
	)
	if !next.After(from) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s dailySchedule) String() string {
	return fmt.Sprintf("daily at %02d:%02d UTC", s.hour, s.minute)
}

// weeklySchedule fires once per week on the given UTC weekday and time.
type weeklySchedule struct {
	weekday time.Weekday
	hour    int
	minute  int
}

func (s weeklySchedule) Next(from time.Time) time.Time {
	from = from.UTC()
	daysUntil := (int(s.weekday) - int(from.Weekday()) + 7) % 7

	next := from.AddDate(0, 0, daysUntil)
	next = time.Date(
		next.Year(), next.Month(), next.Day(),
		s.hour, s.minute, 0, 0, time.UTC,
	)
	if !next.After(from) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

func (s weeklySchedule) String() string {
	return fmt.Sprintf("weekly on %s at %02d:%02d UTC", s.weekday, s.hour, s.minute)
}

// Daily returns a schedule firing every day at hour:minute UTC.
func Daily(hour, minute int) Schedule {
	return dailySchedule{hour: hour, minute: minute}
}

// Weekly returns a schedule firing on weekday at hour:minute UTC.
func Weekly(weekday time.Weekday, hour, minute int) Schedule {
	return weeklySchedule{weekday: weekday, hour: hour, minute: minute}
}

// Scheduler flushes digest buckets on fixed schedules. Buckets close on
// calendar boundaries, so the default schedules run just after midnight UTC
// when the previous day's and week's buckets are complete.
type Scheduler struct {
	flusher *Flusher
	daily   Schedule
	weekly  Schedule
	logger  *slog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithDailySchedule overrides the daily flush schedule.
func WithDailySchedule(s Schedule) SchedulerOption {
	return func(sc *Scheduler) {
		if s != nil {
			sc.daily = s
		}
	}
}

// WithWeeklySchedule overrides the weekly flush schedule.
func WithWeeklySchedule(s Schedule) SchedulerOption {
	return func(sc *Scheduler) {
		if s != nil {
			sc.weekly = s
		}
	}
}

// WithSchedulerLogger sets the logger for the Scheduler.
func WithSchedulerLogger(log *slog.Logger) SchedulerOption {
	return func(sc *Scheduler) {
		if log != nil {
			sc.logger = log
		}
	}
}

// NewScheduler creates a scheduler driving f.
func NewScheduler(f *Flusher, opts ...SchedulerOption) *Scheduler {
	sc := &Scheduler{
		flusher: f,
		daily:   Daily(0, 5),
		weekly:  Weekly(time.Monday, 0, 10),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// Run blocks, flushing digest kinds on their schedules until ctx is done.
func (sc *Scheduler) Run(ctx context.Context) error {
	sc.logger.InfoContext(ctx, "digest scheduler started",
		slog.String("daily", sc.daily.String()),
		slog.String("weekly", sc.weekly.String()),
	)

	now := time.Now().UTC()
	dailyTimer := time.NewTimer(time.Until(sc.daily.Next(now)))
	defer dailyTimer.Stop()
	weeklyTimer := time.NewTimer(time.Until(sc.weekly.Next(now)))
	defer weeklyTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-dailyTimer.C:
			sc.flush(ctx, KindDaily)
			dailyTimer.Reset(time.Until(sc.daily.Next(time.Now().UTC())))
		case <-weeklyTimer.C:
			sc.flush(ctx, KindWeekly)
			weeklyTimer.Reset(time.Until(sc.weekly.Next(time.Now().UTC())))
		}
	}
}

func (sc *Scheduler) flush(ctx context.Context, kind Kind) {
	flushed, err := sc.flusher.FlushKind(ctx, kind)
	if err != nil {
		sc.logger.ErrorContext(ctx, "digest flush failed",
			slog.String("kind", string(kind)),
			slog.Any("error", err),
		)
		return
	}
	sc.logger.InfoContext(ctx, "digest flush complete",
		slog.String("kind", string(kind)),
		slog.Int("buckets", flushed),
	)
}
