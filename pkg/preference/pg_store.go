package preference

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/notification"
	"github.com/dmitrymomot/notifier/pkg/pg"
)

// PGStore is the Postgres implementation of the Store interface.
type PGStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// PGStoreOption configures a PGStore.
type PGStoreOption func(*PGStore)

// WithPGClock overrides the time source, for deterministic tests.
func WithPGClock(now func() time.Time) PGStoreOption {
	return func(s *PGStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewPGStore creates a Postgres preference store backed by the given pool.
// The preferences table must exist (see migrations/).
func NewPGStore(pool *pgxpool.Pool, opts ...PGStoreOption) *PGStore {
	s := &PGStore{pool: pool, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const preferenceColumns = `id, user_id, event_type, channel, frequency, enabled, created_at, updated_at`

func scanPreference(row pgx.Row) (Preference, error) {
	var p Preference
	err := row.Scan(
		&p.ID, &p.UserID, &p.EventType, &p.Channel, &p.Frequency,
		&p.Enabled, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (s *PGStore) GetEffective(ctx context.Context, userID string, et event.Type, ch notification.Channel) (Preference, error) {
	// Last write wins among duplicates for the tuple.
	row := s.pool.QueryRow(ctx,
		`SELECT `+preferenceColumns+` FROM preferences
		 WHERE user_id = $1 AND event_type = $2 AND channel = $3
		 ORDER BY updated_at DESC, id DESC
		 LIMIT 1`,
		userID, string(et), string(ch),
	)

	p, err := scanPreference(row)
	if err == nil {
		return p, nil
	}
	if !pg.IsNotFoundError(err) {
		return Preference{}, fmt.Errorf("get effective preference: %w", err)
	}

	if def, ok := defaultFor(userID, et, ch); ok {
		return def, nil
	}
	return Preference{}, ErrPreferenceNotFound
}

func (s *PGStore) ListForUser(ctx context.Context, userID string) ([]Preference, error) {
	prefs, err := s.listForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(prefs) > 0 {
		return prefs, nil
	}

	// First fetch: persist the synthesized defaults inside one transaction so
	// a concurrent first fetch cannot double-insert.
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin preference defaults tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Re-check under the transaction.
	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM preferences WHERE user_id = $1`, userID,
	).Scan(&count); err != nil {
		return nil, fmt.Errorf("count preferences: %w", err)
	}
	if count == 0 {
		now := s.now()
		for _, def := range DefaultsFor(userID) {
			if _, err := tx.Exec(ctx,
				`INSERT INTO preferences (id, user_id, event_type, channel, frequency, enabled, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
				uuid.New().String(), def.UserID, string(def.EventType),
				string(def.Channel), string(def.Frequency), def.Enabled, now,
			); err != nil {
				return nil, fmt.Errorf("persist default preference: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit preference defaults: %w", err)
	}

	return s.listForUser(ctx, userID)
}

func (s *PGStore) listForUser(ctx context.Context, userID string) ([]Preference, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+preferenceColumns+` FROM preferences WHERE user_id = $1 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	var out []Preference
	for rows.Next() {
		p, err := scanPreference(rows)
		if err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PGStore) Create(ctx context.Context, p Preference) (Preference, error) {
	if err := p.Validate(); err != nil {
		return Preference{}, err
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO preferences (id, user_id, event_type, channel, frequency, enabled, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 RETURNING `+preferenceColumns,
		uuid.New().String(), p.UserID, string(p.EventType), string(p.Channel),
		string(p.Frequency), p.Enabled, s.now(),
	)

	created, err := scanPreference(row)
	if err != nil {
		return Preference{}, fmt.Errorf("create preference: %w", err)
	}
	return created, nil
}

func (s *PGStore) Update(ctx context.Context, id string, upd Update) (Preference, error) {
	existing, err := scanPreference(s.pool.QueryRow(ctx,
		`SELECT `+preferenceColumns+` FROM preferences WHERE id = $1`, id))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Preference{}, ErrPreferenceNotFound
		}
		return Preference{}, fmt.Errorf("get preference: %w", err)
	}

	if err := upd.apply(&existing, s.now()); err != nil {
		return Preference{}, err
	}

	row := s.pool.QueryRow(ctx,
		`UPDATE preferences
		 SET event_type = $2, channel = $3, frequency = $4, enabled = $5, updated_at = $6
		 WHERE id = $1
		 RETURNING `+preferenceColumns,
		id, string(existing.EventType), string(existing.Channel),
		string(existing.Frequency), existing.Enabled, existing.UpdatedAt,
	)

	updated, err := scanPreference(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return Preference{}, ErrPreferenceNotFound
		}
		return Preference{}, fmt.Errorf("update preference: %w", err)
	}
	return updated, nil
}
