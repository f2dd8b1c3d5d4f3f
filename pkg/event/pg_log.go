package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notifier/pkg/pg"
)

// PGLog is a Postgres-backed implementation of the Log interface.
// Rows in the events table are insert-only; there is no update or delete path.
type PGLog struct {
	pool *pgxpool.Pool
}

// NewPGLog creates a Postgres event log backed by the given pool.
// The events table must exist (see migrations/).
func NewPGLog(pool *pgxpool.Pool) *PGLog {
	return &PGLog{pool: pool}
}

func (l *PGLog) Append(ctx context.Context, ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	_, err = l.pool.Exec(ctx,
		`INSERT INTO events (id, type, payload, created_at) VALUES ($1, $2, $3, $4)`,
		ev.ID, string(ev.Type), payload, ev.CreatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrDuplicateEventID
		}
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (l *PGLog) Get(ctx context.Context, id string) (*Event, error) {
	row := l.pool.QueryRow(ctx,
		`SELECT id, type, payload, created_at FROM events WHERE id = $1`,
		id,
	)

	var ev Event
	var payload []byte
	if err := row.Scan(&ev.ID, &ev.Type, &payload, &ev.CreatedAt); err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if err := json.Unmarshal(payload, &ev.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal event payload: %w", err)
	}
	return &ev, nil
}

func (l *PGLog) List(ctx context.Context) ([]Event, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, type, payload, created_at FROM events ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		var payload []byte
		if err := rows.Scan(&ev.ID, &ev.Type, &payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if err := json.Unmarshal(payload, &ev.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal event payload: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
