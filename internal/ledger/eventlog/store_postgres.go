package eventlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"paystream/internal/stream/models"
)

// PostgresStore archives lifecycle events in PostgreSQL so history survives
// fullnode event-store pruning.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the archive table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS stream_events (
			id            UUID PRIMARY KEY,
			stream_id     BIGINT NOT NULL,
			kind          TEXT   NOT NULL,
			ts            BIGINT NOT NULL,
			amount        BIGINT NOT NULL DEFAULT 0,
			to_recipient  BIGINT NOT NULL DEFAULT 0,
			to_sender     BIGINT NOT NULL DEFAULT 0,
			UNIQUE (stream_id, kind, ts)
		)`)
	if err != nil {
		return fmt.Errorf("ensure stream_events schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO stream_events (id, stream_id, kind, ts, amount, to_recipient, to_sender)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (stream_id, kind, ts) DO NOTHING`,
		uuid.New(), int64(event.StreamID), string(event.Kind), event.Timestamp,
		int64(event.Amount), int64(event.ToRecipient), int64(event.ToSender),
	)
	if err != nil {
		return fmt.Errorf("append stream event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByStream(ctx context.Context, streamID uint64) ([]Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT stream_id, kind, ts, amount, to_recipient, to_sender
		FROM stream_events
		WHERE stream_id = $1
		ORDER BY ts ASC`,
		int64(streamID),
	)
	if err != nil {
		return nil, fmt.Errorf("list stream events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			id                            int64
			kind                          string
			ts, amount, toRecip, toSender int64
		)
		if err := rows.Scan(&id, &kind, &ts, &amount, &toRecip, &toSender); err != nil {
			return nil, fmt.Errorf("scan stream event: %w", err)
		}
		events = append(events, Event{
			StreamID:    uint64(id),
			Kind:        Kind(kind),
			Timestamp:   ts,
			Amount:      models.Octas(amount),
			ToRecipient: models.Octas(toRecip),
			ToSender:    models.Octas(toSender),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stream events: %w", err)
	}
	return events, nil
}
