package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"ecommerce-backend/domain/events"
	apperrors "ecommerce-backend/pkg/errors"
)

// EventStore persists domain events in the event_store table:
//
//	id            BIGSERIAL PRIMARY KEY
//	event_id      TEXT NOT NULL UNIQUE
//	event_type    TEXT NOT NULL
//	aggregate_id  TEXT NOT NULL
//	aggregate_type TEXT NOT NULL
//	version       BIGINT NOT NULL
//	event_data    TEXT NOT NULL
//	created_at    TIMESTAMPTZ NOT NULL
//	UNIQUE (aggregate_id, version)
//
// Rows are written once and never updated or deleted.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates an event store backed by Postgres
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// SaveEvents appends events for one aggregate inside a single transaction.
// The optimistic concurrency check compares the store's event count for the
// aggregate against expectedVersion; versions expectedVersion+1..+n are
// assigned in order before serialization.
func (s *EventStore) SaveEvents(ctx context.Context, aggregateID string, evts []events.DomainEvent, expectedVersion int64) error {
	if len(evts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewDatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	var currentVersion int64
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM event_store WHERE aggregate_id = $1", aggregateID,
	).Scan(&currentVersion)
	if err != nil {
		return apperrors.NewDatabaseError("count aggregate events", err)
	}

	if currentVersion != expectedVersion {
		return apperrors.NewConcurrencyConflictError(aggregateID, expectedVersion, currentVersion)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO event_store (event_id, event_type, aggregate_id, aggregate_type, version, event_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return apperrors.NewDatabaseError("prepare insert", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, event := range evts {
		event.SetVersion(expectedVersion + int64(i) + 1)

		data, err := serializeEvent(event)
		if err != nil {
			return err
		}

		_, err = stmt.ExecContext(ctx,
			event.GetEventID(),
			event.GetEventType(),
			event.GetAggregateID(),
			event.GetAggregateType(),
			event.GetVersion(),
			data,
			now,
		)
		if err != nil {
			return apperrors.NewDatabaseError("insert event", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewDatabaseError("commit events", err)
	}
	return nil
}

// GetEventsForAggregate returns the full history ascending by version
func (s *EventStore) GetEventsForAggregate(ctx context.Context, aggregateID string) ([]events.DomainEvent, error) {
	return s.query(ctx,
		"SELECT event_type, event_data FROM event_store WHERE aggregate_id = $1 ORDER BY version ASC",
		aggregateID)
}

// GetEventsForAggregateFromVersion returns events with version strictly
// greater than the given one, ascending by version
func (s *EventStore) GetEventsForAggregateFromVersion(ctx context.Context, aggregateID string, version int64) ([]events.DomainEvent, error) {
	return s.query(ctx,
		"SELECT event_type, event_data FROM event_store WHERE aggregate_id = $1 AND version > $2 ORDER BY version ASC",
		aggregateID, version)
}

// GetAllEvents returns every stored event ascending by persisted creation order
func (s *EventStore) GetAllEvents(ctx context.Context) ([]events.DomainEvent, error) {
	return s.query(ctx,
		"SELECT event_type, event_data FROM event_store ORDER BY created_at ASC, id ASC")
}

// GetEventsByType returns events of one type ascending by persisted creation order
func (s *EventStore) GetEventsByType(ctx context.Context, eventType string) ([]events.DomainEvent, error) {
	return s.query(ctx,
		"SELECT event_type, event_data FROM event_store WHERE event_type = $1 ORDER BY created_at ASC, id ASC",
		eventType)
}

func (s *EventStore) query(ctx context.Context, q string, args ...interface{}) ([]events.DomainEvent, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperrors.NewDatabaseError("query events", err)
	}
	defer rows.Close()

	var out []events.DomainEvent
	for rows.Next() {
		var eventType string
		var data []byte
		if err := rows.Scan(&eventType, &data); err != nil {
			return nil, apperrors.NewDatabaseError("scan event row", err)
		}

		event, err := events.Decode(eventType, data)
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate event rows", err)
	}
	return out, nil
}

func serializeEvent(event events.DomainEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to serialize event")
	}
	return data, nil
}
