package messaging

import (
	"context"
	"database/sql"

	apperrors "ecommerce-backend/pkg/errors"
)

// PostgresDeadLetterStore appends dead letters to the dead_letters table:
//
//	id          BIGSERIAL PRIMARY KEY
//	message_id  TEXT NOT NULL
//	kind        TEXT NOT NULL
//	message_type TEXT NOT NULL
//	exchange    TEXT NOT NULL
//	routing_key TEXT NOT NULL
//	payload     TEXT NOT NULL
//	reason      TEXT NOT NULL
//	created_at  TIMESTAMPTZ NOT NULL
type PostgresDeadLetterStore struct {
	db *sql.DB
}

// NewPostgresDeadLetterStore creates a dead-letter store backed by Postgres
func NewPostgresDeadLetterStore(db *sql.DB) *PostgresDeadLetterStore {
	return &PostgresDeadLetterStore{db: db}
}

// Record inserts one dead letter row
func (s *PostgresDeadLetterStore) Record(ctx context.Context, deadLetter DeadLetter) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dead_letters (message_id, kind, message_type, exchange, routing_key, payload, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		deadLetter.MessageID,
		deadLetter.Kind,
		deadLetter.MessageType,
		deadLetter.Exchange,
		deadLetter.RoutingKey,
		deadLetter.Payload,
		deadLetter.Reason,
		deadLetter.CreatedAt,
	)
	if err != nil {
		return apperrors.NewDatabaseError("insert dead letter", err)
	}
	return nil
}
