// internal/infra/database/postgres_journal_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"homework_status_bot/internal/domain/homework"

	"github.com/lib/pq"
)

const journalSchema = `CREATE TABLE IF NOT EXISTS homework_deliveries (
    id            BIGSERIAL PRIMARY KEY,
    homework_name TEXT        NOT NULL,
    status        TEXT        NOT NULL,
    message       TEXT        NOT NULL,
    sent_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS homework_deliveries_sent_at_idx ON homework_deliveries (sent_at DESC);`

// PostgresJournalRepository stores delivered notifications.
type PostgresJournalRepository struct {
	db *sql.DB
}

func NewPostgresJournalRepository(db *sql.DB) *PostgresJournalRepository {
	return &PostgresJournalRepository{db: db}
}

// EnsureSchema creates the journal table if it does not exist yet.
func (r *PostgresJournalRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, journalSchema); err != nil {
		return wrapPQ("error creating journal schema", err)
	}
	return nil
}

func (r *PostgresJournalRepository) Record(ctx context.Context, d *homework.Delivery) error {
	query := `INSERT INTO homework_deliveries (homework_name, status, message, sent_at)
               VALUES ($1, $2, $3, $4)
               RETURNING id`

	err := r.db.QueryRowContext(ctx, query, d.HomeworkName, string(d.Status), d.Message, d.SentAt).Scan(&d.ID)
	if err != nil {
		return wrapPQ("error recording delivery", err)
	}
	return nil
}

// ListRecent returns up to limit deliveries, newest first.
func (r *PostgresJournalRepository) ListRecent(ctx context.Context, limit int) ([]*homework.Delivery, error) {
	query := `SELECT id, homework_name, status, message, sent_at
               FROM homework_deliveries ORDER BY sent_at DESC, id DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, wrapPQ("error listing deliveries", err)
	}
	defer rows.Close()

	deliveries := make([]*homework.Delivery, 0, limit)
	for rows.Next() {
		d := &homework.Delivery{}
		var status string
		if err := rows.Scan(&d.ID, &d.HomeworkName, &status, &d.Message, &d.SentAt); err != nil {
			return nil, fmt.Errorf("error scanning delivery: %w", err)
		}
		d.Status = homework.Status(status)
		deliveries = append(deliveries, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deliveries: %w", err)
	}
	return deliveries, nil
}

// wrapPQ adds the SQLSTATE code to server-side errors.
func wrapPQ(msg string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("%s (sqlstate %s): %w", msg, pqErr.Code, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
