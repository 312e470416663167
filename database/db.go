package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	DB *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{DB: db}, nil
}

// EnsureSchema creates the required tables if they do not already exist.
// The unique constraints are load-bearing: the create paths rely on them to
// enforce first-write-wins under concurrent inserts.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS canned_answers (
            id UUID PRIMARY KEY,
            date DATE NOT NULL,
            pf_meeting_id INTEGER NOT NULL,
            race_number INTEGER NOT NULL,
            prompt_type VARCHAR(50) NOT NULL,
            prompt_text TEXT,
            raw_response TEXT NOT NULL,
            use_count INTEGER NOT NULL DEFAULT 0,
            first_used_at TIMESTAMPTZ,
            first_used_ip VARCHAR(64),
            first_used_ua VARCHAR(255),
            last_used_at TIMESTAMPTZ,
            last_used_ip VARCHAR(64),
            last_used_ua VARCHAR(255),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CONSTRAINT uq_canned_key UNIQUE (date, pf_meeting_id, race_number, prompt_type)
        )`,
		`CREATE TABLE IF NOT EXISTS freeform_questions (
            id UUID PRIMARY KEY,
            date DATE NOT NULL,
            pf_meeting_id INTEGER NOT NULL,
            race_number INTEGER NOT NULL,
            question TEXT NOT NULL,
            question_normalized TEXT NOT NULL,
            question_tokens JSONB NOT NULL,
            raw_response TEXT NOT NULL,
            use_count INTEGER NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CONSTRAINT uq_freeform_normalized UNIQUE (date, pf_meeting_id, race_number, question_normalized)
        )`,
		`CREATE INDEX IF NOT EXISTS ix_freeform_race_scope
            ON freeform_questions(date, pf_meeting_id, race_number)`,
		`CREATE TABLE IF NOT EXISTS meeting_labels (
            id SERIAL PRIMARY KEY,
            pf_meeting_id INTEGER NOT NULL UNIQUE,
            label VARCHAR(200) NOT NULL
        )`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

func (s *PostgresStore) Close() error {
	return s.DB.Close()
}
