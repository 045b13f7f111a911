package store

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"

	"github.com/katakuxiko/askexperts/internal/model"
)

// FactSource delivers the current fact documents for one invocation.
type FactSource interface {
	Snapshot(ctx context.Context) ([]model.FactDocument, error)
}

// FactStore is a FactSource that can also take new facts.
type FactStore interface {
	FactSource
	Add(ctx context.Context, fact string) error
	Close(ctx context.Context) error
}

type PgStore struct {
	db *sql.DB
}

func NewPgStore(conn string) (*PgStore, error) {
	db, err := sql.Open("postgres", conn)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &PgStore{db: db}, nil
}

// NewPgStoreFromDB wraps an already open handle without touching the schema.
func NewPgStoreFromDB(db *sql.DB) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) Add(ctx context.Context, fact string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO facts (fact) VALUES ($1)`, fact)
	return err
}

func (s *PgStore) Snapshot(ctx context.Context) ([]model.FactDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fact
		FROM facts
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []model.FactDocument
	for rows.Next() {
		var d model.FactDocument
		if err := rows.Scan(&d.Fact); err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func (s *PgStore) Close(context.Context) error {
	return s.db.Close()
}
