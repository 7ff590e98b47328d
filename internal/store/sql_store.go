package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"lifeos/internal/database"
)

// SQLStore keeps records in the kv_records table of any supported dialect.
type SQLStore struct {
	db *database.DB
}

// NewSQLStore wraps an open database and applies pending migrations.
func NewSQLStore(ctx context.Context, db *database.DB) (*SQLStore, error) {
	if _, err := db.RunMigrations(ctx); err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT record_value FROM kv_records WHERE record_key = ?",
		key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(value), true, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	return upsertRecord(ctx, s.db, key, value)
}

func (s *SQLStore) SetMany(ctx context.Context, records map[string][]byte) error {
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		for _, key := range sortedKeys(records) {
			if err := upsertRecord(ctx, tx, key, records[key]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv_records WHERE record_key = ?", key)
	return err
}

func (s *SQLStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT record_key FROM kv_records ORDER BY record_key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return filterPrefix(keys, prefix), nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func upsertRecord(ctx context.Context, q database.DBTX, key string, value []byte) error {
	_, err := q.ExecContext(ctx, q.GetDialect().UpsertRecordQuery(), key, string(value), time.Now().UTC())
	return err
}
