package db

import (
	"context"
	"database/sql"

	"promo-rating/internal/store"
)

// GetDocument читает документ settings/{key}.
func (s *Store) GetDocument(ctx context.Context, key store.DocKey) ([]byte, bool, error) {
	var data []byte
	err := s.Conn.QueryRowContext(ctx, `SELECT data FROM settings WHERE key = $1`, string(key)).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, storeErr("GetDocument", err)
	}
	return data, true, nil
}

// PutDocument полностью заменяет документ.
func (s *Store) PutDocument(ctx context.Context, key store.DocKey, data []byte) error {
	query := `
        INSERT INTO settings (key, data, created_at, updated_at)
        VALUES ($1, $2::jsonb, NOW(), NOW())
        ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`
	if _, err := s.Conn.ExecContext(ctx, query, string(key), string(data)); err != nil {
		return storeErr("PutDocument", err)
	}
	return nil
}

// CreateDocumentIfAbsent вставляет документ по умолчанию одним запросом.
// При гонке двух читателей в таблице остаётся одно значение, и оба его получают.
func (s *Store) CreateDocumentIfAbsent(ctx context.Context, key store.DocKey, defaults []byte) ([]byte, error) {
	query := `
        WITH ins AS (
            INSERT INTO settings (key, data, created_at, updated_at)
            VALUES ($1, $2::jsonb, NOW(), NOW())
            ON CONFLICT (key) DO NOTHING
            RETURNING data
        )
        SELECT data FROM ins
        UNION ALL
        SELECT data FROM settings WHERE key = $1
        LIMIT 1`
	var data []byte
	err := s.Conn.QueryRowContext(ctx, query, string(key), string(defaults)).Scan(&data)
	if err == sql.ErrNoRows {
		// Конкурентная вставка зафиксирована после снимка запроса: читаем ещё раз.
		existing, found, errGet := s.GetDocument(ctx, key)
		if errGet != nil {
			return nil, errGet
		}
		if found {
			return existing, nil
		}
	}
	if err != nil {
		return nil, storeErr("CreateDocumentIfAbsent", err)
	}
	return data, nil
}
