// Файл: internal/db/db.go
package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq" // PostgreSQL driver

	"promo-rating/internal/apperrors"
)

// Store - хранилище документов поверх PostgreSQL.
// Реализует store.PromoterStore и store.DocumentStore.
type Store struct {
	Conn *sql.DB
}

// NewStore оборачивает готовое подключение.
func NewStore(conn *sql.DB) *Store {
	return &Store{Conn: conn}
}

// InitDB открывает соединение с базой данных и выполняет миграции.
func InitDB(dbURL string) (*sql.DB, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL не установлена")
	}

	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DATABASE_URL: %v", err)
	}
	query := parsedURL.Query()
	if query.Get("sslmode") == "" && (parsedURL.Hostname() == "localhost" || parsedURL.Hostname() == "127.0.0.1") {
		query.Set("sslmode", "disable")
	}
	parsedURL.RawQuery = query.Encode()

	conn, err := sql.Open("postgres", parsedURL.String())
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %v", err)
	}

	// Записей немного, большой пул не нужен
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ошибка проверки соединения с базой данных: %v", err)
	}
	log.Println("Успешное подключение к базе данных.")

	if err := createSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	if err := migrateDBSchema(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ошибка выполнения миграции схемы: %v", err)
	}

	log.Println("Инициализация базы данных успешно завершена.")
	return conn, nil
}

func createSchema(conn *sql.DB) (err error) {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции для создания таблиц: %v", err)
	}
	defer func() {
		if err != nil {
			log.Printf("Откат транзакции из-за ошибки: %v", err)
			tx.Rollback()
		}
	}()

	createTablesSQL := `
        CREATE TABLE IF NOT EXISTS promoters (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            avatar_url TEXT NOT NULL DEFAULT '',
            leaflets_count INTEGER NOT NULL DEFAULT 0 CHECK (leaflets_count >= 0),
            work_days INTEGER NOT NULL DEFAULT 0 CHECK (work_days >= 0),
            district TEXT NOT NULL,
            start_date DATE,
            speed INTEGER NOT NULL DEFAULT 0 CHECK (speed >= 0),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS settings (
            key TEXT PRIMARY KEY,
            data JSONB NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
    `
	if _, err = tx.Exec(createTablesSQL); err != nil {
		return fmt.Errorf("ошибка создания таблиц: %v", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции создания таблиц: %v", err)
	}
	log.Println("Создание таблиц (если не существуют) завершено.")
	return nil
}

// migrateDBSchema выполняет идемпотентные миграции и создаёт индексы.
func migrateDBSchema(conn *sql.DB) error {
	migrations := []struct {
		name string
		sql  string
	}{
		{
			name: "promoters.start_date",
			sql:  `ALTER TABLE promoters ADD COLUMN IF NOT EXISTS start_date DATE;`,
		},
		{
			name: "promoters.speed",
			sql:  `ALTER TABLE promoters ADD COLUMN IF NOT EXISTS speed INTEGER NOT NULL DEFAULT 0;`,
		},
		{
			name: "idx_promoters_leaflets",
			sql:  `CREATE INDEX IF NOT EXISTS idx_promoters_leaflets ON promoters(leaflets_count DESC, created_at ASC, id ASC);`,
		},
	}

	for _, migration := range migrations {
		if _, err := conn.Exec(migration.sql); err != nil {
			if strings.Contains(err.Error(), "already exists") {
				log.Printf("INFO: Миграция '%s' пропущена (объект уже существует). Детали: %v", migration.name, err)
				continue
			}
			return fmt.Errorf("ошибка миграции схемы ('%s'): %v", migration.name, err)
		}
		log.Printf("INFO: Миграция ('%s') успешно применена или объект уже существовал.", migration.name)
	}
	return nil
}

// CloseDB закрывает соединение с базой данных.
func CloseDB(conn *sql.DB) {
	if conn != nil {
		conn.Close()
		log.Println("Соединение с базой данных закрыто.")
	}
}

// isInvalidID - id не является корректным UUID (SQLSTATE 22P02).
// Для коллекции это равносильно отсутствию документа.
func isInvalidID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}

// storeErr превращает ошибку драйвера в ошибку недоступности хранилища.
func storeErr(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		log.Printf("%s: ошибка PostgreSQL %s (%s): %v", op, pqErr.Code, pqErr.Code.Name(), pqErr.Message)
	} else {
		log.Printf("%s: ошибка БД: %v", op, err)
	}
	return apperrors.StoreUnavailable(op, err)
}
