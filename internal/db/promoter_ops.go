package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"promo-rating/internal/models"
	"promo-rating/internal/store"
)

const promoterColumns = `id, name, avatar_url, leaflets_count, work_days, district, start_date, speed, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPromoter(row rowScanner) (models.Promoter, error) {
	var p models.Promoter
	err := row.Scan(&p.ID, &p.Name, &p.AvatarURL, &p.LeafletsCount, &p.WorkDays,
		&p.District, &p.StartDate, &p.Speed, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Get возвращает промоутера по id или (nil, nil), если его нет.
func (s *Store) Get(ctx context.Context, id string) (*models.Promoter, error) {
	query := `SELECT ` + promoterColumns + ` FROM promoters WHERE id = $1`
	p, err := scanPromoter(s.Conn.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows || isInvalidID(err) {
			return nil, nil
		}
		return nil, storeErr("GetPromoter", err)
	}
	return &p, nil
}

// Insert создаёт промоутера; id и отметки времени назначает хранилище.
func (s *Store) Insert(ctx context.Context, p models.Promoter) (models.Promoter, error) {
	p.ID = uuid.New().String()
	query := `
        INSERT INTO promoters (id, name, avatar_url, leaflets_count, work_days, district, start_date, speed, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING created_at, updated_at`
	err := s.Conn.QueryRowContext(ctx, query,
		p.ID, p.Name, p.AvatarURL, p.LeafletsCount, p.WorkDays, p.District, p.StartDate, p.Speed,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Promoter{}, storeErr("InsertPromoter", err)
	}
	return p, nil
}

// Update меняет только переданные поля; updated_at обновляется всегда.
func (s *Store) Update(ctx context.Context, id string, f store.PromoterFields) (bool, error) {
	var sets []string
	var args []interface{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if f.Name != nil {
		add("name", *f.Name)
	}
	if f.AvatarURL != nil {
		add("avatar_url", *f.AvatarURL)
	}
	if f.LeafletsCount != nil {
		add("leaflets_count", *f.LeafletsCount)
	}
	if f.WorkDays != nil {
		add("work_days", *f.WorkDays)
	}
	if f.District != nil {
		add("district", *f.District)
	}
	if f.StartDate != nil {
		add("start_date", *f.StartDate)
	}
	if f.Speed != nil {
		add("speed", *f.Speed)
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE promoters SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	result, err := s.Conn.ExecContext(ctx, query, args...)
	if err != nil {
		if isInvalidID(err) {
			return false, nil
		}
		return false, storeErr("UpdatePromoter", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, storeErr("UpdatePromoter", err)
	}
	return rowsAffected > 0, nil
}

// Delete удаляет промоутера без мягкого удаления.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.Conn.ExecContext(ctx, `DELETE FROM promoters WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return false, nil
		}
		return false, storeErr("DeletePromoter", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, storeErr("DeletePromoter", err)
	}
	return rowsAffected > 0, nil
}

// ListByLeaflets возвращает промоутеров по убыванию листовок.
// LIMIT NULL в PostgreSQL означает отсутствие ограничения.
func (s *Store) ListByLeaflets(ctx context.Context, limit int) ([]models.Promoter, error) {
	var lim sql.NullInt64
	if limit > 0 {
		lim = sql.NullInt64{Int64: int64(limit), Valid: true}
	}
	query := `SELECT ` + promoterColumns + ` FROM promoters
        ORDER BY leaflets_count DESC, created_at ASC, id ASC
        LIMIT $1`
	rows, err := s.Conn.QueryContext(ctx, query, lim)
	if err != nil {
		return nil, storeErr("ListPromoters", err)
	}
	defer rows.Close()

	promoters := []models.Promoter{}
	for rows.Next() {
		p, errScan := scanPromoter(rows)
		if errScan != nil {
			return nil, storeErr("ListPromoters", errScan)
		}
		promoters = append(promoters, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("ListPromoters", err)
	}
	return promoters, nil
}
