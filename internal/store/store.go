// Package store описывает хранилище документов, с которым работает ядро:
// коллекцию промоутеров и именованные документы-синглтоны настроек.
//
// Любая ошибка транспорта возвращается обёрнутой в apperrors.ErrStoreUnavailable.
// Кэша в процессе нет: каждое чтение идёт в хранилище.
package store

import (
	"context"
	"time"

	"promo-rating/internal/models"
)

// Ключи документов-синглтонов в коллекции settings.
type DocKey string

const (
	DocGeneral        DocKey = "general"
	DocTopPromoter    DocKey = "topPromoter"
	DocTelegramConfig DocKey = "telegramConfig"
)

// PromoterFields - уже вычисленный набор полей для частичного обновления.
// Отличается от models.PromoterPatch наличием Speed.
type PromoterFields struct {
	Name          *string
	AvatarURL     *string
	LeafletsCount *int
	WorkDays      *int
	District      *string
	StartDate     *models.Date
	Speed         *int
}

// PromoterStore - коллекция promoters/{id}.
type PromoterStore interface {
	// Get возвращает (nil, nil), если документа нет.
	Get(ctx context.Context, id string) (*models.Promoter, error)
	// Insert назначает id, createdAt и updatedAt.
	Insert(ctx context.Context, p models.Promoter) (models.Promoter, error)
	// Update меняет только заданные поля и всегда обновляет updatedAt.
	// Возвращает false, если документа нет.
	Update(ctx context.Context, id string, f PromoterFields) (bool, error)
	// Delete возвращает false, если документа нет.
	Delete(ctx context.Context, id string) (bool, error)
	// ListByLeaflets - по убыванию листовок, при равенстве по createdAt и id.
	// limit <= 0 означает без ограничения.
	ListByLeaflets(ctx context.Context, limit int) ([]models.Promoter, error)
}

// DocumentStore - коллекция settings/{key} с JSON-документами.
type DocumentStore interface {
	// GetDocument возвращает found=false, если документа нет.
	GetDocument(ctx context.Context, key DocKey) (data []byte, found bool, err error)
	// PutDocument полностью заменяет документ.
	PutDocument(ctx context.Context, key DocKey, data []byte) error
	// CreateDocumentIfAbsent записывает defaults, только если документа ещё нет,
	// и возвращает то, что в итоге лежит в хранилище.
	CreateDocumentIfAbsent(ctx context.Context, key DocKey, defaults []byte) ([]byte, error)
}

// Clock - источник "серверного" времени.
type Clock func() time.Time
