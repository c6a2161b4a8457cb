// Package repository - операции над коллекцией промоутеров:
// проверка входных данных, пересчёт производных полей и порядок выдачи.
package repository

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"promo-rating/internal/apperrors"
	"promo-rating/internal/metrics"
	"promo-rating/internal/models"
	"promo-rating/internal/store"
	"promo-rating/internal/utils"
)

// Repository работает поверх store.PromoterStore. Собственного кэша нет.
type Repository struct {
	store     store.PromoterStore
	now       store.Clock
	districts []string
}

// New создаёт репозиторий. clock == nil означает time.Now.
func New(s store.PromoterStore, clock store.Clock, districts []string) *Repository {
	if clock == nil {
		clock = time.Now
	}
	return &Repository{
		store:     s,
		now:       clock,
		districts: append([]string(nil), districts...),
	}
}

// Districts возвращает допустимые районы в исходном порядке.
func (r *Repository) Districts() []string {
	return append([]string(nil), r.districts...)
}

// ListAll - все промоутеры по убыванию листовок.
func (r *Repository) ListAll(ctx context.Context) ([]models.Promoter, error) {
	return r.store.ListByLeaflets(ctx, 0)
}

// ListTop - не более n первых промоутеров из ListAll.
func (r *Repository) ListTop(ctx context.Context, n int) ([]models.Promoter, error) {
	if n < 1 {
		return nil, apperrors.Invalid("limit", "должен быть положительным числом")
	}
	return r.store.ListByLeaflets(ctx, n)
}

// GetByID возвращает (nil, nil), если промоутера нет.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Promoter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	return r.store.Get(ctx, id)
}

// Create проверяет данные, вычисляет workDays и speed и сохраняет промоутера.
func (r *Repository) Create(ctx context.Context, in models.PromoterInput) (models.Promoter, error) {
	now := r.now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Promoter{}, apperrors.Invalid("name", "имя не может быть пустым")
	}
	if in.LeafletsCount < 0 {
		return models.Promoter{}, apperrors.Invalid("leafletsCount", "количество листовок не может быть отрицательным")
	}
	district := strings.TrimSpace(in.District)
	if err := r.checkDistrict(district); err != nil {
		return models.Promoter{}, err
	}
	if err := checkStartDate(in.StartDate, now); err != nil {
		return models.Promoter{}, err
	}

	avatar := strings.TrimSpace(in.AvatarURL)
	if avatar == "" {
		avatar = utils.AvatarURL(name)
	}
	startDate := models.NewDate(in.StartDate.Time)
	workDays := metrics.WorkDays(startDate.Time, now)

	created, err := r.store.Insert(ctx, models.Promoter{
		Name:          name,
		AvatarURL:     avatar,
		LeafletsCount: in.LeafletsCount,
		WorkDays:      workDays,
		District:      district,
		StartDate:     startDate,
		Speed:         metrics.Speed(in.LeafletsCount, workDays),
	})
	if err != nil {
		log.Printf("CreatePromoter: ошибка сохранения промоутера '%s': %v", name, err)
		return models.Promoter{}, err
	}
	log.Printf("CreatePromoter: создан промоутер %s (%s), район %s", created.ID, created.Name, created.District)
	return created, nil
}

// Update применяет частичное обновление.
// Существование проверяется до записи; при отсутствии возвращается NotFound.
func (r *Repository) Update(ctx context.Context, id string, patch models.PromoterPatch) error {
	now := r.now()
	fields, err := r.validatePatch(patch, now)
	if err != nil {
		return err
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return apperrors.NotFound("промоутер", id)
	}

	if fields.AvatarURL != nil && *fields.AvatarURL == "" {
		name := current.Name
		if fields.Name != nil {
			name = *fields.Name
		}
		avatar := utils.AvatarURL(name)
		fields.AvatarURL = &avatar
	}
	if fields.StartDate != nil && fields.WorkDays == nil {
		workDays := metrics.WorkDays(fields.StartDate.Time, now)
		fields.WorkDays = &workDays
	}
	if fields.LeafletsCount != nil || fields.WorkDays != nil {
		leaflets, workDays := current.LeafletsCount, current.WorkDays
		if fields.LeafletsCount != nil {
			leaflets = *fields.LeafletsCount
		}
		if fields.WorkDays != nil {
			workDays = *fields.WorkDays
		}
		speed := metrics.Speed(leaflets, workDays)
		fields.Speed = &speed
	}

	ok, err := r.store.Update(ctx, current.ID, fields)
	if err != nil {
		log.Printf("UpdatePromoter: ошибка обновления промоутера %s: %v", id, err)
		return err
	}
	if !ok {
		// Удалён между чтением и записью.
		return apperrors.NotFound("промоутер", id)
	}
	return nil
}

// Delete удаляет промоутера. Отсутствие проверяется заранее.
func (r *Repository) Delete(ctx context.Context, id string) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return apperrors.NotFound("промоутер", id)
	}
	ok, err := r.store.Delete(ctx, current.ID)
	if err != nil {
		log.Printf("DeletePromoter: ошибка удаления промоутера %s: %v", id, err)
		return err
	}
	if !ok {
		return apperrors.NotFound("промоутер", id)
	}
	log.Printf("DeletePromoter: промоутер %s (%s) удалён", current.ID, current.Name)
	return nil
}

// ResetAllStats обнуляет листовки, дни и скорость у всех промоутеров,
// полученных одним перечислением. Записи, созданные во время сброса,
// могут остаться нетронутыми: атомарности на всю коллекцию нет.
func (r *Repository) ResetAllStats(ctx context.Context) (int, error) {
	promoters, err := r.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	zero := 0
	reset := 0
	for _, p := range promoters {
		ok, err := r.store.Update(ctx, p.ID, store.PromoterFields{
			LeafletsCount: &zero,
			WorkDays:      &zero,
			Speed:         &zero,
		})
		if err != nil {
			log.Printf("ResetAllStats: ошибка сброса промоутера %s после %d из %d: %v", p.ID, reset, len(promoters), err)
			return reset, err
		}
		if ok {
			reset++
		}
	}
	log.Printf("ResetAllStats: статистика сброшена у %d промоутеров", reset)
	return reset, nil
}

func (r *Repository) checkDistrict(district string) error {
	if district == "" {
		return apperrors.Invalid("district", "район обязателен")
	}
	if !utils.IsKnownDistrict(district, r.districts) {
		return apperrors.Invalid("district", fmt.Sprintf("неизвестный район: %s", district))
	}
	return nil
}

func checkStartDate(d models.Date, now time.Time) error {
	if d.IsZero() {
		return apperrors.Invalid("startDate", "дата начала работы обязательна")
	}
	if models.NewDate(d.Time).After(models.NewDate(now).Time) {
		return apperrors.Invalid("startDate", "дата начала работы не может быть в будущем")
	}
	return nil
}

// validatePatch проверяет патч до любого обращения к хранилищу.
func (r *Repository) validatePatch(p models.PromoterPatch, now time.Time) (store.PromoterFields, error) {
	var f store.PromoterFields
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return f, apperrors.Invalid("name", "имя не может быть пустым")
		}
		f.Name = &name
	}
	if p.AvatarURL != nil {
		avatar := strings.TrimSpace(*p.AvatarURL)
		f.AvatarURL = &avatar
	}
	if p.LeafletsCount != nil {
		if *p.LeafletsCount < 0 {
			return f, apperrors.Invalid("leafletsCount", "количество листовок не может быть отрицательным")
		}
		v := *p.LeafletsCount
		f.LeafletsCount = &v
	}
	if p.WorkDays != nil {
		if *p.WorkDays < 0 {
			return f, apperrors.Invalid("workDays", "количество дней не может быть отрицательным")
		}
		v := *p.WorkDays
		f.WorkDays = &v
	}
	if p.District != nil {
		district := strings.TrimSpace(*p.District)
		if err := r.checkDistrict(district); err != nil {
			return f, err
		}
		f.District = &district
	}
	if p.StartDate != nil {
		if err := checkStartDate(*p.StartDate, now); err != nil {
			return f, err
		}
		d := models.NewDate(p.StartDate.Time)
		f.StartDate = &d
	}
	return f, nil
}
