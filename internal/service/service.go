// Package service - сценарии админки и публичного сайта поверх
// репозитория промоутеров, настроек и рассылки в Telegram.
package service

import (
	"context"
	"log"
	"math"
	"strings"

	"promo-rating/internal/apperrors"
	"promo-rating/internal/metrics"
	"promo-rating/internal/models"
	"promo-rating/internal/repository"
	"promo-rating/internal/settings"
)

// Notifier - отправка сообщений в канал.
type Notifier interface {
	Send(ctx context.Context, message string) (bool, error)
	SendSpotlightAnnouncement(ctx context.Context, s *models.Spotlight) (bool, error)
}

// Service объединяет репозиторий, настройки и рассылку.
type Service struct {
	promoters *repository.Repository
	settings  *settings.Store
	notifier  Notifier
}

// New создаёт Service.
func New(promoters *repository.Repository, settingsStore *settings.Store, notifier Notifier) *Service {
	return &Service{promoters: promoters, settings: settingsStore, notifier: notifier}
}

// SpotlightSelection - выбор лучшего промоутера в админке.
type SpotlightSelection struct {
	PromoterID string `json:"promoterId"`
	Reward     string `json:"reward"`
}

// SpotlightResult - итог записи лучшего промоутера.
// Warning заполняется, если уведомление не ушло; сама запись при этом сохранена.
type SpotlightResult struct {
	Spotlight models.Spotlight `json:"spotlight"`
	Notified  bool             `json:"notified"`
	Warning   string           `json:"warning,omitempty"`
}

const warningNotSent = "уведомление не отправлено: интеграция с Telegram отключена или не настроена"

// Districts - допустимые районы.
func (s *Service) Districts() []string {
	return s.promoters.Districts()
}

// Leaderboard возвращает первых limit промоутеров с местами; limit <= 0 - всех.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]models.RankedPromoter, error) {
	var (
		list []models.Promoter
		err  error
	)
	if limit > 0 {
		list, err = s.promoters.ListTop(ctx, limit)
	} else {
		list, err = s.promoters.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	return withRanks(list), nil
}

// Promoter возвращает промоутера с его местом в рейтинге.
func (s *Service) Promoter(ctx context.Context, id string) (models.RankedPromoter, error) {
	all, err := s.promoters.ListAll(ctx)
	if err != nil {
		return models.RankedPromoter{}, err
	}
	rank, ok := metrics.RankOf(all, id)
	if !ok {
		return models.RankedPromoter{}, apperrors.NotFound("промоутер", id)
	}
	return models.RankedPromoter{Promoter: all[rank-1], Rank: rank}, nil
}

// AddPromoter создаёт промоутера.
func (s *Service) AddPromoter(ctx context.Context, in models.PromoterInput) (models.Promoter, error) {
	return s.promoters.Create(ctx, in)
}

// EditPromoter применяет патч и возвращает обновлённую запись.
func (s *Service) EditPromoter(ctx context.Context, id string, patch models.PromoterPatch) (models.Promoter, error) {
	if err := s.promoters.Update(ctx, id, patch); err != nil {
		return models.Promoter{}, err
	}
	return s.reload(ctx, id)
}

// RemovePromoter удаляет промоутера.
func (s *Service) RemovePromoter(ctx context.Context, id string) error {
	return s.promoters.Delete(ctx, id)
}

// IncrementLeaflets прибавляет дневную выработку к счётчику листовок.
// Чтение и запись не атомарны: одновременные прибавления могут потеряться.
// Повторять вызов без ведома пользователя нельзя, иначе листовки посчитаются дважды.
func (s *Service) IncrementLeaflets(ctx context.Context, id string, dailyCount int) (models.Promoter, error) {
	if dailyCount <= 0 {
		return models.Promoter{}, apperrors.Invalid("dailyCount", "количество за день должно быть больше нуля")
	}
	current, err := s.promoters.GetByID(ctx, id)
	if err != nil {
		return models.Promoter{}, err
	}
	if current == nil {
		return models.Promoter{}, apperrors.NotFound("промоутер", id)
	}
	if dailyCount > math.MaxInt-current.LeafletsCount {
		return models.Promoter{}, apperrors.Invalid("dailyCount", "слишком большое количество за день")
	}
	total := current.LeafletsCount + dailyCount
	if err := s.promoters.Update(ctx, current.ID, models.PromoterPatch{LeafletsCount: &total}); err != nil {
		return models.Promoter{}, err
	}
	log.Printf("IncrementLeaflets: промоутер %s: %d + %d = %d", current.ID, current.LeafletsCount, dailyCount, total)
	return s.reload(ctx, current.ID)
}

// ResetAllStats обнуляет статистику всех промоутеров и возвращает число сброшенных.
func (s *Service) ResetAllStats(ctx context.Context) (int, error) {
	return s.promoters.ResetAllStats(ctx)
}

// SetTopPromoter выбирает лучшего промоутера месяца и при notify объявляет его в канале.
// Награда обязательна: пустая после обрезки пробелов даёт ошибку валидации reward.
// Ошибка отправки не отменяет запись и возвращается как предупреждение.
func (s *Service) SetTopPromoter(ctx context.Context, sel SpotlightSelection, notify bool) (SpotlightResult, error) {
	id := strings.TrimSpace(sel.PromoterID)
	if id == "" {
		return SpotlightResult{}, apperrors.Invalid("promoterId", "промоутер не выбран")
	}
	reward := strings.TrimSpace(sel.Reward)
	if reward == "" {
		return SpotlightResult{}, apperrors.Invalid("reward", "укажите награду")
	}

	all, err := s.promoters.ListAll(ctx)
	if err != nil {
		return SpotlightResult{}, err
	}
	rank, ok := metrics.RankOf(all, id)
	if !ok {
		return SpotlightResult{}, apperrors.NotFound("промоутер", id)
	}
	p := all[rank-1]

	spotlight, err := s.settings.SetSpotlight(ctx, models.Spotlight{
		PromoterID:    p.ID,
		Name:          p.Name,
		AvatarURL:     p.AvatarURL,
		LeafletsCount: p.LeafletsCount,
		Reward:        reward,
	})
	if err != nil {
		return SpotlightResult{}, err
	}

	result := SpotlightResult{Spotlight: spotlight}
	if notify {
		result.Notified, result.Warning = s.announce(ctx, &spotlight)
	}
	return result, nil
}

// AnnounceSpotlight повторно отправляет объявление о текущем лучшем промоутере.
// Здесь отправка - основная операция, поэтому её ошибка возвращается.
func (s *Service) AnnounceSpotlight(ctx context.Context) (SpotlightResult, error) {
	spotlight, err := s.settings.Spotlight(ctx)
	if err != nil {
		return SpotlightResult{}, err
	}
	if spotlight == nil {
		return SpotlightResult{}, apperrors.NotFound("лучший промоутер", "")
	}
	sent, err := s.notifier.SendSpotlightAnnouncement(ctx, spotlight)
	if err != nil {
		return SpotlightResult{}, err
	}
	result := SpotlightResult{Spotlight: *spotlight, Notified: sent}
	if !sent {
		result.Warning = warningNotSent
	}
	return result, nil
}

// SendTestMessage отправляет произвольный текст в канал.
func (s *Service) SendTestMessage(ctx context.Context, message string) (bool, error) {
	return s.notifier.Send(ctx, message)
}

// Spotlight - текущий лучший промоутер или nil.
func (s *Service) Spotlight(ctx context.Context) (*models.Spotlight, error) {
	return s.settings.Spotlight(ctx)
}

// SiteSettings - общие настройки сайта.
func (s *Service) SiteSettings(ctx context.Context) (models.SiteSettings, error) {
	return s.settings.SiteSettings(ctx)
}

// UpdateSiteSettings полностью заменяет общие настройки.
func (s *Service) UpdateSiteSettings(ctx context.Context, in models.SiteSettings) (models.SiteSettings, error) {
	return s.settings.UpdateSiteSettings(ctx, in)
}

// NotificationConfig - настройки Telegram.
func (s *Service) NotificationConfig(ctx context.Context) (models.NotificationConfig, error) {
	return s.settings.NotificationConfig(ctx)
}

// UpdateNotificationConfig полностью заменяет настройки Telegram.
func (s *Service) UpdateNotificationConfig(ctx context.Context, in models.NotificationConfig) (models.NotificationConfig, error) {
	return s.settings.UpdateNotificationConfig(ctx, in)
}

// Dashboard - сводка для главной страницы админки.
func (s *Service) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	all, err := s.promoters.ListAll(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	spotlight, err := s.settings.Spotlight(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	cfg, err := s.settings.NotificationConfig(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	stats := models.DashboardStats{
		PromotersCount:  len(all),
		HasTopPromoter:  spotlight != nil,
		TelegramEnabled: cfg.Enabled,
	}
	for _, p := range all {
		stats.TotalLeaflets += p.LeafletsCount
	}
	return stats, nil
}

// announce отправляет объявление и переводит исход в предупреждение.
func (s *Service) announce(ctx context.Context, spotlight *models.Spotlight) (bool, string) {
	sent, err := s.notifier.SendSpotlightAnnouncement(ctx, spotlight)
	if err != nil {
		log.Printf("SetTopPromoter: лучший промоутер сохранён, но уведомление не отправлено: %v", err)
		return false, err.Error()
	}
	if !sent {
		return false, warningNotSent
	}
	return true, ""
}

func (s *Service) reload(ctx context.Context, id string) (models.Promoter, error) {
	p, err := s.promoters.GetByID(ctx, id)
	if err != nil {
		return models.Promoter{}, err
	}
	if p == nil {
		return models.Promoter{}, apperrors.NotFound("промоутер", id)
	}
	return *p, nil
}

func withRanks(list []models.Promoter) []models.RankedPromoter {
	out := make([]models.RankedPromoter, len(list))
	for i, p := range list {
		out[i] = models.RankedPromoter{Promoter: p, Rank: i + 1}
	}
	return out
}
