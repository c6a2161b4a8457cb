package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"promo-rating/internal/models"
	"promo-rating/internal/service"
)

// IncrementLeafletsRequest - дневная выработка промоутера.
type IncrementLeafletsRequest struct {
	DailyCount int `json:"dailyCount"`
}

// SetSpotlightRequest - выбор лучшего промоутера месяца.
type SetSpotlightRequest struct {
	PromoterID string `json:"promoterId"`
	Reward     string `json:"reward"`
	Notify     bool   `json:"notify"`
}

// TestMessageRequest - тестовое сообщение в канал.
type TestMessageRequest struct {
	Message string `json:"message"`
}

// GetDashboard - сводка для главной страницы админки.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, "GetDashboard", err)
		return
	}
	writeJSONSuccess(w, "Сводка", stats)
}

// ListPromoters - список для админки с поиском и сортировкой.
func (h *Handler) ListPromoters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.svc.AdminList(r.Context(), service.ListQuery{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
		Dir:    q.Get("dir"),
	})
	if err != nil {
		writeServiceError(w, r, "ListPromoters", err)
		return
	}
	writeJSONSuccess(w, fmt.Sprintf("Найдено промоутеров: %d", len(list)), list)
}

// CreatePromoter добавляет промоутера.
func (h *Handler) CreatePromoter(w http.ResponseWriter, r *http.Request) {
	var in models.PromoterInput
	if !decodeJSON(w, r, &in, false) {
		return
	}
	created, err := h.svc.AddPromoter(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, "CreatePromoter", err)
		return
	}
	writeJSONSuccess(w, "Промоутер добавлен", created)
}

// UpdatePromoter применяет частичное обновление.
// Неизвестные поля (в том числе speed) отклоняются.
func (h *Handler) UpdatePromoter(w http.ResponseWriter, r *http.Request) {
	var patch models.PromoterPatch
	if !decodeJSON(w, r, &patch, true) {
		return
	}
	updated, err := h.svc.EditPromoter(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeServiceError(w, r, "UpdatePromoter", err)
		return
	}
	writeJSONSuccess(w, "Промоутер обновлён", updated)
}

// DeletePromoter удаляет промоутера.
func (h *Handler) DeletePromoter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.RemovePromoter(r.Context(), id); err != nil {
		writeServiceError(w, r, "DeletePromoter", err)
		return
	}
	writeJSONSuccess(w, "Промоутер удалён", map[string]string{"id": id})
}

// IncrementLeaflets прибавляет дневную выработку.
func (h *Handler) IncrementLeaflets(w http.ResponseWriter, r *http.Request) {
	var req IncrementLeafletsRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	updated, err := h.svc.IncrementLeaflets(r.Context(), chi.URLParam(r, "id"), req.DailyCount)
	if err != nil {
		writeServiceError(w, r, "IncrementLeaflets", err)
		return
	}
	writeJSONSuccess(w, "Листовки добавлены", updated)
}

// ResetStats обнуляет статистику всех промоутеров.
func (h *Handler) ResetStats(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.ResetAllStats(r.Context())
	if err != nil {
		writeServiceError(w, r, "ResetStats", err)
		return
	}
	writeJSONSuccess(w, "Статистика сброшена", map[string]int{"reset": count})
}

// SetSpotlight выбирает лучшего промоутера месяца.
// Неудачная отправка уведомления не делает запрос ошибочным.
func (h *Handler) SetSpotlight(w http.ResponseWriter, r *http.Request) {
	var req SetSpotlightRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	result, err := h.svc.SetTopPromoter(r.Context(), service.SpotlightSelection{
		PromoterID: req.PromoterID,
		Reward:     req.Reward,
	}, req.Notify)
	if err != nil {
		writeServiceError(w, r, "SetSpotlight", err)
		return
	}
	message := "Лучший промоутер месяца сохранён"
	if result.Warning != "" {
		message += ". Внимание: " + result.Warning
	}
	writeJSONSuccess(w, message, result)
}

// AnnounceSpotlight повторно отправляет объявление в канал.
func (h *Handler) AnnounceSpotlight(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.AnnounceSpotlight(r.Context())
	if err != nil {
		writeServiceError(w, r, "AnnounceSpotlight", err)
		return
	}
	message := "Объявление отправлено"
	if !result.Notified {
		message = "Объявление не отправлено: " + result.Warning
	}
	writeJSONSuccess(w, message, result)
}

// UpdateSiteSettings полностью заменяет общие настройки.
func (h *Handler) UpdateSiteSettings(w http.ResponseWriter, r *http.Request) {
	var in models.SiteSettings
	if !decodeJSON(w, r, &in, false) {
		return
	}
	saved, err := h.svc.UpdateSiteSettings(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, "UpdateSiteSettings", err)
		return
	}
	writeJSONSuccess(w, "Настройки сохранены", saved)
}

// GetTelegramConfig - настройки Telegram.
func (h *Handler) GetTelegramConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.NotificationConfig(r.Context())
	if err != nil {
		writeServiceError(w, r, "GetTelegramConfig", err)
		return
	}
	writeJSONSuccess(w, "Настройки Telegram", cfg)
}

// UpdateTelegramConfig полностью заменяет настройки Telegram.
func (h *Handler) UpdateTelegramConfig(w http.ResponseWriter, r *http.Request) {
	var in models.NotificationConfig
	if !decodeJSON(w, r, &in, false) {
		return
	}
	saved, err := h.svc.UpdateNotificationConfig(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, "UpdateTelegramConfig", err)
		return
	}
	writeJSONSuccess(w, "Настройки Telegram сохранены", saved)
}

// SendTestMessage отправляет тестовое сообщение в канал.
func (h *Handler) SendTestMessage(w http.ResponseWriter, r *http.Request) {
	var req TestMessageRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	sent, err := h.svc.SendTestMessage(r.Context(), req.Message)
	if err != nil {
		writeServiceError(w, r, "SendTestMessage", err)
		return
	}
	if !sent {
		writeJSONSuccess(w, "Не удалось отправить сообщение. Проверьте настройки Telegram", map[string]bool{"sent": false})
		return
	}
	writeJSONSuccess(w, "Тестовое сообщение успешно отправлено", map[string]bool{"sent": true})
}
