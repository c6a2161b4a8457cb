package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"promo-rating/internal/apperrors"
	"promo-rating/internal/constants"
	"promo-rating/internal/service"
	"promo-rating/internal/utils"
)

// maxBodyBytes - ограничение размера тела JSON-запроса.
const maxBodyBytes = 1 << 20

// jsonResponse - вспомогательная структура для стандартного ответа API
type jsonResponse struct {
	Status  string      `json:"status"` // "success" или "error"
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Handler обслуживает HTTP-запросы сайта и админки.
type Handler struct {
	svc           *service.Service
	publicSiteURL string
	now           func() time.Time
}

// NewHandler создаёт Handler.
func NewHandler(deps ApiDependencies) *Handler {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{svc: deps.Service, publicSiteURL: deps.PublicSiteURL, now: now}
}

// --- Вспомогательные функции для JSON-ответов ---
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(jsonResponse{Status: "error", Message: message})
}

func writeJSONSuccess(w http.ResponseWriter, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(jsonResponse{Status: "success", Message: message, Data: data})
}

// writeServiceError переводит ошибку сервиса в HTTP-статус.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var validationErr *apperrors.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSONError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		log.Printf("%s: хранилище недоступно (request_id=%s): %v", op, middleware.GetReqID(r.Context()), err)
		writeJSONError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, apperrors.ErrDispatchFailed):
		log.Printf("%s: ошибка отправки в Telegram (request_id=%s): %v", op, middleware.GetReqID(r.Context()), err)
		writeJSONError(w, http.StatusBadGateway, err.Error())
	default:
		log.Printf("%s: внутренняя ошибка (request_id=%s): %v", op, middleware.GetReqID(r.Context()), err)
		writeJSONError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
	}
}

// decodeJSON читает тело запроса в dst. strict запрещает неизвестные поля.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, strict bool) bool {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if strict {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Некорректное тело запроса: %v", err))
		return false
	}
	return true
}

// Health - проверка живости процесса.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSONSuccess(w, "ok", nil)
}

// GetLeaderboard - публичный рейтинг. limit=0 или limit=all - все промоутеры.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := h.svc.Leaderboard(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, "GetLeaderboard", err)
		return
	}
	writeJSONSuccess(w, "Рейтинг промоутеров", list)
}

// GetPromoter - карточка промоутера с местом в рейтинге.
func (h *Handler) GetPromoter(w http.ResponseWriter, r *http.Request) {
	promoter, err := h.svc.Promoter(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, "GetPromoter", err)
		return
	}
	writeJSONSuccess(w, "Промоутер", promoter)
}

// GetSpotlight возвращает лучшего промоутера месяца или data: null.
func (h *Handler) GetSpotlight(w http.ResponseWriter, r *http.Request) {
	spotlight, err := h.svc.Spotlight(r.Context())
	if err != nil {
		writeServiceError(w, r, "GetSpotlight", err)
		return
	}
	if spotlight == nil {
		writeJSONSuccess(w, "Лучший промоутер не выбран", nil)
		return
	}
	writeJSONSuccess(w, "Лучший промоутер месяца", spotlight)
}

// GetSiteSettings - общие настройки сайта.
func (h *Handler) GetSiteSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.SiteSettings(r.Context())
	if err != nil {
		writeServiceError(w, r, "GetSiteSettings", err)
		return
	}
	writeJSONSuccess(w, "Настройки сайта", settings)
}

// GetDistricts - допустимые районы.
func (h *Handler) GetDistricts(w http.ResponseWriter, r *http.Request) {
	writeJSONSuccess(w, "Районы", h.svc.Districts())
}

// GetTelegramQR отдаёт PNG с QR-кодом ссылки на Telegram-канал
// (или на публичный сайт, если канал не указан).
func (h *Handler) GetTelegramQR(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.SiteSettings(r.Context())
	if err != nil {
		writeServiceError(w, r, "GetTelegramQR", err)
		return
	}
	link := h.publicSiteURL
	if settings.TelegramChannel != "" {
		link, err = utils.TelegramChannelLink(settings.TelegramChannel)
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}
	if link == "" {
		writeJSONError(w, http.StatusNotFound, "Канал Telegram не указан в настройках")
		return
	}
	png, err := utils.GenerateQRCode(link)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Не удалось создать QR-код")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "":
		return constants.DefaultLeaderboardLimit, nil
	case "all":
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("limit должен быть неотрицательным числом или 'all'")
	}
	if limit > constants.MaxLeaderboardLimit {
		limit = constants.MaxLeaderboardLimit
	}
	return limit, nil
}
