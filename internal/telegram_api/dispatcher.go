package telegram_api

import (
	"context"
	"errors"
	"log"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"promo-rating/internal/apperrors"
	"promo-rating/internal/constants"
	"promo-rating/internal/formatters"
	"promo-rating/internal/models"
	"promo-rating/internal/utils"
)

// ConfigSource отдаёт актуальные настройки Telegram.
type ConfigSource interface {
	NotificationConfig(ctx context.Context) (models.NotificationConfig, error)
}

// Dispatcher отправляет сообщения в канал из настроек.
type Dispatcher struct {
	configs   ConfigSource
	newClient ClientFactory
}

// NewDispatcher создаёт Dispatcher.
func NewDispatcher(configs ConfigSource, newClient ClientFactory) *Dispatcher {
	if newClient == nil {
		newClient = NewClientFactory("", nil, false)
	}
	return &Dispatcher{configs: configs, newClient: newClient}
}

// Send отправляет HTML-сообщение в канал.
// Если интеграция выключена или не настроена, возвращает (false, nil) без обращения к сети.
// Ошибка API или сети возвращается как apperrors.ErrDispatchFailed.
func (d *Dispatcher) Send(ctx context.Context, message string) (bool, error) {
	if strings.TrimSpace(message) == "" {
		return false, apperrors.Invalid("message", "текст сообщения пуст")
	}
	cfg, err := d.configs.NotificationConfig(ctx)
	if err != nil {
		log.Printf("Dispatcher.Send: не удалось прочитать настройки Telegram: %v", err)
		return false, err
	}
	if !cfg.Enabled {
		log.Println("Dispatcher.Send: интеграция с Telegram отключена, сообщение не отправлено")
		return false, nil
	}
	if !cfg.Configured() {
		log.Println("Dispatcher.Send: не заданы токен бота или канал, сообщение не отправлено")
		return false, nil
	}

	client, err := d.newClient(ctx, cfg.BotToken)
	if err != nil {
		log.Printf("Dispatcher.Send: ошибка инициализации бота: %v", err)
		return false, dispatchErr(nil, err)
	}

	params := tgbotapi.Params{
		"chat_id":    cfg.ChannelID,
		"text":       utils.TruncateRunes(message, constants.TelegramMaxTextLength),
		"parse_mode": constants.TelegramParseModeHTML,
	}
	resp, err := client.MakeRequest("sendMessage", params)
	if err != nil || (resp != nil && !resp.Ok) {
		log.Printf("Dispatcher.Send: ошибка отправки в канал %s: %v", cfg.ChannelID, err)
		return false, dispatchErr(resp, err)
	}
	log.Printf("Dispatcher.Send: сообщение отправлено в канал %s", cfg.ChannelID)
	return true, nil
}

// SendSpotlightAnnouncement объявляет лучшего промоутера месяца.
// Для nil возвращает (false, nil).
func (d *Dispatcher) SendSpotlightAnnouncement(ctx context.Context, s *models.Spotlight) (bool, error) {
	if s == nil {
		return false, nil
	}
	return d.Send(ctx, formatters.FormatSpotlightAnnouncement(*s))
}

// dispatchErr переносит код и описание ответа API в DispatchError.
func dispatchErr(resp *tgbotapi.APIResponse, err error) error {
	if resp != nil && !resp.Ok {
		return &apperrors.DispatchError{Code: resp.ErrorCode, Description: resp.Description}
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return &apperrors.DispatchError{Code: apiErr.Code, Description: apiErr.Message}
	}
	if err == nil {
		return &apperrors.DispatchError{Description: "неизвестная ошибка"}
	}
	return &apperrors.DispatchError{Description: err.Error()}
}
