// Package settings - документы-синглтоны: общие настройки сайта,
// лучший промоутер месяца и настройки Telegram.
//
// Общие настройки и настройки Telegram создаются со значениями по умолчанию
// при первом чтении. Лучший промоутер по умолчанию отсутствует.
package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"promo-rating/internal/apperrors"
	"promo-rating/internal/constants"
	"promo-rating/internal/models"
	"promo-rating/internal/store"
	"promo-rating/internal/utils"
)

// Defaults - содержимое документов по умолчанию.
type Defaults struct {
	CompanyLogo string
	HeaderText  string
	BotToken    string
	ChannelID   string
}

// ReferenceDefaults - значения эталонного развёртывания без учётных данных бота.
func ReferenceDefaults() Defaults {
	return Defaults{
		CompanyLogo: constants.DefaultCompanyLogo,
		HeaderText:  constants.DefaultHeaderText,
	}
}

// SiteSettings возвращает документ settings/general по умолчанию.
func (d Defaults) SiteSettings() models.SiteSettings {
	return models.SiteSettings{
		CompanyLogo:     d.CompanyLogo,
		HeaderText:      d.HeaderText,
		TelegramChannel: "",
		ManagerContacts: []models.ManagerContact{},
		DefaultsVersion: constants.SettingsDefaultsVersion,
	}
}

// NotificationConfig возвращает документ settings/telegramConfig по умолчанию.
func (d Defaults) NotificationConfig() models.NotificationConfig {
	return models.NotificationConfig{
		BotToken:        d.BotToken,
		ChannelID:       d.ChannelID,
		Enabled:         false,
		DefaultsVersion: constants.SettingsDefaultsVersion,
	}
}

// Store читает и пишет документы-синглтоны. Каждое чтение идёт в хранилище.
type Store struct {
	docs     store.DocumentStore
	now      store.Clock
	defaults Defaults
}

// New создаёт Store. Пустые CompanyLogo и HeaderText заменяются эталонными.
func New(docs store.DocumentStore, clock store.Clock, defaults Defaults) *Store {
	if clock == nil {
		clock = time.Now
	}
	ref := ReferenceDefaults()
	if strings.TrimSpace(defaults.CompanyLogo) == "" {
		defaults.CompanyLogo = ref.CompanyLogo
	}
	if strings.TrimSpace(defaults.HeaderText) == "" {
		defaults.HeaderText = ref.HeaderText
	}
	return &Store{docs: docs, now: clock, defaults: defaults}
}

// Defaults возвращает значения по умолчанию этого Store.
func (s *Store) Defaults() Defaults {
	return s.defaults
}

// SiteSettings возвращает общие настройки, при отсутствии сохраняя значения по умолчанию.
func (s *Store) SiteSettings(ctx context.Context) (models.SiteSettings, error) {
	var settings models.SiteSettings
	if err := s.getOrCreate(ctx, store.DocGeneral, s.defaults.SiteSettings(), &settings); err != nil {
		return models.SiteSettings{}, err
	}
	if settings.ManagerContacts == nil {
		settings.ManagerContacts = []models.ManagerContact{}
	}
	return settings, nil
}

// UpdateSiteSettings полностью заменяет документ.
// Пустые логотип и заголовок заменяются значениями по умолчанию.
func (s *Store) UpdateSiteSettings(ctx context.Context, in models.SiteSettings) (models.SiteSettings, error) {
	out := models.SiteSettings{
		CompanyLogo:     strings.TrimSpace(in.CompanyLogo),
		HeaderText:      strings.TrimSpace(in.HeaderText),
		TelegramChannel: strings.TrimSpace(in.TelegramChannel),
		ManagerContacts: make([]models.ManagerContact, 0, len(in.ManagerContacts)),
		DefaultsVersion: constants.SettingsDefaultsVersion,
	}
	if out.CompanyLogo == "" {
		out.CompanyLogo = s.defaults.CompanyLogo
	}
	if out.HeaderText == "" {
		out.HeaderText = s.defaults.HeaderText
	}
	if out.TelegramChannel != "" {
		if _, err := utils.TelegramChannelLink(out.TelegramChannel); err != nil {
			return models.SiteSettings{}, apperrors.Invalid("telegramChannel", err.Error())
		}
	}
	for i, c := range in.ManagerContacts {
		contact, err := normalizeContact(c)
		if err != nil {
			return models.SiteSettings{}, apperrors.Invalid(fmt.Sprintf("managerContacts[%d]", i), err.Error())
		}
		out.ManagerContacts = append(out.ManagerContacts, contact)
	}

	if err := s.put(ctx, store.DocGeneral, out); err != nil {
		log.Printf("UpdateSiteSettings: ошибка сохранения настроек: %v", err)
		return models.SiteSettings{}, err
	}
	return out, nil
}

// Spotlight возвращает (nil, nil), если лучший промоутер ещё не выбирался.
func (s *Store) Spotlight(ctx context.Context) (*models.Spotlight, error) {
	data, found, err := s.docs.GetDocument(ctx, store.DocTopPromoter)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	var spotlight models.Spotlight
	if err := decode(store.DocTopPromoter, data, &spotlight); err != nil {
		return nil, err
	}
	return &spotlight, nil
}

// SetSpotlight полностью заменяет запись о лучшем промоутере.
// Дата всегда ставится текущая; пустой аватар выводится из имени.
func (s *Store) SetSpotlight(ctx context.Context, in models.Spotlight) (models.Spotlight, error) {
	out := in
	out.Name = strings.TrimSpace(in.Name)
	out.Reward = strings.TrimSpace(in.Reward)
	out.AvatarURL = strings.TrimSpace(in.AvatarURL)
	if out.AvatarURL == "" && out.Name != "" {
		out.AvatarURL = utils.AvatarURL(out.Name)
	}
	out.Date = s.now()

	if err := s.put(ctx, store.DocTopPromoter, out); err != nil {
		log.Printf("SetSpotlight: ошибка сохранения лучшего промоутера %s: %v", out.PromoterID, err)
		return models.Spotlight{}, err
	}
	log.Printf("SetSpotlight: лучший промоутер месяца - %s (%s)", out.PromoterID, out.Name)
	return out, nil
}

// NotificationConfig возвращает настройки Telegram, при отсутствии сохраняя значения по умолчанию.
func (s *Store) NotificationConfig(ctx context.Context) (models.NotificationConfig, error) {
	var cfg models.NotificationConfig
	if err := s.getOrCreate(ctx, store.DocTelegramConfig, s.defaults.NotificationConfig(), &cfg); err != nil {
		return models.NotificationConfig{}, err
	}
	return cfg, nil
}

// UpdateNotificationConfig полностью заменяет настройки Telegram.
func (s *Store) UpdateNotificationConfig(ctx context.Context, in models.NotificationConfig) (models.NotificationConfig, error) {
	out := models.NotificationConfig{
		BotToken:        strings.TrimSpace(in.BotToken),
		ChannelID:       strings.TrimSpace(in.ChannelID),
		Enabled:         in.Enabled,
		DefaultsVersion: constants.SettingsDefaultsVersion,
	}
	if strings.ContainsAny(out.BotToken, " /") {
		return models.NotificationConfig{}, apperrors.Invalid("botToken", "токен бота содержит недопустимые символы")
	}
	if err := s.put(ctx, store.DocTelegramConfig, out); err != nil {
		log.Printf("UpdateNotificationConfig: ошибка сохранения настроек Telegram: %v", err)
		return models.NotificationConfig{}, err
	}
	if out.Enabled && !out.Configured() {
		log.Println("UpdateNotificationConfig: интеграция включена, но токен или канал не заданы. Сообщения отправляться не будут.")
	}
	return out, nil
}

// getOrCreate читает документ; если его нет, атомарно записывает defaults
// и возвращает то, что оказалось в хранилище.
func (s *Store) getOrCreate(ctx context.Context, key store.DocKey, defaults interface{}, dst interface{}) error {
	data, found, err := s.docs.GetDocument(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		raw, errMarshal := json.Marshal(defaults)
		if errMarshal != nil {
			return fmt.Errorf("ошибка сериализации документа %s по умолчанию: %w", key, errMarshal)
		}
		data, err = s.docs.CreateDocumentIfAbsent(ctx, key, raw)
		if err != nil {
			return err
		}
		log.Printf("Settings: документ settings/%s отсутствовал, записаны значения по умолчанию", key)
	}
	return decode(key, data, dst)
}

func (s *Store) put(ctx context.Context, key store.DocKey, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("ошибка сериализации документа %s: %w", key, err)
	}
	return s.docs.PutDocument(ctx, key, raw)
}

// decode: повреждённый документ считается ошибкой хранилища.
func decode(key store.DocKey, data []byte, dst interface{}) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return apperrors.StoreUnavailable("decode settings/"+string(key), err)
	}
	return nil
}

func normalizeContact(c models.ManagerContact) (models.ManagerContact, error) {
	typ := strings.ToLower(strings.TrimSpace(c.Type))
	switch typ {
	case models.ContactPhone:
		phone, err := utils.ValidatePhoneNumber(c.Value)
		if err != nil {
			return models.ManagerContact{}, err
		}
		return models.ManagerContact{Type: typ, Value: phone}, nil
	case models.ContactEmail:
		email, err := utils.ValidateEmail(c.Value)
		if err != nil {
			return models.ManagerContact{}, err
		}
		return models.ManagerContact{Type: typ, Value: email}, nil
	default:
		return models.ManagerContact{}, fmt.Errorf("неизвестный тип контакта %q (ожидается phone или email)", c.Type)
	}
}
