package models

import "time"

// Типы контактов менеджера.
const (
	ContactPhone = "phone"
	ContactEmail = "email"
)

// ManagerContact - контакт менеджера на сайте.
type ManagerContact struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// SiteSettings - общие настройки сайта (settings/general).
type SiteSettings struct {
	CompanyLogo     string           `json:"companyLogo"`
	HeaderText      string           `json:"headerText"`
	TelegramChannel string           `json:"telegramChannel"`
	ManagerContacts []ManagerContact `json:"managerContacts"`
	DefaultsVersion int              `json:"defaultsVersion,omitempty"`
}

// Spotlight - лучший промоутер месяца (settings/topPromoter).
// Имя, аватар и листовки копируются на момент выбора.
type Spotlight struct {
	PromoterID    string    `json:"promoterId"`
	Name          string    `json:"name"`
	AvatarURL     string    `json:"avatarUrl"`
	LeafletsCount int       `json:"leafletsCount"`
	Reward        string    `json:"reward"`
	Date          time.Time `json:"date"`
}

// NotificationConfig - настройки Telegram (settings/telegramConfig).
type NotificationConfig struct {
	BotToken        string `json:"botToken"`
	ChannelID       string `json:"channelId"`
	Enabled         bool   `json:"enabled"`
	DefaultsVersion int    `json:"defaultsVersion,omitempty"`
}

// Configured - заданы ли токен и канал.
func (c NotificationConfig) Configured() bool {
	return c.BotToken != "" && c.ChannelID != ""
}
