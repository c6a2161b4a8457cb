// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"gopkg.in/yaml.v3"

	"promo-rating/internal/constants"
)

// Драйверы хранилища.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL string
	StoreDriver string
	Port        string
	AppEnv      string

	AdminAPIToken string

	// Значения по умолчанию для документа settings/telegramConfig.
	TelegramBotToken    string
	TelegramChannelID   string
	TelegramAPIEndpoint string

	PublicSiteURL string
	// Каталог со статикой фронтенда; отдаётся по /webapp/, если существует.
	WebAppDir string

	Profile Profile
}

// Profile - профиль развёртывания из YAML-файла.
type Profile struct {
	Version     int      `yaml:"version,omitempty"`
	Districts   []string `yaml:"districts"`
	HeaderText  string   `yaml:"header_text"`
	CompanyLogo string   `yaml:"company_logo"`
}

// DefaultProfile - профиль эталонного развёртывания (Петрозаводск).
func DefaultProfile() Profile {
	return Profile{
		Version:     1,
		Districts:   append([]string(nil), constants.DefaultDistricts...),
		HeaderText:  constants.DefaultHeaderText,
		CompanyLogo: constants.DefaultCompanyLogo,
	}
}

// Debug - включать ли подробный лог запросов к Telegram.
func (c *Config) Debug() bool {
	return c.AppEnv == "dev"
}

// LoadConfig загружает конфигурацию из переменных окружения.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		DatabaseURL:         strings.TrimSpace(os.Getenv("DATABASE_URL")),
		StoreDriver:         strings.TrimSpace(os.Getenv("STORE_DRIVER")),
		Port:                strings.TrimSpace(os.Getenv("PORT")),
		AppEnv:              os.Getenv("ENV"),
		AdminAPIToken:       strings.TrimSpace(os.Getenv("ADMIN_API_TOKEN")),
		TelegramBotToken:    strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		TelegramChannelID:   strings.TrimSpace(os.Getenv("TELEGRAM_CHANNEL_ID")),
		TelegramAPIEndpoint: strings.TrimSpace(os.Getenv("TELEGRAM_API_ENDPOINT")),
		PublicSiteURL:       strings.TrimRight(strings.TrimSpace(os.Getenv("PUBLIC_SITE_URL")), "/"),
		WebAppDir:           strings.TrimSpace(os.Getenv("WEBAPP_DIR")),
		Profile:             DefaultProfile(),
	}

	if cfg.StoreDriver == "" {
		cfg.StoreDriver = StoreDriverPostgres
	}
	if cfg.StoreDriver != StoreDriverPostgres && cfg.StoreDriver != StoreDriverMemory {
		return nil, fmt.Errorf("неизвестный STORE_DRIVER %q (ожидается %s или %s)", cfg.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.WebAppDir == "" {
		cfg.WebAppDir = "webapp"
	}
	if cfg.TelegramAPIEndpoint == "" {
		cfg.TelegramAPIEndpoint = tgbotapi.APIEndpoint
	}

	if cfg.StoreDriver == StoreDriverPostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL не установлен")
	}
	if cfg.StoreDriver == StoreDriverMemory {
		log.Println("Предупреждение: STORE_DRIVER=memory, данные не сохраняются между перезапусками.")
	}
	if cfg.AdminAPIToken == "" {
		log.Println("Предупреждение: ADMIN_API_TOKEN не установлен. Административный API будет отклонять все запросы.")
	}
	if cfg.TelegramBotToken == "" {
		log.Println("Предупреждение: TELEGRAM_BOT_TOKEN не установлен. Токен бота нужно будет задать в админке.")
	}

	if path := strings.TrimSpace(os.Getenv("PROFILE_FILE")); path != "" {
		profile, err := LoadProfile(path)
		if err != nil {
			return nil, err
		}
		cfg.Profile = profile
	}

	log.Println("Конфигурация загружена.")
	return cfg, nil
}

// LoadProfile читает YAML-профиль. Незаданные поля берутся из DefaultProfile.
func LoadProfile(path string) (Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("не удалось прочитать профиль %s: %w", path, err)
	}
	return ParseProfile(raw)
}

// ParseProfile разбирает и проверяет YAML-профиль.
func ParseProfile(raw []byte) (Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("ошибка разбора профиля: %w", err)
	}
	if p.Version == 0 {
		p.Version = 1
	}
	if p.Version != 1 {
		return Profile{}, fmt.Errorf("неподдерживаемая версия профиля: %d", p.Version)
	}

	def := DefaultProfile()
	if len(p.Districts) == 0 {
		p.Districts = def.Districts
	}
	seen := make(map[string]bool, len(p.Districts))
	for i, d := range p.Districts {
		d = strings.TrimSpace(d)
		if d == "" {
			return Profile{}, fmt.Errorf("пустое название района в позиции %d", i+1)
		}
		if seen[d] {
			return Profile{}, fmt.Errorf("район %q указан дважды", d)
		}
		seen[d] = true
		p.Districts[i] = d
	}
	if strings.TrimSpace(p.HeaderText) == "" {
		p.HeaderText = def.HeaderText
	}
	if strings.TrimSpace(p.CompanyLogo) == "" {
		p.CompanyLogo = def.CompanyLogo
	}
	return p, nil
}
