package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promo-rating/internal/constants"
)

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(`
version: 1
districts:
  - " Север "
  - Юг
header_text: Лучшие промоутеры города
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Север", "Юг"}, p.Districts)
	assert.Equal(t, "Лучшие промоутеры города", p.HeaderText)
	assert.Equal(t, constants.DefaultCompanyLogo, p.CompanyLogo)
}

func TestParseProfileDefaults(t *testing.T) {
	p, err := ParseProfile([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile(), p)
	assert.Len(t, p.Districts, 10)
}

func TestParseProfileErrors(t *testing.T) {
	for name, raw := range map[string]string{
		"версия":       "version: 2",
		"дубликат":     "districts: [Центр, Центр]",
		"пустой район": "districts: [Центр, '']",
		"не yaml":      "districts: [",
		"неверный тип": "districts: 5",
	} {
		_, err := ParseProfile([]byte(raw))
		assert.Error(t, err, name)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("PORT", "")
	t.Setenv("PROFILE_FILE", "")
	t.Setenv("TELEGRAM_API_ENDPOINT", "")
	t.Setenv("PUBLIC_SITE_URL", "https://promo.example.ru/")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://promo.example.ru", cfg.PublicSiteURL)
	assert.Equal(t, "https://api.telegram.org/bot%s/%s", cfg.TelegramAPIEndpoint)
	assert.Equal(t, constants.DefaultDistricts, cfg.Profile.Districts)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv("PROFILE_FILE", "")

	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("STORE_DRIVER", "mongo")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigProfileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("districts: [Север, Юг]\n"), 0o600))

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("PROFILE_FILE", path)
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"Север", "Юг"}, cfg.Profile.Districts)

	t.Setenv("PROFILE_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = LoadConfig()
	assert.Error(t, err)
}
