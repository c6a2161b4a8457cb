package settings_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promo-rating/internal/apperrors"
	"promo-rating/internal/constants"
	"promo-rating/internal/models"
	"promo-rating/internal/settings"
	"promo-rating/internal/store"
	"promo-rating/internal/store/memstore"
)

var now = time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

func newStore(t *testing.T, defaults settings.Defaults) (*settings.Store, *memstore.Store) {
	t.Helper()
	st := memstore.New(nil)
	return settings.New(st, func() time.Time { return now }, defaults), st
}

func TestSiteSettingsDefaultPersistedOnce(t *testing.T) {
	s, st := newStore(t, settings.ReferenceDefaults())
	ctx := context.Background()

	first, err := s.SiteSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultCompanyLogo, first.CompanyLogo)
	assert.Equal(t, constants.DefaultHeaderText, first.HeaderText)
	assert.Equal(t, "", first.TelegramChannel)
	assert.NotNil(t, first.ManagerContacts)
	assert.Empty(t, first.ManagerContacts)
	assert.Equal(t, constants.SettingsDefaultsVersion, first.DefaultsVersion)
	assert.Equal(t, 1, st.Writes())

	raw, found, err := st.GetDocument(ctx, store.DocGeneral)
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, string(raw), constants.DefaultCompanyLogo)

	second, err := s.SiteSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, st.Writes())
}

func TestSiteSettingsKeepsStoredDocument(t *testing.T) {
	s, st := newStore(t, settings.ReferenceDefaults())
	ctx := context.Background()
	require.NoError(t, st.PutDocument(ctx, store.DocGeneral, []byte(`{"companyLogo":"logo.png","headerText":"Привет","telegramChannel":"@promo","managerContacts":[{"type":"email","value":"a@b.ru"}]}`)))

	got, err := s.SiteSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "logo.png", got.CompanyLogo)
	assert.Equal(t, "@promo", got.TelegramChannel)
	assert.Equal(t, []models.ManagerContact{{Type: "email", Value: "a@b.ru"}}, got.ManagerContacts)
}

func TestUpdateSiteSettingsFullReplace(t *testing.T) {
	s, _ := newStore(t, settings.ReferenceDefaults())
	ctx := context.Background()

	saved, err := s.UpdateSiteSettings(ctx, models.SiteSettings{
		CompanyLogo:     "https://cdn.example.ru/logo.png",
		HeaderText:      "Новый заголовок",
		TelegramChannel: "@promo_ptz",
		ManagerContacts: []models.ManagerContact{
			{Type: "phone", Value: "8 (921) 123-45-67"},
			{Type: "EMAIL", Value: " boss@promo.ru "},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.ManagerContact{
		{Type: models.ContactPhone, Value: "+79211234567"},
		{Type: models.ContactEmail, Value: "boss@promo.ru"},
	}, saved.ManagerContacts)

	// Полная замена: незаданные поля не сохраняются от прошлой версии.
	saved, err = s.UpdateSiteSettings(ctx, models.SiteSettings{HeaderText: "Только заголовок"})
	require.NoError(t, err)
	assert.Equal(t, constants.DefaultCompanyLogo, saved.CompanyLogo)
	assert.Equal(t, "", saved.TelegramChannel)
	assert.Empty(t, saved.ManagerContacts)

	got, err := s.SiteSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestUpdateSiteSettingsValidation(t *testing.T) {
	s, st := newStore(t, settings.ReferenceDefaults())
	ctx := context.Background()

	for name, in := range map[string]models.SiteSettings{
		"неизвестный тип": {ManagerContacts: []models.ManagerContact{{Type: "fax", Value: "123"}}},
		"плохая почта":    {ManagerContacts: []models.ManagerContact{{Type: "email", Value: "nope"}}},
		"плохой телефон":  {ManagerContacts: []models.ManagerContact{{Type: "phone", Value: "12"}}},
		"плохой канал":    {TelegramChannel: "promo channel"},
	} {
		_, err := s.UpdateSiteSettings(ctx, in)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), name)
	}
	assert.Equal(t, 0, st.Writes())
}

func TestSpotlight(t *testing.T) {
	s, _ := newStore(t, settings.ReferenceDefaults())
	ctx := context.Background()

	got, err := s.Spotlight(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "до первого выбора лучшего промоутера нет")

	saved, err := s.SetSpotlight(ctx, models.Spotlight{
		PromoterID:    "p-1",
		Name:          "Ivan",
		LeafletsCount: 150,
		Reward:        "+5000",
		Date:          time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, now.Equal(saved.Date), "дата всегда текущая")
	assert.Contains(t, saved.AvatarURL, "ui-avatars.com")

	got, err = s.Spotlight(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "p-1", got.PromoterID)
	assert.Equal(t, "+5000", got.Reward)
	assert.True(t, now.Equal(got.Date))

	_, err = s.SetSpotlight(ctx, models.Spotlight{PromoterID: "p-2", Name: "Olga", AvatarURL: "https://cdn.example.ru/o.png", Reward: "iPhone"})
	require.NoError(t, err)
	got, _ = s.Spotlight(ctx)
	assert.Equal(t, "p-2", got.PromoterID)
	assert.Equal(t, "https://cdn.example.ru/o.png", got.AvatarURL)
	assert.Equal(t, 0, got.LeafletsCount)
}

func TestNotificationConfigDefaults(t *testing.T) {
	s, st := newStore(t, settings.Defaults{BotToken: "123:abc", ChannelID: "@promo"})
	ctx := context.Background()

	cfg, err := s.NotificationConfig(ctx)
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, "@promo", cfg.ChannelID)
	assert.Equal(t, 1, st.Writes())

	updated, err := s.UpdateNotificationConfig(ctx, models.NotificationConfig{BotToken: " 456:def ", ChannelID: "-100123", Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, "456:def", updated.BotToken)

	cfg, err = s.NotificationConfig(ctx)
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "-100123", cfg.ChannelID)

	_, err = s.UpdateNotificationConfig(ctx, models.NotificationConfig{BotToken: "bad token"})
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestStoreErrors(t *testing.T) {
	s, st := newStore(t, settings.ReferenceDefaults())
	ctx := context.Background()
	st.SetErr(errors.New("timeout"))

	_, err := s.SiteSettings(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
	_, err = s.Spotlight(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
	_, err = s.NotificationConfig(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))

	st.SetErr(nil)
	require.NoError(t, st.PutDocument(ctx, store.DocTopPromoter, []byte(`not json`)))
	_, err = s.Spotlight(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
}
