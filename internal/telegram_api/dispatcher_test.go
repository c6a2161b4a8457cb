package telegram_api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promo-rating/internal/apperrors"
	"promo-rating/internal/models"
)

const testToken = "123:test"

type staticConfig struct {
	cfg models.NotificationConfig
	err error
}

func (s staticConfig) NotificationConfig(ctx context.Context) (models.NotificationConfig, error) {
	return s.cfg, s.err
}

// fakeBotAPI - минимальный Bot API: getMe и sendMessage.
type fakeBotAPI struct {
	mu       sync.Mutex
	calls    []string
	sent     []map[string]string
	sendBody string
	status   int
}

// Параметры читаются через FormValue: он разбирает и urlencoded, и multipart.
func newFakeBotAPI(t *testing.T) (*fakeBotAPI, *httptest.Server) {
	t.Helper()
	f := &fakeBotAPI{
		sendBody: `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":-100,"type":"channel"}}}`,
		status:   http.StatusOK,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls = append(f.calls, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/bot" + testToken + "/getMe":
			fmt.Fprint(w, `{"ok":true,"result":{"id":42,"is_bot":true,"first_name":"Promo","username":"promo_bot"}}`)
		case "/bot" + testToken + "/sendMessage":
			f.sent = append(f.sent, map[string]string{
				"chat_id":    r.FormValue("chat_id"),
				"text":       r.FormValue("text"),
				"parse_mode": r.FormValue("parse_mode"),
			})
			w.WriteHeader(f.status)
			fmt.Fprint(w, f.sendBody)
		default:
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeBotAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBotAPI) sentMessages() []map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]string(nil), f.sent...)
}

func newTestDispatcher(srv *httptest.Server, cfg models.NotificationConfig) *Dispatcher {
	return NewDispatcher(staticConfig{cfg: cfg}, NewClientFactory(srv.URL+"/bot%s/%s", srv.Client(), false))
}

func enabledConfig() models.NotificationConfig {
	return models.NotificationConfig{BotToken: testToken, ChannelID: "@promo_ptz", Enabled: true}
}

func TestSendDisabledMakesNoCall(t *testing.T) {
	api, srv := newFakeBotAPI(t)

	for name, cfg := range map[string]models.NotificationConfig{
		"выключено":  {BotToken: testToken, ChannelID: "@promo_ptz", Enabled: false},
		"нет канала": {BotToken: testToken, Enabled: true},
		"нет токена": {ChannelID: "@promo_ptz", Enabled: true},
	} {
		sent, err := newTestDispatcher(srv, cfg).Send(context.Background(), "привет")
		require.NoError(t, err, name)
		assert.False(t, sent, name)
	}
	assert.Equal(t, 0, api.callCount())
}

func TestSendSuccess(t *testing.T) {
	api, srv := newFakeBotAPI(t)

	sent, err := newTestDispatcher(srv, enabledConfig()).Send(context.Background(), "<b>Тест</b>")
	require.NoError(t, err)
	assert.True(t, sent)

	msgs := api.sentMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "@promo_ptz", msgs[0]["chat_id"])
	assert.Equal(t, "<b>Тест</b>", msgs[0]["text"])
	assert.Equal(t, "HTML", msgs[0]["parse_mode"])
}

func TestSendAPIErrorIsDispatchFailed(t *testing.T) {
	api, srv := newFakeBotAPI(t)
	api.status = http.StatusBadRequest
	api.sendBody = `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`

	sent, err := newTestDispatcher(srv, enabledConfig()).Send(context.Background(), "привет")
	assert.False(t, sent)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDispatchFailed))

	var dispatchErr *apperrors.DispatchError
	require.True(t, errors.As(err, &dispatchErr))
	assert.Equal(t, 400, dispatchErr.Code)
	assert.Equal(t, "Bad Request: chat not found", dispatchErr.Description)
}

func TestSendInvalidTokenIsDispatchFailed(t *testing.T) {
	_, srv := newFakeBotAPI(t)
	cfg := enabledConfig()
	cfg.BotToken = "999:wrong"

	sent, err := newTestDispatcher(srv, cfg).Send(context.Background(), "привет")
	assert.False(t, sent)
	assert.True(t, errors.Is(err, apperrors.ErrDispatchFailed))
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestSendNetworkErrorIsDispatchFailed(t *testing.T) {
	_, srv := newFakeBotAPI(t)
	d := newTestDispatcher(srv, enabledConfig())
	srv.Close()

	sent, err := d.Send(context.Background(), "привет")
	assert.False(t, sent)
	assert.True(t, errors.Is(err, apperrors.ErrDispatchFailed))
}

func TestSendConfigErrorPropagates(t *testing.T) {
	storeErr := apperrors.StoreUnavailable("get document", errors.New("timeout"))
	d := NewDispatcher(staticConfig{err: storeErr}, func(ctx context.Context, token string) (*BotClient, error) {
		t.Fatal("клиент не должен создаваться")
		return nil, nil
	})

	_, err := d.Send(context.Background(), "привет")
	assert.True(t, errors.Is(err, apperrors.ErrStoreUnavailable))
}

func TestSendEmptyMessage(t *testing.T) {
	_, srv := newFakeBotAPI(t)
	_, err := newTestDispatcher(srv, enabledConfig()).Send(context.Background(), "  ")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestSendSpotlightAnnouncement(t *testing.T) {
	api, srv := newFakeBotAPI(t)
	d := newTestDispatcher(srv, enabledConfig())

	sent, err := d.SendSpotlightAnnouncement(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Equal(t, 0, api.callCount())

	sent, err = d.SendSpotlightAnnouncement(context.Background(), &models.Spotlight{
		Name:          "Иван <Лучший>",
		LeafletsCount: 150,
		Reward:        "+5000",
	})
	require.NoError(t, err)
	assert.True(t, sent)
	msgs := api.sentMessages()
	require.Len(t, msgs, 1)
	text := msgs[0]["text"]
	assert.Contains(t, text, "Поздравляем <b>Иван &lt;Лучший&gt;</b> с победой!")
	assert.Contains(t, text, "<b>150</b>")
	assert.Contains(t, text, "Награда: <b>+5000</b>")
	assert.True(t, strings.HasPrefix(text, "🏆"))
}
