package telegram_api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

// BotClient представляет собой обертку для Telegram Bot API.
type BotClient struct {
	api   *tgbotapi.BotAPI
	Debug bool
}

// ClientFactory создаёт клиента для токена. Токен читается из настроек
// при каждой отправке, поэтому клиент не кэшируется.
type ClientFactory func(ctx context.Context, token string) (*BotClient, error)

// ctxHTTPClient привязывает запросы библиотеки к контексту вызова.
type ctxHTTPClient struct {
	ctx    context.Context
	client *http.Client
}

func (c ctxHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req.WithContext(c.ctx))
}

// NewClientFactory возвращает фабрику клиентов для заданного endpoint
// (формат tgbotapi.APIEndpoint: "https://api.telegram.org/bot%s/%s").
func NewClientFactory(endpoint string, httpClient *http.Client, debug bool) ClientFactory {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return func(ctx context.Context, token string) (*BotClient, error) {
		if token == "" {
			return nil, fmt.Errorf("токен Telegram API не предоставлен")
		}
		// NewBotAPIWithClient сразу вызывает getMe и проверяет токен.
		api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, ctxHTTPClient{ctx: ctx, client: httpClient})
		if err != nil {
			return nil, err
		}
		api.Debug = debug
		if debug {
			log.Printf("Авторизован как аккаунт %s", api.Self.UserName)
		}
		return &BotClient{api: api, Debug: debug}, nil
	}
}

// MakeRequest выполняет произвольный запрос к API Telegram.
func (bc *BotClient) MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error) {
	if bc == nil || bc.api == nil {
		return nil, fmt.Errorf("BotClient или его API не инициализирован")
	}
	if bc.Debug {
		log.Printf("Выполнение MakeRequest: endpoint=%s, chat_id=%s", endpoint, params["chat_id"])
	}
	return bc.api.MakeRequest(endpoint, params)
}
