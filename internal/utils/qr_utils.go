package utils

import (
	"fmt"
	"log"
	"strings"

	"github.com/skip2/go-qrcode"

	"promo-rating/internal/constants"
)

// TelegramChannelLink строит ссылку на канал по его имени.
// Принимаются "@channel", "channel" и готовые ссылки https://t.me/...
func TelegramChannelLink(channel string) (string, error) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return "", fmt.Errorf("канал Telegram не указан")
	}
	if strings.HasPrefix(channel, "https://") || strings.HasPrefix(channel, "http://") {
		return channel, nil
	}
	name := strings.TrimPrefix(channel, "@")
	if name == "" || strings.ContainsAny(name, " /?#") {
		return "", fmt.Errorf("некорректное имя канала: %s", channel)
	}
	return fmt.Sprintf(constants.TelegramChannelURL, name), nil
}

// GenerateQRCode кодирует ссылку в PNG.
func GenerateQRCode(link string) ([]byte, error) {
	if link == "" {
		return nil, fmt.Errorf("пустая ссылка для QR-кода")
	}
	// qrcode.Medium - уровень коррекции ошибок, 256 - размер QR-кода в пикселях.
	qrBytes, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		log.Printf("GenerateQRCode: ошибка кодирования QR-кода для ссылки '%s': %v", link, err)
		return nil, err
	}
	return qrBytes, nil
}
