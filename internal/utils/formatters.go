// Файл: internal/utils/formatters.go

package utils

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"promo-rating/internal/constants"
)

// AvatarURL возвращает ссылку на сгенерированный аватар.
// Одно и то же имя всегда даёт одну и ту же ссылку.
func AvatarURL(name string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(strings.TrimSpace(name)), "+", "%20")
	return fmt.Sprintf(constants.AvatarURLTemplate, escaped)
}

// EscapeTelegramHTML экранирует текст для parse_mode=HTML.
func EscapeTelegramHTML(text string) string {
	return html.EscapeString(text)
}

// TruncateRunes обрезает строку до n символов (не байт).
func TruncateRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
