package formatters

import (
	"fmt"
	"strings"

	"promo-rating/internal/models"
	"promo-rating/internal/utils"
)

// FormatSpotlightAnnouncement - сообщение о лучшем промоутере месяца (parse_mode=HTML).
func FormatSpotlightAnnouncement(s models.Spotlight) string {
	var b strings.Builder
	b.WriteString("🏆 <b>Лучший промоутер месяца!</b> 🏆\n\n")
	b.WriteString(fmt.Sprintf("Поздравляем <b>%s</b> с победой!\n", utils.EscapeTelegramHTML(s.Name)))
	b.WriteString(fmt.Sprintf("Количество разнесенных листовок: <b>%d</b>\n", s.LeafletsCount))
	b.WriteString(fmt.Sprintf("Награда: <b>%s</b>\n\n", utils.EscapeTelegramHTML(s.Reward)))
	b.WriteString("🎉 Так держать! 🎉")
	return b.String()
}
