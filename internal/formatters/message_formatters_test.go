package formatters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"promo-rating/internal/models"
)

func TestFormatSpotlightAnnouncement(t *testing.T) {
	got := FormatSpotlightAnnouncement(models.Spotlight{
		Name:          "Ivan",
		LeafletsCount: 150,
		Reward:        "+5000 & кофе",
	})
	want := "🏆 <b>Лучший промоутер месяца!</b> 🏆\n\n" +
		"Поздравляем <b>Ivan</b> с победой!\n" +
		"Количество разнесенных листовок: <b>150</b>\n" +
		"Награда: <b>+5000 &amp; кофе</b>\n\n" +
		"🎉 Так держать! 🎉"
	assert.Equal(t, want, got)
}
