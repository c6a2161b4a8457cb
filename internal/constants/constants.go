package constants

// Районы Петрозаводска - эталонный список зон для промоутеров.
// Список можно переопределить в профиле развёртывания (PROFILE_FILE).
var DefaultDistricts = []string{
	"Центр",
	"Древлянка",
	"Кукковка",
	"Ключевая",
	"Голиковка",
	"Зарека",
	"Перевалка",
	"Октябрьский",
	"Первомайский",
	"Сулажгора",
}

// Аватары генерируются сервисом UI Avatars по имени.
const AvatarURLTemplate = "https://ui-avatars.com/api/?name=%s&background=random&color=fff&size=128"

// Значения настроек сайта по умолчанию.
const (
	DefaultCompanyLogo = "https://via.placeholder.com/200x60?text=Logo"
	DefaultHeaderText  = "Конкурс для лучших! Стань топ-промоутером Петрозаводска!"

	// SettingsDefaultsVersion увеличивается при любом изменении документов по умолчанию.
	SettingsDefaultsVersion = 1
)

// Telegram.
const (
	TelegramParseModeHTML = "HTML"
	TelegramChannelURL    = "https://t.me/%s"
	TelegramMaxTextLength = 4096
)

// Публичный рейтинг.
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 500
)

// Поля сортировки списка в админке.
const (
	SortByName     = "name"
	SortByLeaflets = "leafletsCount"
	SortBySpeed    = "speed"
	SortByWorkDays = "workDays"

	SortAsc  = "asc"
	SortDesc = "desc"
)
