package models

import "time"

// Promoter - распространитель листовок.
type Promoter struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	AvatarURL     string    `json:"avatarUrl"`
	LeafletsCount int       `json:"leafletsCount"`
	WorkDays      int       `json:"workDays"`
	District      string    `json:"district"`
	StartDate     Date      `json:"startDate"`
	Speed         int       `json:"speed"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RankID нужен для metrics.RankOf.
func (p Promoter) RankID() string { return p.ID }

// PromoterInput - данные для создания промоутера.
type PromoterInput struct {
	Name          string `json:"name"`
	AvatarURL     string `json:"avatarUrl"`
	LeafletsCount int    `json:"leafletsCount"`
	District      string `json:"district"`
	StartDate     Date   `json:"startDate"`
}

// PromoterPatch - частичное обновление. nil означает "поле не меняется".
// Скорость сюда не входит: она всегда вычисляется.
type PromoterPatch struct {
	Name          *string `json:"name,omitempty"`
	AvatarURL     *string `json:"avatarUrl,omitempty"`
	LeafletsCount *int    `json:"leafletsCount,omitempty"`
	WorkDays      *int    `json:"workDays,omitempty"`
	District      *string `json:"district,omitempty"`
	StartDate     *Date   `json:"startDate,omitempty"`
}

// IsEmpty сообщает, что в патче нет ни одного поля.
func (p PromoterPatch) IsEmpty() bool {
	return p.Name == nil && p.AvatarURL == nil && p.LeafletsCount == nil &&
		p.WorkDays == nil && p.District == nil && p.StartDate == nil
}

// RankedPromoter - промоутер вместе с местом в рейтинге.
type RankedPromoter struct {
	Promoter
	Rank int `json:"rank"`
}

// DashboardStats - сводка для главной страницы админки.
type DashboardStats struct {
	PromotersCount  int  `json:"promotersCount"`
	HasTopPromoter  bool `json:"hasTopPromoter"`
	TelegramEnabled bool `json:"telegramEnabled"`
	TotalLeaflets   int  `json:"totalLeaflets"`
}
