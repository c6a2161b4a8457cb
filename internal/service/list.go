package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"promo-rating/internal/apperrors"
	"promo-rating/internal/constants"
	"promo-rating/internal/models"
)

// ListQuery - поиск и сортировка списка в админке.
type ListQuery struct {
	Search string
	Sort   string
	Dir    string
}

// AdminList возвращает промоутеров с местами в рейтинге,
// отфильтрованных по имени и отсортированных по запросу.
// Без Sort сохраняется порядок рейтинга.
func (s *Service) AdminList(ctx context.Context, q ListQuery) ([]models.RankedPromoter, error) {
	less, err := comparator(q.Sort, q.Dir)
	if err != nil {
		return nil, err
	}
	all, err := s.promoters.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ranked := filterByName(withRanks(all), q.Search)
	if less != nil {
		sort.SliceStable(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	}
	return ranked, nil
}

func filterByName(list []models.RankedPromoter, search string) []models.RankedPromoter {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return list
	}
	out := make([]models.RankedPromoter, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), search) {
			out = append(out, p)
		}
	}
	return out
}

// comparator возвращает nil, если сортировка не задана.
func comparator(field, dir string) (func(a, b models.RankedPromoter) bool, error) {
	dir = strings.ToLower(strings.TrimSpace(dir))
	if dir == "" {
		dir = constants.SortAsc
	}
	if dir != constants.SortAsc && dir != constants.SortDesc {
		return nil, apperrors.Invalid("dir", fmt.Sprintf("ожидается %s или %s", constants.SortAsc, constants.SortDesc))
	}
	desc := dir == constants.SortDesc

	var cmp func(a, b models.RankedPromoter) int
	switch strings.TrimSpace(field) {
	case "":
		return nil, nil
	case constants.SortByName:
		// Collator не потокобезопасен, создаём на каждый запрос.
		col := collate.New(language.Russian, collate.IgnoreCase)
		cmp = func(a, b models.RankedPromoter) int { return col.CompareString(a.Name, b.Name) }
	case constants.SortByLeaflets:
		cmp = func(a, b models.RankedPromoter) int { return a.LeafletsCount - b.LeafletsCount }
	case constants.SortBySpeed:
		cmp = func(a, b models.RankedPromoter) int { return a.Speed - b.Speed }
	case constants.SortByWorkDays:
		cmp = func(a, b models.RankedPromoter) int { return a.WorkDays - b.WorkDays }
	default:
		return nil, apperrors.Invalid("sort", fmt.Sprintf("неизвестное поле сортировки: %s", field))
	}
	if desc {
		return func(a, b models.RankedPromoter) bool { return cmp(a, b) > 0 }, nil
	}
	return func(a, b models.RankedPromoter) bool { return cmp(a, b) < 0 }, nil
}
