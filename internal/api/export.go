package api

import (
	"bytes"
	"fmt"
	"log"
	"net/http"

	"github.com/xuri/excelize/v2"

	"promo-rating/internal/models"
	"promo-rating/internal/service"
)

const leaderboardSheet = "Рейтинг"

// ExportPromoters отдаёт рейтинг в формате XLSX.
// Поиск и сортировка те же, что и у списка в админке.
func (h *Handler) ExportPromoters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.svc.AdminList(r.Context(), service.ListQuery{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
		Dir:    q.Get("dir"),
	})
	if err != nil {
		writeServiceError(w, r, "ExportPromoters", err)
		return
	}
	now := h.now()
	buf, err := buildLeaderboardXLSX(list)
	if err != nil {
		log.Printf("ExportPromoters: ошибка формирования Excel файла: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "Ошибка при создании Excel файла")
		return
	}
	filename := fmt.Sprintf("promoters_%s.xlsx", now.Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// buildLeaderboardXLSX строит книгу с одним листом рейтинга.
func buildLeaderboardXLSX(list []models.RankedPromoter) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(leaderboardSheet)
	if err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	headers := []string{"Место", "Имя", "Район", "Дата начала", "Дней работы", "Листовки", "Скорость (в день)"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(leaderboardSheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, p := range list {
		row := i + 2
		values := []interface{}{
			p.Rank,
			p.Name,
			p.District,
			formatExportDate(p.StartDate),
			p.WorkDays,
			p.LeafletsCount,
			p.Speed,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(leaderboardSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}
	if err := f.SetColWidth(leaderboardSheet, "B", "C", 24); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}

func formatExportDate(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02.01.2006")
}
