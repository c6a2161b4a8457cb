package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"promo-rating/internal/service"
)

// ApiDependencies содержит зависимости для обработчиков API.
type ApiDependencies struct {
	Service       *service.Service
	AdminToken    string
	PublicSiteURL string
	// Now используется в именах файлов выгрузки; nil означает time.Now.
	Now func() time.Time
}

// SetupRoutes настраивает все маршруты для API.
func SetupRoutes(r chi.Router, deps ApiDependencies) {
	h := NewHandler(deps)

	r.Get("/health", h.Health)

	// --- Публичные маршруты сайта ---
	r.Route("/api", func(r chi.Router) {
		r.Get("/promoters", h.GetLeaderboard)
		r.Get("/promoters/{id}", h.GetPromoter)
		r.Get("/spotlight", h.GetSpotlight)
		r.Get("/settings", h.GetSiteSettings)
		r.Get("/settings/telegram-qr.png", h.GetTelegramQR)
		r.Get("/districts", h.GetDistricts)

		// --- Маршруты админки ---
		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(deps.AdminToken))

			r.Get("/dashboard", h.GetDashboard)

			r.Get("/promoters", h.ListPromoters)
			r.Post("/promoters", h.CreatePromoter)
			r.Get("/promoters/export.xlsx", h.ExportPromoters)
			r.Post("/promoters/reset", h.ResetStats)
			r.Put("/promoters/{id}", h.UpdatePromoter)
			r.Delete("/promoters/{id}", h.DeletePromoter)
			r.Post("/promoters/{id}/leaflets", h.IncrementLeaflets)

			r.Get("/spotlight", h.GetSpotlight)
			r.Put("/spotlight", h.SetSpotlight)
			r.Post("/spotlight/announce", h.AnnounceSpotlight)

			r.Put("/settings", h.UpdateSiteSettings)

			r.Get("/telegram", h.GetTelegramConfig)
			r.Put("/telegram", h.UpdateTelegramConfig)
			r.Post("/telegram/test", h.SendTestMessage)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Маршрут не найден")
	})
}
