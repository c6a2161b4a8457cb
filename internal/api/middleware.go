// Файл: internal/api/middleware.go
package api

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// AdminAuthMiddleware проверяет заголовок Authorization: Bearer <token>.
// Пустой token означает, что админка выключена: отклоняются все запросы.
func AdminAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "Административный API отключён: токен не настроен")
				return
			}
			authHeader := r.Header.Get("Authorization")
			provided, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || provided == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: Missing bearer token")
				return
			}
			if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(provided)), []byte(token)) != 1 {
				log.Printf("AdminAuthMiddleware: неверный токен, запрос %s %s (request_id=%s)", r.Method, r.URL.Path, middleware.GetReqID(r.Context()))
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
