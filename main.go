package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"promo-rating/internal/api"
	"promo-rating/internal/config"
	"promo-rating/internal/db"
	"promo-rating/internal/repository"
	"promo-rating/internal/service"
	"promo-rating/internal/settings"
	"promo-rating/internal/store"
	"promo-rating/internal/store/memstore"
	"promo-rating/internal/telegram_api"
)

// Хранилище, реализующее обе коллекции.
type documentStore interface {
	store.PromoterStore
	store.DocumentStore
}

func main() {
	// --- Блок инициализации ---
	err := godotenv.Load()
	if err != nil {
		log.Println("Предупреждение: не удалось загрузить файл .env. Переменные окружения должны быть установлены иным способом.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось загрузить конфигурацию: %v", err)
	}

	var backend documentStore
	var conn *sql.DB
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		backend = memstore.New(time.Now)
	default:
		conn, err = db.InitDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Критическая ошибка: не удалось инициализировать базу данных: %v", err)
		}
		defer db.CloseDB(conn)
		backend = db.NewStore(conn)
	}

	promoters := repository.New(backend, time.Now, cfg.Profile.Districts)
	settingsStore := settings.New(backend, time.Now, settings.Defaults{
		CompanyLogo: cfg.Profile.CompanyLogo,
		HeaderText:  cfg.Profile.HeaderText,
		BotToken:    cfg.TelegramBotToken,
		ChannelID:   cfg.TelegramChannelID,
	})
	telegramHTTP := &http.Client{Timeout: 15 * time.Second}
	dispatcher := telegram_api.NewDispatcher(settingsStore,
		telegram_api.NewClientFactory(cfg.TelegramAPIEndpoint, telegramHTTP, cfg.Debug()))
	svc := service.New(promoters, settingsStore, dispatcher)

	// --- Настройка роутера и Middleware ---
	apiRouter := chi.NewRouter()

	// ГЛОБАЛЬНЫЕ MIDDLEWARES ДОЛЖНЫ ИДТИ ПЕРЕД api.SetupRoutes
	apiRouter.Use(middleware.RequestID)
	apiRouter.Use(middleware.Logger)
	apiRouter.Use(middleware.Recoverer)
	apiRouter.Use(middleware.Timeout(30 * time.Second))
	apiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.SetupRoutes(apiRouter, api.ApiDependencies{
		Service:       svc,
		AdminToken:    cfg.AdminAPIToken,
		PublicSiteURL: cfg.PublicSiteURL,
	})

	// Обработка запроса иконки, чтобы избежать ошибки 404 в логах
	apiRouter.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Статика фронтенда, если каталог есть.
	if info, errStat := os.Stat(cfg.WebAppDir); errStat == nil && info.IsDir() {
		absDir, _ := filepath.Abs(cfg.WebAppDir)
		apiRouter.Get("/", http.RedirectHandler("/webapp/", http.StatusMovedPermanently).ServeHTTP)
		FileServer(apiRouter, "/webapp", http.Dir(absDir))
		log.Printf("Статика фронтенда раздаётся из %s", absDir)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           apiRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Запуск HTTP-сервера на порту %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("КРИТИЧЕСКАЯ ОШИБКА: не удалось запустить HTTP-сервер: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Получен сигнал завершения, останавливаем сервер...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ошибка при остановке сервера: %v", err)
	}
	log.Println("Сервер остановлен.")
}

// FileServer для обслуживания статичных файлов
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer не поддерживает шаблоны URL")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}
