// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт хранилище, репозитории, сервисы,
// обработчики, фильтры и собирает всё в один объект Bot.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"clsbot.hk/points-bot/internal/bot"
	"clsbot.hk/points-bot/internal/bot/filters"
	"clsbot.hk/points-bot/internal/config"
	"clsbot.hk/points-bot/internal/features/auth"
	"clsbot.hk/points-bot/internal/features/points"
	"clsbot.hk/points-bot/internal/jobs"
	"clsbot.hk/points-bot/internal/store"
	"clsbot.hk/points-bot/internal/store/postgres"
	"clsbot.hk/points-bot/internal/store/redisstore"
)

// App содержит все компоненты приложения.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	Store     store.Store
	BotAPI    *tgbotapi.BotAPI
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Хранилище счётчиков ===
	st, err := newStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к хранилищу: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("ошибка создания Telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Авторизован как @%s", botAPI.Self.UserName)

	// === 3. Репозитории ===
	pointsRepo := points.NewRepository(st, cfg.ScorePrefix)

	// === 4. Сервисы ===
	authService := auth.NewService(auth.NewTelegramOracle(botAPI), cfg.AdminCacheTTL)
	pointsService := points.NewService(pointsRepo, authService)

	// === 5. Обработчики ===
	pointsHandler := points.NewHandler(pointsService, botAPI)

	// === 6. Фильтры ===
	chatFilter := filters.NewChatFilter(cfg.AllowedChatID)

	// === 7. Собираем бота ===
	b := bot.New(botAPI, cfg, pointsHandler, chatFilter)

	// === 8. Планировщик задач ===
	scheduler := jobs.NewScheduler(pointsService, cfg.DigestChatID, b.SendMessage)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		Store:     st,
		BotAPI:    botAPI,
	}, nil
}

// newStore выбирает бэкенд хранилища по конфигурации.
func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendRedis:
		return redisstore.New(ctx, cfg.RedisURL)
	case config.StoreBackendPostgres:
		return postgres.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("неизвестный STORE_BACKEND: %q", cfg.StoreBackend)
	}
}
