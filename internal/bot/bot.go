// Package bot содержит главный модуль бота — инициализацию, запуск и остановку.
// bot.go принимает апдейты (webhook или long polling), разбирает команды
// и маршрутизирует их к обработчикам реестра баллов.
package bot

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"clsbot.hk/points-bot/internal/bot/filters"
	"clsbot.hk/points-bot/internal/bot/middleware"
	"clsbot.hk/points-bot/internal/config"
	"clsbot.hk/points-bot/internal/features/points"
)

const (
	replyStart = "Hi!"
	replyHelp  = "指令：\n" +
		"/adjust <名> <分> — 加減分（院長專用）\n" +
		"/show <名> — 睇分\n" +
		"/reset <名> — 歸零（院長專用）\n" +
		"/delete <名> — 剷走成個記錄（院長專用）\n" +
		"/rank — CLS分數龍虎榜\n" +
		"/users — 睇哂全部人（院長專用）"
)

// Bot — главная структура бота, объединяющая все компоненты.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config

	chatFilter  *filters.ChatFilter
	rateLimiter *middleware.RateLimiter

	pointsHandler *points.Handler

	parser *CommandParser

	// ограничитель параллелизма обработки апдейтов
	inflight chan struct{}
}

// New создаёт новый экземпляр бота со всеми зависимостями.
func New(
	api *tgbotapi.BotAPI,
	cfg *config.Config,
	pointsHandler *points.Handler,
	chatFilter *filters.ChatFilter,
) *Bot {
	maxInFlight := cfg.BotMaxInflight
	if maxInFlight <= 0 {
		maxInFlight = 64
	}

	return &Bot{
		api:           api,
		cfg:           cfg,
		chatFilter:    chatFilter,
		rateLimiter:   middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		pointsHandler: pointsHandler,
		parser:        NewCommandParser(),
		inflight:      make(chan struct{}, maxInFlight),
	}
}

// Start запускает приём апдейтов: webhook, если задан WEBHOOK_URL,
// иначе long polling. Блокируется до отмены контекста.
func (b *Bot) Start(ctx context.Context) {
	defer b.rateLimiter.Close()

	if b.cfg.WebhookURL != "" {
		b.startWebhook(ctx)
		return
	}
	b.startPolling(ctx)
}

// startPolling — режим long polling (для локальной разработки).
func (b *Bot) startPolling(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.BotUpdateTimeoutSeconds

	updates := b.api.GetUpdatesChan(u)

	log.WithFields(log.Fields{
		"max_inflight": b.cfg.BotMaxInflight,
		"timeout_sec":  b.cfg.BotUpdateTimeoutSeconds,
	}).Info("Бот запущен (long polling) и ожидает сообщения...")

	b.loop(ctx, updates, b.api.StopReceivingUpdates)
}

// startWebhook — боевой режим: регистрируем вебхук на WEBHOOK_URL+token
// и поднимаем HTTP-сервер на PORT.
func (b *Bot) startWebhook(ctx context.Context) {
	wh, err := tgbotapi.NewWebhook(b.cfg.WebhookURL + b.api.Token)
	if err != nil {
		log.WithError(err).Error("Некорректный WEBHOOK_URL")
		return
	}
	if _, err := b.api.Request(wh); err != nil {
		log.WithError(err).Error("Не удалось зарегистрировать вебхук")
		return
	}

	info, err := b.api.GetWebhookInfo()
	if err == nil && info.LastErrorDate != 0 {
		log.WithField("last_error", info.LastErrorMessage).Warn("Telegram сообщает об ошибке вебхука")
	}

	updates := b.api.ListenForWebhook("/" + b.api.Token)

	srv := &http.Server{Addr: fmt.Sprintf("0.0.0.0:%d", b.cfg.Port)}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP-сервер вебхука упал")
		}
	}()

	log.WithFields(log.Fields{
		"port":         b.cfg.Port,
		"max_inflight": b.cfg.BotMaxInflight,
	}).Info("Бот запущен (webhook) и ожидает сообщения...")

	b.loop(ctx, updates, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	})
}

// loop — общий цикл обработки апдейтов для обоих режимов.
func (b *Bot) loop(ctx context.Context, updates tgbotapi.UpdatesChannel, stop func()) {
	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			stop()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				return
			}

			// лимит параллелизма
			b.inflight <- struct{}{}
			go func(upd tgbotapi.Update) {
				defer func() { <-b.inflight }()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

// handleUpdate обрабатывает одно обновление от Telegram.
// Кривой апдейт логируется и пропускается — сервис живёт дальше.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer middleware.RecoverFromPanic()

	if update.Message == nil || update.Message.Text == "" {
		return
	}

	message := update.Message

	middleware.LogMessage(message)

	if !b.chatFilter.CheckAccess(message) {
		return
	}

	if message.From == nil || message.Chat == nil {
		log.Warn("Апдейт без отправителя или чата — пропускаем")
		return
	}

	if !b.rateLimiter.Allow(message.From.ID) {
		log.WithField("user_id", message.From.ID).Debug("rate limited")
		return
	}

	cmd, args, isCommand := b.parser.ParseCommand(message.Text)
	if !isCommand {
		return
	}

	log.WithFields(log.Fields{
		"cmd":  cmd,
		"args": args,
	}).Debug("routing command")

	b.routeCommand(ctx, message.Chat.ID, message.From.ID, cmd, args)
}

// routeCommand маршрутизирует команду к нужному обработчику.
// Авторизация выполняется внутри сервиса реестра: права проверяются
// по списку администраторов чата-источника команды.
func (b *Bot) routeCommand(ctx context.Context, chatID, userID int64, cmd string, args []string) {
	switch cmd {
	case "start":
		b.sendMessage(chatID, replyStart)

	case "help":
		b.sendMessage(chatID, replyHelp)

	case "adjust":
		b.pointsHandler.HandleAdjust(ctx, chatID, userID, args)

	case "show":
		b.pointsHandler.HandleShow(ctx, chatID, args)

	case "reset":
		b.pointsHandler.HandleReset(ctx, chatID, userID, args)

	case "delete":
		b.pointsHandler.HandleDelete(ctx, chatID, userID, args)

	case "rank":
		b.pointsHandler.HandleRank(ctx, chatID)

	case "users":
		b.pointsHandler.HandleUsers(ctx, chatID, userID)
	}
}

// sendMessage — утилита для отправки сообщений.
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// SendMessage отправляет произвольный текст в чат (для планировщика).
func (b *Bot) SendMessage(chatID int64, text string) {
	b.sendMessage(chatID, text)
}

// CommandParser разбирает slash-команды Telegram.
type CommandParser struct {
	validPrefixes []string
}

// NewCommandParser создаёт парсер команд.
func NewCommandParser() *CommandParser {
	return &CommandParser{
		validPrefixes: []string{"/"},
	}
}

// ParseCommand разбирает текст на команду и аргументы.
// Суффикс "@BotName" после команды отрезается: в группах Telegram
// подставляет его автоматически.
func (p *CommandParser) ParseCommand(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)

	hasPrefix := false
	for _, prefix := range p.validPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimPrefix(text, prefix)
			hasPrefix = true
			break
		}
	}

	if !hasPrefix {
		return "", nil, false
	}

	parts := strings.Fields(text)
	if len(parts) == 0 {
		return "", nil, false
	}

	command := strings.ToLower(parts[0])
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}
	if command == "" {
		return "", nil, false
	}

	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}

	return command, args, true
}
