// Package points — handlers.go обрабатывает команды реестра:
// /adjust, /show, /reset, /delete, /rank, /users.
// Обработчик переводит ошибки сервиса в ответы пользователю;
// тексты ответов сохранены из исходного кантонского бота.
package points

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"clsbot.hk/points-bot/internal/common"
)

// Тексты ответов. Каждый путь отказа даёт ровно один ответ и одну запись в лог.
const (
	replyNotAdmin     = "你唔係院長/副院長！唔俾用🤪"
	replyFailure      = "❌ 系統出咗啲問題，遲啲再試過啦"
	replyAdjustUsage  = "唔該輸入一個有效嘅數字\n指令參考：/adjust username 100"
	replyShowUsage    = "唔該輸入正確嘅指令：/show username"
	replyResetUsage   = "唔該輸入正確嘅指令：/reset username"
	replyDeleteUsage  = "唔該輸入正確嘅指令：/delete username"
	replyShowNotFound = "冇呢個人喎...一係你打錯名，一係呢個人未有分"
	replyDelNotFound  = "未adjust呢個人嘅分數！麻煩adjust咗先再delete！"
	replyNoUsers      = "冇人上榜~"
)

// Handler обрабатывает команды реестра баллов.
type Handler struct {
	service *Service
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик команд реестра.
func NewHandler(service *Service, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, bot: bot}
}

// HandleAdjust — команда /adjust <имя...> <дельта>. Только администраторы.
func (h *Handler) HandleAdjust(ctx context.Context, chatID, userID int64, args []string) {
	adj, err := h.service.Adjust(ctx, chatID, userID, args)
	if err != nil {
		h.replyError(chatID, err, replyAdjustUsage, "")
		return
	}

	// «Отняли» для отрицательной дельты, «добавили» для неотрицательной
	if adj.Delta < 0 {
		h.sendMessage(chatID, fmt.Sprintf(
			"扣咗 %s %d分！\n佢而家嘅CLS分數係 %d分！", adj.Name, -adj.Delta, adj.Total))
	} else {
		h.sendMessage(chatID, fmt.Sprintf(
			"加咗 %s %d分！\n佢而家嘅CLS分數係 %d分！", adj.Name, adj.Delta, adj.Total))
	}
}

// HandleShow — команда /show <имя...>. Доступна всем.
func (h *Handler) HandleShow(ctx context.Context, chatID int64, args []string) {
	entry, err := h.service.Show(ctx, args)
	if err != nil {
		h.replyError(chatID, err, replyShowUsage, replyShowNotFound)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("\"%s\" 嘅CLS分數係：%d", entry.Name, entry.Score))
}

// HandleReset — команда /reset <имя...>. Только администраторы.
func (h *Handler) HandleReset(ctx context.Context, chatID, userID int64, args []string) {
	name, err := h.service.Reset(ctx, chatID, userID, args)
	if err != nil {
		h.replyError(chatID, err, replyResetUsage, "")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("\"%s\" 嘅分數已經歸零喇！多謝院長😊🙏！", name))
}

// HandleDelete — команда /delete <имя...>. Только администраторы.
func (h *Handler) HandleDelete(ctx context.Context, chatID, userID int64, args []string) {
	name, err := h.service.Delete(ctx, chatID, userID, args)
	if err != nil {
		h.replyError(chatID, err, replyDeleteUsage, replyDelNotFound)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("剷咗\"%s\"", name))
}

// HandleRank — команда /rank. Доступна всем.
func (h *Handler) HandleRank(ctx context.Context, chatID int64) {
	ranks, err := h.service.Ranks(ctx)
	if err != nil {
		h.replyError(chatID, err, "", "")
		return
	}
	h.sendMessage(chatID, FormatRanks(ranks))
}

// HandleUsers — команда /users. Только администраторы.
// Пустой реестр отвечает заглушкой: Telegram не принимает пустой текст.
func (h *Handler) HandleUsers(ctx context.Context, chatID, userID int64) {
	names, err := h.service.ListUsers(ctx, chatID, userID)
	if err != nil {
		h.replyError(chatID, err, "", "")
		return
	}

	if len(names) == 0 {
		h.sendMessage(chatID, replyNoUsers)
		return
	}
	h.sendMessage(chatID, strings.Join(names, "\n"))
}

// replyError переводит ошибку сервиса в один ответ пользователю.
// usage/notFound — тексты конкретной команды; пустая строка значит,
// что для команды такой исход не предусмотрен.
func (h *Handler) replyError(chatID int64, err error, usage, notFound string) {
	switch {
	case errors.Is(err, common.ErrNotAdmin):
		log.WithField("chat_id", chatID).Warn("Отказ: пользователь не администратор")
		h.sendMessage(chatID, replyNotAdmin)

	case errors.Is(err, common.ErrInvalidArgument) && usage != "":
		log.WithField("chat_id", chatID).Info("Отказ: некорректные аргументы команды")
		h.sendMessage(chatID, usage)

	case errors.Is(err, common.ErrNotFound) && notFound != "":
		log.WithField("chat_id", chatID).Info("Отказ: запись не найдена")
		h.sendMessage(chatID, notFound)

	case errors.Is(err, common.ErrAuthUnavailable):
		// Уже залогировано сервисом авторизации
		h.sendMessage(chatID, replyFailure)

	default:
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка команды реестра")
		h.sendMessage(chatID, replyFailure)
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}
