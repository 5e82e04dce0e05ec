// Package auth — oracle.go определяет источник списка администраторов.
package auth

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Oracle отдаёт актуальный список администраторов чата.
// Это дорогой сетевой вызов — результат кэшируется сервисом.
type Oracle interface {
	ChatAdministrators(ctx context.Context, chatID int64) ([]int64, error)
}

// TelegramOracle — реализация Oracle поверх Telegram Bot API.
type TelegramOracle struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramOracle создаёт оракул на базе готового клиента API.
func NewTelegramOracle(bot *tgbotapi.BotAPI) *TelegramOracle {
	return &TelegramOracle{bot: bot}
}

// ChatAdministrators запрашивает getChatAdministrators у Telegram.
func (o *TelegramOracle) ChatAdministrators(ctx context.Context, chatID int64) ([]int64, error) {
	admins, err := o.bot.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
	})
	if err != nil {
		return nil, fmt.Errorf("getChatAdministrators(%d): %w", chatID, err)
	}

	ids := make([]int64, 0, len(admins))
	for _, admin := range admins {
		if admin.User != nil {
			ids = append(ids, admin.User.ID)
		}
	}
	return ids, nil
}
