// Package filters ограничивает, где бот отвечает на команды.
package filters

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// ChatFilter пропускает сообщения из разрешённого чата и личек.
// allowedChatID == 0 — ограничения нет, бот отвечает везде
// (поведение исходного бота).
type ChatFilter struct {
	allowedChatID int64
}

func NewChatFilter(allowedChatID int64) *ChatFilter {
	return &ChatFilter{allowedChatID: allowedChatID}
}

// CheckAccess решает, обрабатывать ли сообщение.
func (f *ChatFilter) CheckAccess(message *tgbotapi.Message) bool {
	if message == nil || message.Chat == nil || message.From == nil {
		log.WithField("component", "ChatFilter").Warn("nil message/chat/from")
		return false
	}

	if f.allowedChatID == 0 {
		return true
	}
	if message.Chat.ID == f.allowedChatID || message.Chat.IsPrivate() {
		return true
	}

	log.WithFields(log.Fields{
		"component":       "ChatFilter",
		"chat_id":         message.Chat.ID,
		"allowed_chat_id": f.allowedChatID,
	}).Info("deny: чат не в списке разрешённых")
	return false
}
