// Package auth — service.go содержит кэш списков администраторов.
// Кэш ключуется по чату; запись живёт до истечения TTL и заменяется
// только очередным обращением к оракулу.
package auth

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"clsbot.hk/points-bot/internal/common"
)

// Service проверяет права администратора, кэшируя ответы оракула.
type Service struct {
	oracle Oracle
	ttl    time.Duration

	mu   sync.Mutex
	sets map[int64]*AdminSet

	// подменяется в тестах
	now func() time.Time
}

// NewService создаёт сервис авторизации.
func NewService(oracle Oracle, ttl time.Duration) *Service {
	return &Service{
		oracle: oracle,
		ttl:    ttl,
		sets:   make(map[int64]*AdminSet),
		now:    time.Now,
	}
}

// IsAdmin сообщает, входит ли пользователь в список администраторов чата.
// Свежий кэш обслуживается без сетевого вызова; протухший — перечитывается.
// При недоступном оракуле возвращается common.ErrAuthUnavailable:
// команда отклоняется, а не пропускается.
//
// Блокировка держится на время обновления, поэтому конкурентные проверки
// одного чата сливаются в один вызов оракула.
func (s *Service) IsAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[chatID]
	if ok && set.Fresh(s.ttl, s.now()) {
		return set.Contains(userID), nil
	}

	ids, err := s.oracle.ChatAdministrators(ctx, chatID)
	if err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Оракул администраторов недоступен")
		return false, common.ErrAuthUnavailable
	}

	set = NewAdminSet(ids, s.now())
	s.sets[chatID] = set

	log.WithFields(log.Fields{
		"chat_id": chatID,
		"admins":  len(ids),
	}).Debug("Список администраторов обновлён")

	return set.Contains(userID), nil
}
