// Package points — service.go содержит бизнес-логику реестра баллов.
// Сервис разбирает аргументы, проверяет права и ходит в репозиторий;
// тексты ответов пользователю живут в handlers.go.
package points

import (
	"context"

	log "github.com/sirupsen/logrus"

	"clsbot.hk/points-bot/internal/common"
)

// Authorizer проверяет, является ли пользователь администратором чата.
// Реализуется сервисом auth; в тестах подменяется заглушкой.
type Authorizer interface {
	IsAdmin(ctx context.Context, chatID, userID int64) (bool, error)
}

// Service управляет реестром баллов.
type Service struct {
	repo *Repository
	auth Authorizer
}

// NewService создаёт сервис реестра.
func NewService(repo *Repository, auth Authorizer) *Service {
	return &Service{repo: repo, auth: auth}
}

// requireAdmin пропускает только администраторов чата-источника.
// Ошибка оракула означает отказ, а не пропуск.
func (s *Service) requireAdmin(ctx context.Context, chatID, userID int64) error {
	isAdmin, err := s.auth.IsAdmin(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return common.ErrNotAdmin
	}
	return nil
}

// Adjust изменяет счёт: "<имя...> <дельта>". Только для администраторов.
// Изменение атомарно — конкурентные Adjust по одному имени не теряются.
// Первый Adjust создаёт запись со значением дельты.
func (s *Service) Adjust(ctx context.Context, chatID, userID int64, args []string) (*Adjustment, error) {
	if err := s.requireAdmin(ctx, chatID, userID); err != nil {
		return nil, err
	}

	name, delta, err := parseNameDelta(args)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Adjust(ctx, name, delta)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"name":  name,
		"delta": common.FormatSigned(delta),
		"total": total,
	}).Info("Баллы изменены")

	return &Adjustment{Name: name, Delta: delta, Total: total}, nil
}

// Show возвращает текущий счёт по имени. Доступно всем.
// Для имени, которое ни разу не меняли, возвращается common.ErrNotFound —
// это не то же самое, что счёт 0 после сброса.
func (s *Service) Show(ctx context.Context, args []string) (*ScoreEntry, error) {
	name, err := parseName(args)
	if err != nil {
		return nil, err
	}

	score, err := s.repo.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return &ScoreEntry{Name: name, Score: score}, nil
}

// Reset безусловно обнуляет счёт. Только для администраторов.
// Отсутствующая запись создаётся с нулём — после сброса Show вернёт 0.
func (s *Service) Reset(ctx context.Context, chatID, userID int64, args []string) (string, error) {
	if err := s.requireAdmin(ctx, chatID, userID); err != nil {
		return "", err
	}

	name, err := parseName(args)
	if err != nil {
		return "", err
	}

	if err := s.repo.Set(ctx, name, 0); err != nil {
		return "", err
	}

	log.WithField("name", name).Info("Баллы обнулены")
	return name, nil
}

// Delete удаляет запись целиком. Только для администраторов.
// Имя, которое ни разу не меняли, удалить нельзя — common.ErrNotFound.
func (s *Service) Delete(ctx context.Context, chatID, userID int64, args []string) (string, error) {
	if err := s.requireAdmin(ctx, chatID, userID); err != nil {
		return "", err
	}

	name, err := parseName(args)
	if err != nil {
		return "", err
	}

	if err := s.repo.Delete(ctx, name); err != nil {
		return "", err
	}

	log.WithField("name", name).Info("Запись удалена")
	return name, nil
}

// ListUsers возвращает имена всех записей реестра в порядке обхода
// хранилища (порядок между вызовами не гарантируется).
// Только для администраторов.
func (s *Service) ListUsers(ctx context.Context, chatID, userID int64) ([]string, error) {
	if err := s.requireAdmin(ctx, chatID, userID); err != nil {
		return nil, err
	}

	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}
