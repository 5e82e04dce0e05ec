// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает ежедневную публикацию рейтинга.
package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"clsbot.hk/points-bot/internal/common"
	"clsbot.hk/points-bot/internal/features/points"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron          *cron.Cron
	pointsService *points.Service
	digestChatID  int64
	sendFunc      func(chatID int64, text string)
}

// NewScheduler создаёт планировщик задач с гонконгским часовым поясом.
// digestChatID == 0 — публикация рейтинга отключена.
func NewScheduler(pointsService *points.Service, digestChatID int64, sendFunc func(chatID int64, text string)) *Scheduler {
	c := cron.New(cron.WithLocation(common.HongKongLocation()))

	return &Scheduler{
		cron:          c,
		pointsService: pointsService,
		digestChatID:  digestChatID,
		sendFunc:      sendFunc,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	if s.digestChatID != 0 {
		// Рейтинг каждый день в 21:00 по Гонконгу
		s.cron.AddFunc("0 21 * * *", func() {
			log.Info("[CRON] Ежедневная публикация рейтинга")
			ranks, err := s.pointsService.Ranks(ctx)
			if err != nil {
				log.WithError(err).Error("[CRON] Ошибка построения рейтинга")
				return
			}
			s.sendFunc(s.digestChatID, points.FormatRanks(ranks))
		})
	}

	s.cron.Start()
	log.WithField("digest_chat_id", s.digestChatID).Info("Планировщик задач запущен (Asia/Hong_Kong)")
}

// Stop останавливает планировщик и дожидается текущих задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
