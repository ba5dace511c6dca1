package cleanup

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Scheduler struct {
	cleanup  *CleanupService
	interval time.Duration
	log      *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewScheduler(cleanup *CleanupService, interval time.Duration, log *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		cleanup:  cleanup,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
	}
}

// Start запускает планировщик задач
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("Запуск планировщика очистки", zap.Duration("interval", s.interval))
	s.wg.Add(1)
	go s.runCartCleanup(ctx)
}

// Stop останавливает планировщик и ждёт завершения текущего прохода.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.log.Info("Остановка планировщика очистки")
		close(s.stopCh)
	})
	s.wg.Wait()
}

func (s *Scheduler) runCartCleanup(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Выполняем сразу при старте
	if _, err := s.cleanup.CleanupStaleCarts(ctx); err != nil {
		s.log.Error("Начальная очистка корзин не удалась", zap.Error(err))
	}

	for {
		select {
		case <-ticker.C:
			if _, err := s.cleanup.CleanupStaleCarts(ctx); err != nil {
				s.log.Error("Очистка корзин не удалась", zap.Error(err))
			}
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

