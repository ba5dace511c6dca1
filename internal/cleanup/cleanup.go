package cleanup

import (
	"context"
	"time"

	"github.com/iksoll/VelvetCake/internal/repository"

	"go.uber.org/zap"
)

type CleanupService struct {
	cart    repository.CartRepo
	cartTTL time.Duration
	now     func() time.Time
	log     *zap.Logger
}

func NewCleanupService(cart repository.CartRepo, cartTTL time.Duration, log *zap.Logger) *CleanupService {
	return &CleanupService{
		cart:    cart,
		cartTTL: cartTTL,
		now:     time.Now,
		log:     log,
	}
}

// CleanupStaleCarts удаляет позиции корзин, добавленные раньше, чем CART_TTL назад.
func (c *CleanupService) CleanupStaleCarts(ctx context.Context) (int64, error) {
	if c.cartTTL <= 0 {
		return 0, nil
	}
	cutoff := c.now().Add(-c.cartTTL)

	n, err := c.cart.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		c.log.Error("Не удалось очистить устаревшие корзины", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		c.log.Info("Устаревшие позиции корзин удалены", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	}
	return n, nil
}

// RunFullCleanup выполняет все задачи очистки
func (c *CleanupService) RunFullCleanup(ctx context.Context) error {
	c.log.Info("Запуск полной очистки")
	if _, err := c.CleanupStaleCarts(ctx); err != nil {
		return err
	}
	c.log.Info("Полная очистка завершена")
	return nil
}
