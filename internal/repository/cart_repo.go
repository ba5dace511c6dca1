package repository

import (
	"context"
	"time"

	"github.com/iksoll/VelvetCake/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	AddOrIncrement(ctx context.Context, item *models.CartItem) error
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, qty int, at time.Time) (bool, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	Clear(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepo(db *gorm.DB) CartRepo { return &cartRepo{db: db} }

func (r *cartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var list []models.CartItem
	err := r.db.WithContext(ctx).Preload("Product").Where("user_id = ?", userID).Order("added_at ASC").Find(&list).Error
	return list, err
}

// AddOrIncrement кладёт товар в корзину; если он там уже есть, увеличивает количество.
func (r *cartRepo) AddOrIncrement(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).
		Omit("Product").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_items.quantity + EXCLUDED.quantity"),
				"added_at": gorm.Expr("EXCLUDED.added_at"),
			}),
		}).
		Create(item).Error
}

func (r *cartRepo) SetQuantity(ctx context.Context, userID, productID uuid.UUID, qty int, at time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Updates(map[string]interface{}{"quantity": qty, "added_at": at})
	return tx.RowsAffected > 0, tx.Error
}

func (r *cartRepo) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.CartItem{})
	return tx.RowsAffected > 0, tx.Error
}

func (r *cartRepo) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	return tx.RowsAffected, tx.Error
}

// DeleteOlderThan удаляет позиции, которые не трогали с cutoff.
func (r *cartRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Where("added_at < ?", cutoff).Delete(&models.CartItem{})
	return tx.RowsAffected, tx.Error
}
