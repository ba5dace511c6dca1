package repository

import (
	"context"

	"github.com/iksoll/VelvetCake/internal/models"

	"gorm.io/gorm"
)

type OrderItemRepo interface {
	BulkCreate(ctx context.Context, items []models.OrderItem) error
}

type orderItemRepo struct{ db *gorm.DB }

func NewOrderItemRepo(db *gorm.DB) OrderItemRepo { return &orderItemRepo{db: db} }

func (r *orderItemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Product", "CustomCake").Create(&items).Error
}

type CustomCakeRepo interface {
	Create(ctx context.Context, c *models.CustomCake) error
}

type customCakeRepo struct{ db *gorm.DB }

func NewCustomCakeRepo(db *gorm.DB) CustomCakeRepo { return &customCakeRepo{db: db} }

func (r *customCakeRepo) Create(ctx context.Context, c *models.CustomCake) error {
	return r.db.WithContext(ctx).Omit("Components").Create(c).Error
}
