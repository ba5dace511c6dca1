package repository

import (
	"context"
	"errors"
	"time"

	"github.com/iksoll/VelvetCake/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderTx: репозитории, участвующие в записи заказа, привязанные к одной транзакции.
type OrderTx struct {
	Orders        OrderRepo
	Items         OrderItemRepo
	CustomCakes   CustomCakeRepo
	Notifications NotificationRepo
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, at time.Time) error

	WithTx(ctx context.Context, fn func(tx OrderTx) error) error
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) OrderRepo { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, o *models.Order) error {
	return translate(r.db.WithContext(ctx).Omit("User", "Items").Create(o).Error)
}

// withDetails подгружает владельца и позиции с товарами и тортами.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.CustomCake")
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := withDetails(r.db.WithContext(ctx)).First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

// GetForUpdate читает заказ без связей и блокирует строку до конца транзакции.
func (r *orderRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var ord models.Order
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&ord, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ord, nil
}

func (r *orderRepo) List(ctx context.Context) ([]models.Order, error) {
	var list []models.Order
	err := withDetails(r.db.WithContext(ctx)).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var list []models.Order
	err := withDetails(r.db.WithContext(ctx)).Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]any{
		"status":     status,
		"updated_at": at,
	}).Error
}

func (r *orderRepo) WithTx(ctx context.Context, fn func(tx OrderTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(OrderTx{
			Orders:        &orderRepo{db: tx},
			Items:         &orderItemRepo{db: tx},
			CustomCakes:   &customCakeRepo{db: tx},
			Notifications: &notificationRepo{db: tx},
		})
	})
}
