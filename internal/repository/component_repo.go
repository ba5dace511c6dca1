package repository

import (
	"context"
	"errors"

	"github.com/iksoll/VelvetCake/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComponentRepo interface {
	Create(ctx context.Context, c *models.Component) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Component, error)
	ListByType(ctx context.Context, t models.ComponentType) ([]models.Component, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
}

type componentRepo struct{ db *gorm.DB }

func NewComponentRepo(db *gorm.DB) ComponentRepo { return &componentRepo{db: db} }

func (r *componentRepo) Create(ctx context.Context, c *models.Component) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *componentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Component, error) {
	var c models.Component
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *componentRepo) ListByType(ctx context.Context, t models.ComponentType) ([]models.Component, error) {
	var list []models.Component
	err := r.db.WithContext(ctx).Where("type = ?", t).Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *componentRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Component{}, "id = ?", id)
	return tx.RowsAffected > 0, translate(tx.Error)
}

func (r *componentRepo) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&models.CustomCakeComponent{}).Where("component_id = ?", id).Count(&cnt).Error
	return cnt > 0, err
}
