package repository

import (
	"context"

	"github.com/iksoll/VelvetCake/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepo interface {
	Create(ctx context.Context, rv *models.Review) error
	List(ctx context.Context) ([]models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type reviewRepo struct{ db *gorm.DB }

func NewReviewRepo(db *gorm.DB) ReviewRepo { return &reviewRepo{db: db} }

func (r *reviewRepo) Create(ctx context.Context, rv *models.Review) error {
	return r.db.WithContext(ctx).Create(rv).Error
}

func (r *reviewRepo) List(ctx context.Context) ([]models.Review, error) {
	var list []models.Review
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *reviewRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	return tx.RowsAffected > 0, tx.Error
}
