package service

import (
	"context"
	"strings"
	"time"

	"github.com/iksoll/VelvetCake/internal/models"
	"github.com/iksoll/VelvetCake/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultReviewAuthor = "Аноним"

type ReviewService struct {
	reviews repository.ReviewRepo
	now     func() time.Time
	log     *zap.Logger
}

func NewReviewService(reviews repository.ReviewRepo, log *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, now: time.Now, log: log}
}

func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	list, err := s.reviews.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Review{}
	}
	return list, nil
}

// Create привязывает отзыв к автору токена; отображаемое имя задаётся отдельно.
func (s *ReviewService) Create(ctx context.Context, authorName, text string, rating *int) (*models.Review, error) {
	userID, _, err := Authorize(ctx, CapReviewsWrite)
	if err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationError("Текст отзыва обязателен")
	}
	authorName = strings.TrimSpace(authorName)
	if authorName == "" {
		authorName = DefaultReviewAuthor
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, validationError("Оценка должна быть от 1 до 5")
	}

	rv := &models.Review{
		UserID:     userID,
		AuthorName: authorName,
		Text:       text,
		Rating:     rating,
		CreatedAt:  s.now(),
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *ReviewService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, _, err := Authorize(ctx, CapReviewsModerate); err != nil {
		return err
	}
	ok, err := s.reviews.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrReviewNotFound
	}
	return nil
}
