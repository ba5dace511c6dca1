package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/iksoll/VelvetCake/internal/dto"
	"github.com/iksoll/VelvetCake/internal/models"
	"github.com/iksoll/VelvetCake/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReviews struct {
	created   []models.Review
	deleteErr error
}

func (f *fakeReviews) List(ctx context.Context) ([]models.Review, error) { return f.created, nil }

func (f *fakeReviews) Create(ctx context.Context, authorName, text string, rating *int) (*models.Review, error) {
	rv := models.Review{ID: uuid.New(), AuthorName: authorName, Text: text, Rating: rating}
	f.created = append(f.created, rv)
	return &rv, nil
}

func (f *fakeReviews) Delete(ctx context.Context, id uuid.UUID) error { return f.deleteErr }

func reviewRouter(svc ReviewService) *gin.Engine {
	h := NewReviewHandler(svc, zap.NewNop())
	r := gin.New()
	r.GET("/reviews", h.List)
	r.POST("/reviews", h.Create)
	r.DELETE("/reviews/:id", h.Delete)
	return r
}

func TestReviewHandler_Create(t *testing.T) {
	svc := &fakeReviews{}
	r := reviewRouter(svc)

	w := doJSON(r, http.MethodPost, "/reviews", `{"authorName":"Мария","text":"Очень вкусно","rating":5}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.created, 1)
	require.NotNil(t, svc.created[0].Rating)
	assert.Equal(t, 5, *svc.created[0].Rating)

	// без оценки отзыв тоже принимается
	w = doJSON(r, http.MethodPost, "/reviews", `{"text":"Неплохо"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Nil(t, svc.created[1].Rating)

	tests := []struct {
		name  string
		body  string
		field string
		tag   string
	}{
		{"no text", `{"authorName":"Мария","rating":4}`, "text", "required"},
		{"rating too high", `{"text":"ok","rating":7}`, "rating", "max"},
		{"rating too low", `{"text":"ok","rating":0}`, "rating", "min"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/reviews", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			e := decodeError(t, w)
			require.Len(t, e.Fields, 1)
			assert.Equal(t, tt.field, e.Fields[0].Field)
			assert.Equal(t, tt.tag, e.Fields[0].Tag)
		})
	}
	assert.Len(t, svc.created, 2)
}

func TestReviewHandler_Delete(t *testing.T) {
	svc := &fakeReviews{}
	r := reviewRouter(svc)

	w := doJSON(r, http.MethodDelete, "/reviews/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	svc.deleteErr = service.ErrForbidden
	w = doJSON(r, http.MethodDelete, "/reviews/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	svc.deleteErr = service.ErrReviewNotFound
	w = doJSON(r, http.MethodDelete, "/reviews/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.NewNotFoundError("Отзыв не найден").Message, decodeError(t, w).Message)
}
