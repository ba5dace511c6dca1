package handlers

import (
	"context"
	"net/http"

	"github.com/iksoll/VelvetCake/internal/dto"
	"github.com/iksoll/VelvetCake/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	List(ctx context.Context) ([]models.Review, error)
	Create(ctx context.Context, authorName, text string, rating *int) (*models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReviewHandler struct {
	svc ReviewService
	log *zap.Logger
}

func NewReviewHandler(svc ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{svc: svc, log: log}
}

// List godoc
// @Summary Отзывы
// @Tags reviews
// @Produce json
// @Success 200 {array} models.Review
// @Router /reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create godoc
// @Summary Оставить отзыв
// @Description Имя автора по умолчанию «Аноним», оценка от 1 до 5 необязательна
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param review body dto.CreateReviewRequest true "Отзыв"
// @Success 201 {object} models.Review
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Нет токена"
// @Router /reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	rv, err := h.svc.Create(c.Request.Context(), req.AuthorName, req.Text, req.Rating)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

// Delete godoc
// @Summary Удалить отзыв
// @Tags reviews
// @Security BearerAuth
// @Param id path string true "ID отзыва"
// @Success 204
// @Failure 403 {object} dto.ForbiddenErrorResponse "Только для менеджера"
// @Failure 404 {object} dto.NotFoundErrorResponse "Отзыв не найден"
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
