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

type ComponentService interface {
	List(ctx context.Context, t models.ComponentType) ([]models.Component, error)
	Create(ctx context.Context, t models.ComponentType, name string) (*models.Component, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ComponentHandler struct {
	svc ComponentService
	log *zap.Logger
}

func NewComponentHandler(svc ComponentService, log *zap.Logger) *ComponentHandler {
	return &ComponentHandler{svc: svc, log: log}
}

// ListFillings godoc
// @Summary Начинки для конструктора
// @Tags components
// @Produce json
// @Success 200 {array} models.Component
// @Router /components/fillings [get]
func (h *ComponentHandler) ListFillings(c *gin.Context) { h.list(c, models.ComponentFilling) }

// ListCakeBases godoc
// @Summary Бисквиты для конструктора
// @Tags components
// @Produce json
// @Success 200 {array} models.Component
// @Router /components/cakeBases [get]
func (h *ComponentHandler) ListCakeBases(c *gin.Context) { h.list(c, models.ComponentCakeBase) }

// CreateFilling godoc
// @Summary Добавить начинку
// @Tags components
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param component body dto.ComponentRequest true "Название"
// @Success 201 {object} models.Component
// @Failure 400 {object} dto.ValidationErrorResponse "Название не может быть пустым"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Только для менеджера"
// @Router /components/fillings [post]
func (h *ComponentHandler) CreateFilling(c *gin.Context) { h.create(c, models.ComponentFilling) }

// CreateCakeBase godoc
// @Summary Добавить бисквит
// @Tags components
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param component body dto.ComponentRequest true "Название"
// @Success 201 {object} models.Component
// @Failure 400 {object} dto.ValidationErrorResponse "Название не может быть пустым"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Только для менеджера"
// @Router /components/cakeBases [post]
func (h *ComponentHandler) CreateCakeBase(c *gin.Context) { h.create(c, models.ComponentCakeBase) }

// Delete godoc
// @Summary Удалить компонент
// @Tags components
// @Security BearerAuth
// @Param id path string true "ID компонента"
// @Success 204
// @Failure 403 {object} dto.ForbiddenErrorResponse "Только для менеджера"
// @Failure 404 {object} dto.NotFoundErrorResponse "Компонент не найден"
// @Failure 409 {object} dto.ConflictErrorResponse "Компонент используется"
// @Router /components/{id} [delete]
func (h *ComponentHandler) Delete(c *gin.Context) {
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

func (h *ComponentHandler) list(c *gin.Context, t models.ComponentType) {
	list, err := h.svc.List(c.Request.Context(), t)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ComponentHandler) create(c *gin.Context, t models.ComponentType) {
	var req dto.ComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	comp, err := h.svc.Create(c.Request.Context(), t, req.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, comp)
}
