package handlers

import (
	"context"
	"net/http"

	"github.com/iksoll/VelvetCake/internal/dto"
	"github.com/iksoll/VelvetCake/internal/models"
	"github.com/iksoll/VelvetCake/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogService interface {
	ListProducts(ctx context.Context, category string) ([]models.Product, error)
	CreateProduct(ctx context.Context, in service.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in service.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type ProductHandler struct {
	svc CatalogService
	log *zap.Logger
}

func NewProductHandler(svc CatalogService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, log: log}
}

// List godoc
// @Summary Список товаров
// @Description Товары одной категории в порядке добавления. По умолчанию cheesecakes.
// @Tags products
// @Produce json
// @Param category query string false "Категория"
// @Success 200 {array} models.Product
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	list, err := h.svc.ListProducts(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create godoc
// @Summary Добавить товар
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body dto.ProductRequest true "Товар"
// @Success 201 {object} models.Product
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Нет токена"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Только для менеджера"
// @Router /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	p, err := h.svc.CreateProduct(c.Request.Context(), productInput(req))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Update godoc
// @Summary Изменить товар
// @Description Полная замена полей товара
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID товара"
// @Param product body dto.ProductRequest true "Товар"
// @Success 200 {object} models.Product
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Только для менеджера"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	p, err := h.svc.UpdateProduct(c.Request.Context(), id, productInput(req))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete godoc
// @Summary Удалить товар
// @Description Товар, на который ссылаются заказы, удалить нельзя
// @Tags products
// @Security BearerAuth
// @Param id path string true "ID товара"
// @Success 204
// @Failure 403 {object} dto.ForbiddenErrorResponse "Только для менеджера"
// @Failure 404 {object} dto.NotFoundErrorResponse "Товар не найден"
// @Failure 409 {object} dto.ConflictErrorResponse "Товар используется в заказах"
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func productInput(req dto.ProductRequest) service.ProductInput {
	return service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Weight:      req.Weight,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
	}
}
