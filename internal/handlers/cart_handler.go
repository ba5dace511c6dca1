package handlers

import (
	"context"
	"net/http"

	"github.com/iksoll/VelvetCake/internal/dto"
	"github.com/iksoll/VelvetCake/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartService interface {
	Get(ctx context.Context) (*service.Cart, error)
	Add(ctx context.Context, productID uuid.UUID, quantity int) (*service.Cart, error)
	SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) (*service.Cart, error)
	Remove(ctx context.Context, productID uuid.UUID) (*service.Cart, error)
	Clear(ctx context.Context) error
}

type CartHandler struct {
	svc CartService
	log *zap.Logger
}

func NewCartHandler(svc CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{svc: svc, log: log}
}

// Get godoc
// @Summary Корзина
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Cart
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Нет токена"
// @Router /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.svc.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// Add godoc
// @Summary Добавить товар в корзину
// @Description Повторное добавление того же товара увеличивает количество
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body dto.AddCartItemRequest true "Товар"
// @Success 200 {object} service.Cart
// @Failure 400 {object} dto.ValidationErrorResponse "Товар не найден"
// @Router /cart/items [post]
func (h *CartHandler) Add(c *gin.Context) {
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	cart, err := h.svc.Add(c.Request.Context(), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// SetQuantity godoc
// @Summary Изменить количество
// @Description Количество 0 и меньше удаляет позицию
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param productId path string true "ID товара"
// @Param item body dto.SetCartQuantityRequest true "Количество"
// @Success 200 {object} service.Cart
// @Failure 404 {object} dto.NotFoundErrorResponse "Товара нет в корзине"
// @Router /cart/items/{productId} [put]
func (h *CartHandler) SetQuantity(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req dto.SetCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	cart, err := h.svc.SetQuantity(c.Request.Context(), productID, req.Quantity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// Remove godoc
// @Summary Убрать товар из корзины
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param productId path string true "ID товара"
// @Success 200 {object} service.Cart
// @Failure 404 {object} dto.NotFoundErrorResponse "Товара нет в корзине"
// @Router /cart/items/{productId} [delete]
func (h *CartHandler) Remove(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	cart, err := h.svc.Remove(c.Request.Context(), productID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// Clear godoc
// @Summary Очистить корзину
// @Tags cart
// @Security BearerAuth
// @Success 204
// @Router /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context()); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
