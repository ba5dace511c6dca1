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

type OrderService interface {
	CreateOrder(ctx context.Context, in service.CreateOrderInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListMyOrders(ctx context.Context) ([]models.Order, error)
}

type OrderHandler struct {
	svc OrderService
	log *zap.Logger
}

func NewOrderHandler(svc OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: log}
}

// Create godoc
// @Summary Оформить заказ
// @Description Создаёт заказ, позиции, индивидуальные торты и уведомление одной транзакцией.
// @Description Цена товаров каталога берётся из каталога, итог пересчитывается на сервере.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order body dto.CreateOrderRequest true "Заказ"
// @Success 200 {object} models.Order
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Нет токена"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Заказ может оформить только покупатель"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, h.log, err)
		return
	}

	in := service.CreateOrderInput{
		Total:           req.Total,
		DeliveryAddress: req.DeliveryAddress,
		Comments:        req.Comments,
		DeliveryDate:    req.DeliveryDate,
		Items:           make([]service.CreateOrderItem, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, service.CreateOrderItem{
			ProductID:   it.ProductID,
			Name:        it.Name,
			Description: it.Description,
			Weight:      it.Weight,
			Price:       it.Price,
			Quantity:    it.Quantity,
		})
	}

	order, err := h.svc.CreateOrder(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// List godoc
// @Summary Все заказы
// @Description Заказы всех покупателей, новые сверху. Для менеджера и кондитера.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Order
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Нет токена"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Недостаточно прав"
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	list, err := h.svc.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListMine godoc
// @Summary Мои заказы
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Order
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Нет токена"
// @Router /orders/my [get]
func (h *OrderHandler) ListMine(c *gin.Context) {
	list, err := h.svc.ListMyOrders(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateStatus godoc
// @Summary Сменить статус заказа
// @Description Допустимые статусы: Новый, В работе, Готов, Выдан. Владелец получает уведомление.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID заказа"
// @Param status body dto.UpdateStatusRequest true "Новый статус"
// @Success 200 {object} models.Order
// @Failure 400 {object} dto.ValidationErrorResponse "Недопустимый статус"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Недостаточно прав"
// @Failure 404 {object} dto.NotFoundErrorResponse "Заказ не найден"
// @Router /orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	order, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
