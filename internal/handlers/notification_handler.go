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

type NotificationService interface {
	ListMine(ctx context.Context) ([]models.Notification, error)
	Send(ctx context.Context, userID uuid.UUID, title, text string) (*models.Notification, error)
	SendByEmail(ctx context.Context, email, title, text string) (*models.Notification, error)
	ClearMine(ctx context.Context) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type NotificationHandler struct {
	svc NotificationService
	log *zap.Logger
}

func NewNotificationHandler(svc NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: log}
}

// List godoc
// @Summary Мои уведомления
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Notification
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Нет токена"
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	list, err := h.svc.ListMine(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Send godoc
// @Summary Отправить уведомление пользователю
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param notification body dto.SendNotificationRequest true "Уведомление"
// @Success 200 {object} models.Notification
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Только для менеджера"
// @Failure 404 {object} dto.NotFoundErrorResponse "Пользователь не найден"
// @Router /notifications [post]
func (h *NotificationHandler) Send(c *gin.Context) {
	var req dto.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	n, err := h.svc.Send(c.Request.Context(), req.UserID, req.Title, req.Text)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// SendByEmail godoc
// @Summary Отправить уведомление по email
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param notification body dto.SendByEmailRequest true "Уведомление"
// @Success 200 {object} models.Notification
// @Failure 400 {object} dto.ValidationErrorResponse "Пользователь не найден"
// @Failure 403 {object} dto.ForbiddenErrorResponse "Только для менеджера"
// @Router /notifications/send-by-email [post]
func (h *NotificationHandler) SendByEmail(c *gin.Context) {
	var req dto.SendByEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	n, err := h.svc.SendByEmail(c.Request.Context(), req.Email, req.Title, req.Text)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// Clear godoc
// @Summary Очистить мои уведомления
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CountResponse
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Нет токена"
// @Router /notifications/clear [delete]
func (h *NotificationHandler) Clear(c *gin.Context) {
	n, err := h.svc.ClearMine(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Deleted: n})
}

// MarkRead godoc
// @Summary Отметить уведомление прочитанным
// @Tags notifications
// @Security BearerAuth
// @Param id path string true "ID уведомления"
// @Success 204
// @Failure 404 {object} dto.NotFoundErrorResponse "Уведомление не найдено"
// @Router /notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
