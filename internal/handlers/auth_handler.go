package handlers

import (
	"context"
	"net/http"

	"github.com/iksoll/VelvetCake/internal/dto"
	"github.com/iksoll/VelvetCake/internal/models"
	"github.com/iksoll/VelvetCake/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

type AuthHandler struct {
	svc AuthService
	log *zap.Logger
}

func NewAuthHandler(svc AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

// Register godoc
// @Summary Регистрация пользователя
// @Description Создаёт пользователя с ролью user. Сессию не выдаёт: после регистрации нужно войти.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "Данные регистрации"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 409 {object} dto.ConflictErrorResponse "Email уже используется"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, h.log, err)
		return
	}

	_, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		FullName: req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Регистрация успешна!"})
}

// Login godoc
// @Summary Вход
// @Description Проверяет email и пароль и выдаёт Bearer-токен на 7 дней
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Данные входа"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Failure 401 {object} dto.UnauthorizedErrorResponse "Неверный email или пароль"
// @Failure 429 {object} dto.RateLimitedErrorResponse "Слишком много попыток"
// @Failure 500 {object} dto.InternalErrorResponse "Внутренняя ошибка"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, h.log, err)
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.Unix(),
		User: dto.UserSummary{
			FullName: res.User.FullName,
			Email:    res.User.Email,
			Role:     res.User.RoleName(),
		},
	})
}
