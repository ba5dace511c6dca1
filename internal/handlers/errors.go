package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/iksoll/VelvetCake/internal/dto"
	"github.com/iksoll/VelvetCake/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func init() {
	// В FieldError.Field попадает имя из json-тега, как его видит клиент.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// Тексты для конкретных ошибок сервиса. Остальные получают текст своего класса.
var errorMessages = map[error]string{
	service.ErrInvalidCredentials:   "Неверный email или пароль",
	service.ErrEmailExists:          "Email уже используется",
	service.ErrProductInUse:         "Товар используется в заказах и не может быть удалён",
	service.ErrComponentInUse:       "Компонент используется в тортах и не может быть удалён",
	service.ErrOrderNotFound:        "Заказ не найден",
	service.ErrProductNotFound:      "Товар не найден",
	service.ErrComponentNotFound:    "Компонент не найден",
	service.ErrUserNotFound:         "Пользователь не найден",
	service.ErrReviewNotFound:       "Отзыв не найден",
	service.ErrNotificationNotFound: "Уведомление не найдено",
	service.ErrCartItemNotFound:     "Товара нет в корзине",
}

func messageFor(err error, fallback string) string {
	for target, msg := range errorMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return fallback
}

// respondError переводит ошибку сервиса в HTTP-статус и BaseError.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dto.NewValidationError(verr.Message, nil))
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.NewValidationError("Некорректные данные", nil))
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError(messageFor(err, "Требуется авторизация")))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.NewForbiddenError("Недостаточно прав"))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.NewNotFoundError(messageFor(err, "Не найдено")))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, dto.NewConflictError(messageFor(err, "Конфликт данных")))
	case errors.Is(err, service.ErrTooManyRequests):
		c.JSON(http.StatusTooManyRequests, dto.NewRateLimitedError("Слишком много попыток, попробуйте позже"))
	default:
		log.Error("Необработанная ошибка",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
	}
}

// badRequestBody отвечает 400 на ошибку ShouldBindJSON. Нарушения binding-тегов
// раскладываются по полям.
func badRequestBody(c *gin.Context, log *zap.Logger, err error) {
	log.Debug("Некорректное тело запроса", zap.Error(err))

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("Некорректное тело запроса", nil))
		return
	}

	fields := make([]dto.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, dto.FieldError{
			Field:   fieldPath(fe),
			Message: fieldMessage(fe),
			Tag:     fe.Tag(),
		})
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationError("Проверьте заполнение полей", fields))
}

// fieldPath: путь без имени корневой структуры, например items[1].quantity.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "обязательное поле"
	case "email":
		return "некорректный email"
	case "datetime":
		return "ожидается дата в формате ГГГГ-ММ-ДД"
	case "min", "gte":
		if fe.Kind() == reflect.Slice {
			return "нужно хотя бы " + fe.Param() + " значение"
		}
		return "значение должно быть не меньше " + fe.Param()
	case "max", "lte":
		return "значение должно быть не больше " + fe.Param()
	}
	return "некорректное значение"
}

// pathID разбирает UUID из параметра пути; при ошибке отвечает 400.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("Некорректный идентификатор", []dto.FieldError{
			{Field: name, Message: "ожидается UUID", Tag: "uuid"},
		}))
		return uuid.Nil, false
	}
	return id, true
}
