package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iksoll/VelvetCake/internal/dto"
	"github.com/iksoll/VelvetCake/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Ключи gin-контекста с данными пользователя
const (
	CtxUserID   = "user_id"
	CtxUserRole = "user_role"
)

// TokenParser проверяет access-токен.
type TokenParser interface {
	ParseToken(ctx context.Context, token string) (*service.Claims, error)
}

// AuthRequired проверяет Bearer-токен и кладёт пользователя в контекст запроса.
func AuthRequired(tokens TokenParser, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("Требуется авторизация"))
			return
		}
		token, ok := ExtractBearerToken(authz)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("Некорректный заголовок Authorization"))
			return
		}

		claims, err := tokens.ParseToken(c.Request.Context(), token)
		if err != nil {
			log.Debug("Токен отклонён", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("Недействительный токен"))
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// AuthOptional подставляет пользователя, если токен валиден, и пропускает запрос в любом случае.
func AuthOptional(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := ExtractBearerToken(c.GetHeader("Authorization")); ok && token != "" {
			if claims, err := tokens.ParseToken(c.Request.Context(), token); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, claims *service.Claims) {
	c.Set(CtxUserID, claims.UserID.String())
	c.Set(CtxUserRole, claims.Role)
	ctx := service.WithIdentity(c.Request.Context(), claims.UserID, service.Role(claims.Role))
	c.Request = c.Request.WithContext(ctx)
}

// ExtractBearerToken извлекает токен из заголовка Authorization, устойчиво к лишним символам
// Примеры допустимых значений:
// - "Bearer abc.def.ghi"
// - "Bearer \"abc.def.ghi\""
// - "Bearer abc.def.ghi, extra"
func ExtractBearerToken(authz string) (string, bool) {
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	t := strings.Trim(strings.TrimSpace(parts[1]), " \"'")
	if i := strings.IndexRune(t, ','); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	t = strings.Trim(t, " \"'")
	if i := strings.IndexByte(t, ' '); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return strings.Trim(t, " \"'"), true
}
