package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/iksoll/VelvetCake/internal/models"
	"github.com/iksoll/VelvetCake/internal/repository"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// validate проверяет формат email и для вызовов не из HTTP-слоя.
var validate = validator.New()

// LoginLimits: сколько неудачных входов подряд допускается в окне.
type LoginLimits struct {
	MaxAttempts int
	Window      time.Duration
}

type AuthService struct {
	users  repository.UserRepo
	roles  repository.RoleRepo
	hasher PasswordHasher
	tokens TokenProvider
	cache  CacheClient // nil отключает ограничение попыток входа

	tokenTTL time.Duration
	limits   LoginLimits
	now      func() time.Time

	log *zap.Logger
}

func NewAuthService(
	users repository.UserRepo,
	roles repository.RoleRepo,
	hasher PasswordHasher,
	tokens TokenProvider,
	cache CacheClient,
	tokenTTL time.Duration,
	limits LoginLimits,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		roles:    roles,
		hasher:   hasher,
		tokens:   tokens,
		cache:    cache,
		tokenTTL: tokenTTL,
		limits:   limits,
		now:      time.Now,
		log:      log,
	}
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Register создаёт пользователя с ролью user. Сессию не выдаёт.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.FullName)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, validationError("Все поля обязательны")
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, validationError("Некорректный email")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	role, err := s.roles.GetByName(ctx, models.RoleUser)
	if err != nil {
		return nil, err
	}
	if role == nil {
		s.log.Error("Роль user отсутствует в справочнике")
		return nil, ErrRoleNotSeeded
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     name,
		RoleID:       role.ID,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	u.Role = role

	s.log.Info("Пользователь зарегистрирован", zap.String("user_id", u.ID.String()))
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, validationError("Email и пароль обязательны")
	}

	failKey := "login:fail:" + email
	if s.locked(ctx, failKey) {
		return nil, ErrTooManyRequests
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Compare(user.PasswordHash, password) {
		s.registerFailure(ctx, failKey)
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.SignAccess(ctx, user.ID, user.Email, user.RoleName(), s.tokenTTL)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, failKey); err != nil {
			s.log.Warn("Не удалось сбросить счётчик неудачных входов", zap.Error(err))
		}
	}

	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// ParseToken проверяет bearer-токен; используется middleware аутентификации.
func (s *AuthService) ParseToken(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.tokens.ParseAndValidateAccess(ctx, token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

func (s *AuthService) locked(ctx context.Context, key string) bool {
	if s.cache == nil || s.limits.MaxAttempts <= 0 {
		return false
	}
	v, err := s.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	n, err := strconv.Atoi(v)
	return err == nil && n >= s.limits.MaxAttempts
}

func (s *AuthService) registerFailure(ctx context.Context, key string) {
	if s.cache == nil || s.limits.MaxAttempts <= 0 {
		return
	}
	if _, err := s.cache.IncrWithTTL(ctx, key, s.limits.Window); err != nil {
		s.log.Warn("Не удалось учесть неудачный вход", zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
