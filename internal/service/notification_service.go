package service

import (
	"context"
	"strings"
	"time"

	"github.com/iksoll/VelvetCake/internal/models"
	"github.com/iksoll/VelvetCake/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationService struct {
	notifications repository.NotificationRepo
	users         repository.UserRepo
	now           func() time.Time
	log           *zap.Logger
}

func NewNotificationService(notifications repository.NotificationRepo, users repository.UserRepo, log *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		now:           time.Now,
		log:           log,
	}
}

// ListMine: лента текущего пользователя, новые сверху.
func (s *NotificationService) ListMine(ctx context.Context) ([]models.Notification, error) {
	userID, _, err := Authorize(ctx, CapNotificationsOwn)
	if err != nil {
		return nil, err
	}
	list, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Notification{}
	}
	return list, nil
}

func (s *NotificationService) Send(ctx context.Context, userID uuid.UUID, title, text string) (*models.Notification, error) {
	if _, _, err := Authorize(ctx, CapNotificationsSend); err != nil {
		return nil, err
	}
	title, text, err := normalizeMessage(title, text)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return s.create(ctx, u.ID, title, text)
}

// SendByEmail работает как Send, но получатель ищется по email.
// Неизвестный email считается ошибкой валидации, а не 404.
func (s *NotificationService) SendByEmail(ctx context.Context, email, title, text string) (*models.Notification, error) {
	if _, _, err := Authorize(ctx, CapNotificationsSend); err != nil {
		return nil, err
	}
	title, text, err := normalizeMessage(title, text)
	if err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	if email == "" {
		return nil, validationError("Email обязателен")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, validationError("Пользователь не найден")
	}
	return s.create(ctx, u.ID, title, text)
}

// ClearMine удаляет все уведомления текущего пользователя. Необратимо.
func (s *NotificationService) ClearMine(ctx context.Context) (int64, error) {
	userID, _, err := Authorize(ctx, CapNotificationsOwn)
	if err != nil {
		return 0, err
	}
	n, err := s.notifications.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.log.Info("Уведомления очищены", zap.String("user_id", userID.String()), zap.Int64("count", n))
	return n, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	userID, _, err := Authorize(ctx, CapNotificationsOwn)
	if err != nil {
		return err
	}
	ok, err := s.notifications.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) create(ctx context.Context, userID uuid.UUID, title, text string) (*models.Notification, error) {
	n := &models.Notification{
		UserID: userID,
		Title:  title,
		Text:   text,
		SentAt: s.now(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func normalizeMessage(title, text string) (string, string, error) {
	title = strings.TrimSpace(title)
	text = strings.TrimSpace(text)
	if title == "" || text == "" {
		return "", "", validationError("Заголовок и текст обязательны")
	}
	if len([]rune(title)) > 200 {
		return "", "", validationError("Заголовок длиннее 200 символов")
	}
	return title, text, nil
}
