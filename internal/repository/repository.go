package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrDuplicate: нарушение уникального индекса (email, номер заказа).
	ErrDuplicate = errors.New("duplicate key")
	// ErrReferenced: строку держит внешний ключ с ON DELETE RESTRICT.
	ErrReferenced = errors.New("row is referenced")
)

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrReferenced
	}
	return err
}

type Repository struct {
	DB            *gorm.DB
	Users         UserRepo
	Roles         RoleRepo
	Products      ProductRepo
	Components    ComponentRepo
	CustomCakes   CustomCakeRepo
	Orders        OrderRepo
	OrderItems    OrderItemRepo
	Notifications NotificationRepo
	Reviews       ReviewRepo
	Cart          CartRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:            db,
		Users:         NewUserRepo(db),
		Roles:         NewRoleRepo(db),
		Products:      NewProductRepo(db),
		Components:    NewComponentRepo(db),
		CustomCakes:   NewCustomCakeRepo(db),
		Orders:        NewOrderRepo(db),
		OrderItems:    NewOrderItemRepo(db),
		Notifications: NewNotificationRepo(db),
		Reviews:       NewReviewRepo(db),
		Cart:          NewCartRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

