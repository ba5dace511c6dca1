package service

import (
	"context"

	"github.com/google/uuid"
)

type Capability string

const (
	CapCatalogWrite       Capability = "catalog:write"
	CapOrdersPlace        Capability = "orders:place"
	CapOrdersReadAll      Capability = "orders:read_all"
	CapOrdersReadOwn      Capability = "orders:read_own"
	CapOrdersUpdateStatus Capability = "orders:update_status"
	CapNotificationsSend  Capability = "notifications:send"
	CapNotificationsOwn   Capability = "notifications:own"
	CapReviewsWrite       Capability = "reviews:write"
	CapReviewsModerate    Capability = "reviews:moderate"
	CapCartManage         Capability = "cart:manage"
)

// anyRole: возможность доступна любому аутентифицированному пользователю.
var anyRole = []Role{RoleUser, RoleManager, RolePastryChef}

var capabilities = map[Capability][]Role{
	CapCatalogWrite:       {RoleManager},
	CapOrdersPlace:        {RoleUser},
	CapOrdersReadAll:      {RoleManager, RolePastryChef},
	CapOrdersReadOwn:      anyRole,
	CapOrdersUpdateStatus: {RoleManager, RolePastryChef},
	CapNotificationsSend:  {RoleManager},
	CapNotificationsOwn:   anyRole,
	CapReviewsWrite:       anyRole,
	CapReviewsModerate:    {RoleManager},
	CapCartManage:         anyRole,
}

// Allowed сообщает, даёт ли роль указанную возможность.
func Allowed(role Role, c Capability) bool {
	for _, r := range capabilities[c] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize проверяет личность из контекста против таблицы возможностей.
// Нет личности: ErrUnauthorized, роль не подходит: ErrForbidden.
func Authorize(ctx context.Context, c Capability) (uuid.UUID, Role, error) {
	uid, ok := UserIDFromContext(ctx)
	if !ok || uid == uuid.Nil {
		return uuid.Nil, "", ErrUnauthorized
	}
	role, _ := RoleFromContext(ctx)
	if !Allowed(role, c) {
		return uid, role, ErrForbidden
	}
	return uid, role, nil
}
