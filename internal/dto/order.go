package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemRequest: позиция заказа. Без productId позиция считается индивидуальным тортом.
type OrderItemRequest struct {
	ProductID   *uuid.UUID      `json:"productId,omitempty" swaggertype:"string"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Weight      decimal.Decimal `json:"weight" swaggertype:"number"`
	Price       decimal.Decimal `json:"price" swaggertype:"number"`
	Quantity    int             `json:"quantity" binding:"gte=1" example:"1"`
}

type CreateOrderRequest struct {
	Total           decimal.Decimal    `json:"total" swaggertype:"number"`
	DeliveryAddress string             `json:"deliveryAddress"`
	Comments        string             `json:"comments"`
	DeliveryDate    string             `json:"deliveryDate" binding:"required,datetime=2006-01-02" example:"2025-03-08"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"В работе"`
}
