package dto

import "github.com/google/uuid"

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"productId" binding:"required" swaggertype:"string"`
	Quantity  int       `json:"quantity" binding:"omitempty,gte=1" example:"1"` // 0 означает 1
}

type SetCartQuantityRequest struct {
	Quantity int `json:"quantity" example:"2"`
}
