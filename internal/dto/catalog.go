package dto

import "github.com/shopspring/decimal"

type ProductRequest struct {
	Name        string          `json:"name" binding:"required" example:"Чизкейк Нью-Йорк"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" swaggertype:"number" example:"1450"`
	Weight      string          `json:"weight" example:"1 кг"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category" binding:"required" example:"cheesecakes"`
}

type ComponentRequest struct {
	Name string `json:"name" binding:"required" example:"Малина"`
}
