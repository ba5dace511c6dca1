package dto

import "github.com/shopspring/decimal"

type QuoteRequest struct {
	WeightKg      decimal.Decimal `json:"weightKg" swaggertype:"number" example:"1.5"`
	MainBase      string          `json:"mainBase"`
	ExtraBases    []string        `json:"extraBases"`
	MainFilling   string          `json:"mainFilling"`
	ExtraFillings []string        `json:"extraFillings"`
	Notes         string          `json:"notes"`
}

// QuoteResponse: готовая позиция для корзины: name, description, weight и price
// отправляются в POST /orders как есть.
type QuoteResponse struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	WeightKg    decimal.Decimal `json:"weightKg" swaggertype:"number"`
	Price       decimal.Decimal `json:"price" swaggertype:"number"`
}
