package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCustomCakeName: имя торта, если покупатель его не задал.
const DefaultCustomCakeName = "Индивидуальный торт"

const deliveryDateLayout = "2006-01-02"

// Пределы колонок numeric(5,2) для веса и numeric(10,2) для денег.
var (
	maxCakeWeight = decimal.RequireFromString("999.99")
	maxMoney      = decimal.RequireFromString("99999999.99")
)

// CreateOrderItem: позиция корзины: либо товар каталога (ProductID),
// либо индивидуальный торт, описанный свободным текстом.
type CreateOrderItem struct {
	ProductID   *uuid.UUID
	Name        string
	Description string
	Weight      decimal.Decimal
	Price       decimal.Decimal
	Quantity    int
}

type CreateOrderInput struct {
	Total           decimal.Decimal // сумма, посчитанная клиентом; только для сверки
	DeliveryAddress string
	Comments        string
	DeliveryDate    string // YYYY-MM-DD
	Items           []CreateOrderItem
}
