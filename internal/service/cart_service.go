package service

import (
	"context"
	"time"

	"github.com/iksoll/VelvetCake/internal/models"
	"github.com/iksoll/VelvetCake/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Cart struct {
	Items []models.CartItem `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

type CartService struct {
	cart     repository.CartRepo
	products repository.ProductRepo
	now      func() time.Time
	log      *zap.Logger
}

func NewCartService(cart repository.CartRepo, products repository.ProductRepo, log *zap.Logger) *CartService {
	return &CartService{cart: cart, products: products, now: time.Now, log: log}
}

func (s *CartService) Get(ctx context.Context) (*Cart, error) {
	userID, _, err := Authorize(ctx, CapCartManage)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, userID)
}

// Add кладёт товар в корзину; одинаковые товары объединяются по количеству.
func (s *CartService) Add(ctx context.Context, productID uuid.UUID, quantity int) (*Cart, error) {
	userID, _, err := Authorize(ctx, CapCartManage)
	if err != nil {
		return nil, err
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, validationError("Количество должно быть больше нуля")
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, validationError("Товар не найден")
	}

	if err := s.cart.AddOrIncrement(ctx, &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   s.now(),
	}); err != nil {
		return nil, err
	}
	return s.load(ctx, userID)
}

// SetQuantity задаёт количество; ноль и меньше удаляют позицию.
func (s *CartService) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) (*Cart, error) {
	userID, _, err := Authorize(ctx, CapCartManage)
	if err != nil {
		return nil, err
	}

	var ok bool
	if quantity <= 0 {
		ok, err = s.cart.Remove(ctx, userID, productID)
	} else {
		ok, err = s.cart.SetQuantity(ctx, userID, productID, quantity, s.now())
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCartItemNotFound
	}
	return s.load(ctx, userID)
}

func (s *CartService) Remove(ctx context.Context, productID uuid.UUID) (*Cart, error) {
	userID, _, err := Authorize(ctx, CapCartManage)
	if err != nil {
		return nil, err
	}
	ok, err := s.cart.Remove(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCartItemNotFound
	}
	return s.load(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context) error {
	userID, _, err := Authorize(ctx, CapCartManage)
	if err != nil {
		return err
	}
	_, err = s.cart.Clear(ctx, userID)
	return err
}

func (s *CartService) load(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	items, err := s.cart.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	total := decimal.Zero
	for _, it := range items {
		if it.Product != nil {
			total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	return &Cart{Items: items, Total: total}, nil
}
