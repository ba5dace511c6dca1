package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iksoll/VelvetCake/internal/models"
	"github.com/iksoll/VelvetCake/internal/repository"

	"github.com/google/uuid"
	"github.com/nanorand/nanorand"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const orderNumberAttempts = 3

type OrderService struct {
	orders   repository.OrderRepo
	products repository.ProductRepo
	events   EventBus     // может быть nil
	metrics  OrderMetrics // может быть nil
	numbers  func() (string, error)
	now      func() time.Time
	log      *zap.Logger
}

func NewOrderService(orders repository.OrderRepo, products repository.ProductRepo, events EventBus, metrics OrderMetrics, log *zap.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		events:   events,
		metrics:  metrics,
		numbers:  func() (string, error) { return nanorand.Gen(8) },
		now:      time.Now,
		log:      log,
	}
}

// CreateOrder оформляет заказ: сам заказ, торты, позиции и уведомление
// пишутся в одной транзакции.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	userID, _, err := Authorize(ctx, CapOrdersPlace)
	if err != nil {
		return nil, err
	}

	deliveryDate, err := parseDeliveryDate(in.DeliveryDate)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, validationError("Корзина пуста")
	}

	catalog, err := s.loadProducts(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	lines, total, err := normalizeItems(in.Items, catalog)
	if err != nil {
		return nil, err
	}
	in.Items = lines

	if !in.Total.IsZero() && !in.Total.Round(2).Equal(total) {
		s.log.Warn("Сумма заказа от клиента не совпала с расчётной",
			zap.String("user_id", userID.String()),
			zap.String("client_total", in.Total.String()),
			zap.String("server_total", total.String()))
	}

	now := s.now()
	var (
		order *models.Order
		items []models.OrderItem
	)
	for attempt := 1; ; attempt++ {
		order, items, err = s.createInTx(ctx, userID, in, catalog, total, deliveryDate, now)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrDuplicate) && attempt < orderNumberAttempts {
			s.log.Warn("Коллизия номера заказа, повтор", zap.Int("attempt", attempt))
			continue
		}
		return nil, err
	}

	full, err := s.orders.GetByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if full == nil {
		return nil, ErrOrderNotFound
	}

	if s.metrics != nil {
		s.metrics.OrderCreated()
	}
	s.publishCreated(ctx, full, items)

	s.log.Info("Заказ оформлен",
		zap.String("order_id", full.ID.String()),
		zap.String("number", full.Number),
		zap.Int("items", len(items)))
	return full, nil
}

func (s *OrderService) createInTx(
	ctx context.Context,
	userID uuid.UUID,
	in CreateOrderInput,
	catalog map[uuid.UUID]models.Product,
	total decimal.Decimal,
	deliveryDate time.Time,
	now time.Time,
) (*models.Order, []models.OrderItem, error) {
	number, err := s.numbers()
	if err != nil {
		return nil, nil, err
	}

	order := &models.Order{
		Number:              number,
		UserID:              userID,
		Status:              models.OrderStatusNew,
		TotalAmount:         total,
		PaidAmount:          decimal.Zero,
		DeliveryAddress:     strings.TrimSpace(in.DeliveryAddress),
		Comments:            strings.TrimSpace(in.Comments),
		DesiredDeliveryDate: &deliveryDate,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	items := make([]models.OrderItem, 0, len(in.Items))

	err = s.orders.WithTx(ctx, func(tx repository.OrderTx) error {
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		for _, it := range in.Items {
			if it.ProductID != nil {
				pid := *it.ProductID
				items = append(items, models.OrderItem{
					OrderID:   order.ID,
					ProductID: &pid,
					Quantity:  it.Quantity,
					UnitPrice: catalog[pid].Price,
				})
				continue
			}

			name := strings.TrimSpace(it.Name)
			if name == "" {
				name = DefaultCustomCakeName
			}
			cake := &models.CustomCake{
				UserID:       userID,
				Name:         name,
				Description:  strings.TrimSpace(it.Description),
				Weight:       it.Weight,
				TotalPrice:   it.Price,
				DeliveryDate: &deliveryDate,
				CreatedAt:    now,
			}
			if err := tx.CustomCakes.Create(ctx, cake); err != nil {
				return err
			}
			cakeID := cake.ID
			items = append(items, models.OrderItem{
				OrderID:      order.ID,
				CustomCakeID: &cakeID,
				Quantity:     it.Quantity,
				UnitPrice:    cake.TotalPrice,
			})
		}

		if err := tx.Items.BulkCreate(ctx, items); err != nil {
			return err
		}

		return tx.Notifications.Create(ctx, &models.Notification{
			UserID: userID,
			Title:  fmt.Sprintf("Заказ №%s принят", order.Number),
			Text:   fmt.Sprintf("Ваш заказ на сумму %s ₽ принят в работу. Статус: \"%s\".", order.TotalAmount.String(), order.Status),
			SentAt: now,
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return order, items, nil
}

// UpdateStatus меняет статус и уведомляет владельца. Повторная установка
// того же статуса ничего не пишет.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	actorID, _, err := Authorize(ctx, CapOrdersUpdateStatus)
	if err != nil {
		return nil, err
	}

	next := models.OrderStatus(strings.TrimSpace(status))
	if !next.Valid() {
		return nil, validationError("Недопустимый статус заказа")
	}

	now := s.now()
	var (
		prev    models.OrderStatus
		changed bool
	)
	// Статус читается под блокировкой строки, чтобы параллельные смены
	// не записали один и тот же переход дважды.
	err = s.orders.WithTx(ctx, func(tx repository.OrderTx) error {
		ord, err := tx.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if ord == nil {
			return ErrOrderNotFound
		}
		prev = ord.Status
		if prev == next {
			return nil
		}
		changed = true

		if err := tx.Orders.UpdateStatus(ctx, ord.ID, next, now); err != nil {
			return err
		}
		return tx.Notifications.Create(ctx, &models.Notification{
			UserID: ord.UserID,
			Title:  fmt.Sprintf("Статус заказа №%s обновлён", ord.Number),
			Text:   fmt.Sprintf("Статус изменён с \"%s\" на \"%s\".", prev, next),
			SentAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrOrderNotFound
	}

	if !changed {
		return updated, nil
	}

	if s.metrics != nil {
		s.metrics.OrderStatusChanged(string(next))
	}
	if s.events != nil {
		if err := s.events.PublishOrderStatusChanged(ctx, OrderStatusChangedEvent{
			OrderID:   updated.ID,
			Number:    updated.Number,
			UserID:    updated.UserID,
			From:      string(prev),
			To:        string(next),
			ChangedBy: actorID,
			ChangedAt: now,
		}); err != nil {
			s.log.Warn("Не удалось опубликовать событие смены статуса", zap.String("order_id", updated.ID.String()), zap.Error(err))
		}
	}

	return updated, nil
}

func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	if _, _, err := Authorize(ctx, CapOrdersReadAll); err != nil {
		return nil, err
	}
	list, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Order{}
	}
	return list, nil
}

func (s *OrderService) ListMyOrders(ctx context.Context) ([]models.Order, error) {
	userID, _, err := Authorize(ctx, CapOrdersReadOwn)
	if err != nil {
		return nil, err
	}
	list, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Order{}
	}
	return list, nil
}

// normalizeItems округляет цены и вес до копеек, проверяет позиции и считает
// итог по ценам каталога. Проверки идут после округления: 0.004 превращается в 0.
func normalizeItems(items []CreateOrderItem, catalog map[uuid.UUID]models.Product) ([]CreateOrderItem, decimal.Decimal, error) {
	out := make([]CreateOrderItem, 0, len(items))
	total := decimal.Zero
	for i, it := range items {
		if it.Quantity < 1 {
			return nil, decimal.Zero, validationError(fmt.Sprintf("Позиция %d: количество должно быть больше нуля", i+1))
		}
		line := models.OrderItem{Quantity: it.Quantity}
		if it.ProductID != nil {
			line.UnitPrice = catalog[*it.ProductID].Price
		} else {
			it.Price = it.Price.Round(2)
			it.Weight = it.Weight.Round(2)
			if !it.Price.IsPositive() {
				return nil, decimal.Zero, validationError(fmt.Sprintf("Позиция %d: цена торта должна быть больше нуля", i+1))
			}
			if it.Price.GreaterThan(maxMoney) {
				return nil, decimal.Zero, validationError(fmt.Sprintf("Позиция %d: слишком большая цена торта", i+1))
			}
			if !it.Weight.IsPositive() {
				return nil, decimal.Zero, validationError(fmt.Sprintf("Позиция %d: вес торта должен быть больше нуля", i+1))
			}
			if it.Weight.GreaterThan(maxCakeWeight) {
				return nil, decimal.Zero, validationError(fmt.Sprintf("Позиция %d: вес торта не может превышать %s кг", i+1, maxCakeWeight.String()))
			}
			line.UnitPrice = it.Price
		}
		total = total.Add(line.LineTotal())
		out = append(out, it)
	}
	total = total.Round(2)
	if total.GreaterThan(maxMoney) {
		return nil, decimal.Zero, validationError("Слишком большая сумма заказа")
	}
	return out, total, nil
}

// loadProducts подгружает товары каталога, на которые ссылаются позиции.
func (s *OrderService) loadProducts(ctx context.Context, items []CreateOrderItem) (map[uuid.UUID]models.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, it := range items {
		if it.ProductID == nil {
			continue
		}
		if _, ok := seen[*it.ProductID]; ok {
			continue
		}
		seen[*it.ProductID] = struct{}{}
		ids = append(ids, *it.ProductID)
	}

	catalog := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) == 0 {
		return catalog, nil
	}

	list, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		catalog[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			return nil, validationError("Товар не найден: " + id.String())
		}
	}
	return catalog, nil
}

func (s *OrderService) publishCreated(ctx context.Context, o *models.Order, items []models.OrderItem) {
	if s.events == nil {
		return
	}
	evItems := make([]OrderItemEvent, 0, len(items))
	for _, it := range items {
		evItems = append(evItems, OrderItemEvent{
			ProductID:    it.ProductID,
			CustomCakeID: it.CustomCakeID,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
		})
	}
	if err := s.events.PublishOrderCreated(ctx, OrderCreatedEvent{
		OrderID:     o.ID,
		Number:      o.Number,
		UserID:      o.UserID,
		Items:       evItems,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
	}); err != nil {
		s.log.Warn("Не удалось опубликовать событие создания заказа", zap.String("order_id", o.ID.String()), zap.Error(err))
	}
}

func parseDeliveryDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, validationError("Укажите дату получения")
	}
	d, err := time.Parse(deliveryDateLayout, s)
	if err != nil {
		return time.Time{}, validationError("Дата получения должна быть в формате ГГГГ-ММ-ДД")
	}
	return d, nil
}
