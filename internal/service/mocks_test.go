package service_test

import (
	"context"
	"strconv"
	"time"

	"github.com/iksoll/VelvetCake/internal/models"
	"github.com/iksoll/VelvetCake/internal/repository"
	"github.com/iksoll/VelvetCake/internal/service"

	"github.com/google/uuid"
)

// Моки зависимостей сервисов. Незаданная функция возвращает нулевой результат.

type MockUserRepo struct {
	CreateFunc        func(ctx context.Context, u *models.User) error
	GetByEmailFunc    func(ctx context.Context, email string) (*models.User, error)
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*models.User, error)
	ExistsByEmailFunc func(ctx context.Context, email string) (bool, error)
}

func (m *MockUserRepo) Create(ctx context.Context, u *models.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	u.ID = uuid.New()
	return nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFunc != nil {
		return m.ExistsByEmailFunc(ctx, email)
	}
	return false, nil
}

type MockRoleRepo struct {
	GetByNameFunc func(ctx context.Context, name string) (*models.Role, error)
}

func (m *MockRoleRepo) GetByName(ctx context.Context, name string) (*models.Role, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, name)
	}
	return &models.Role{ID: uuid.New(), Name: name}, nil
}

func (m *MockRoleRepo) List(ctx context.Context) ([]models.Role, error) {
	return nil, nil
}

type MockPasswordHasher struct {
	HashFunc    func(password string) (string, error)
	CompareFunc func(hash, password string) bool
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *MockPasswordHasher) Compare(hash, password string) bool {
	if m.CompareFunc != nil {
		return m.CompareFunc(hash, password)
	}
	return hash == "hashed_"+password
}

type MockTokenProvider struct {
	SignAccessFunc             func(ctx context.Context, sub uuid.UUID, email, role string, ttl time.Duration) (string, time.Time, error)
	ParseAndValidateAccessFunc func(ctx context.Context, token string) (*service.Claims, error)
}

func (m *MockTokenProvider) SignAccess(ctx context.Context, sub uuid.UUID, email, role string, ttl time.Duration) (string, time.Time, error) {
	if m.SignAccessFunc != nil {
		return m.SignAccessFunc(ctx, sub, email, role, ttl)
	}
	return "access_token", time.Now().Add(ttl), nil
}

func (m *MockTokenProvider) ParseAndValidateAccess(ctx context.Context, token string) (*service.Claims, error) {
	if m.ParseAndValidateAccessFunc != nil {
		return m.ParseAndValidateAccessFunc(ctx, token)
	}
	return &service.Claims{UserID: uuid.New(), Role: models.RoleUser, Exp: time.Now().Add(time.Hour)}, nil
}

// MockCacheClient: кэш в памяти, TTL не учитывается.
type MockCacheClient struct {
	data map[string]string
	Dels [][]string

	GetErr error
	SetErr error
}

func NewMockCache() *MockCacheClient {
	return &MockCacheClient{data: map[string]string{}}
}

func (m *MockCacheClient) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	n, _ := strconv.ParseInt(m.data[key], 10, 64)
	n++
	m.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (m *MockCacheClient) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	return nil
}

func (m *MockCacheClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetErr != nil {
		return "", m.GetErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", errCacheMiss
	}
	return v, nil
}

func (m *MockCacheClient) Del(ctx context.Context, keys ...string) error {
	m.Dels = append(m.Dels, keys)
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *MockCacheClient) Has(key string) bool {
	_, ok := m.data[key]
	return ok
}

type cacheMiss struct{}

func (cacheMiss) Error() string { return "cache miss" }

var errCacheMiss error = cacheMiss{}

type MockProductRepo struct {
	CreateFunc         func(ctx context.Context, p *models.Product) error
	UpdateFunc         func(ctx context.Context, p *models.Product) error
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetByIDsFunc       func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	ListByCategoryFunc func(ctx context.Context, category string) ([]models.Product, error)
	DeleteFunc         func(ctx context.Context, id uuid.UUID) (bool, error)
	IsReferencedFunc   func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MockProductRepo) Create(ctx context.Context, p *models.Product) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, p)
	}
	p.ID = uuid.New()
	return nil
}

func (m *MockProductRepo) Update(ctx context.Context, p *models.Product) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}

func (m *MockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockProductRepo) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	if m.ListByCategoryFunc != nil {
		return m.ListByCategoryFunc(ctx, category)
	}
	return nil, nil
}

func (m *MockProductRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return true, nil
}

func (m *MockProductRepo) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.IsReferencedFunc != nil {
		return m.IsReferencedFunc(ctx, id)
	}
	return false, nil
}

type MockComponentRepo struct {
	CreateFunc       func(ctx context.Context, c *models.Component) error
	GetByIDFunc      func(ctx context.Context, id uuid.UUID) (*models.Component, error)
	ListByTypeFunc   func(ctx context.Context, t models.ComponentType) ([]models.Component, error)
	DeleteFunc       func(ctx context.Context, id uuid.UUID) (bool, error)
	IsReferencedFunc func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MockComponentRepo) Create(ctx context.Context, c *models.Component) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	c.ID = uuid.New()
	return nil
}

func (m *MockComponentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Component, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockComponentRepo) ListByType(ctx context.Context, t models.ComponentType) ([]models.Component, error) {
	if m.ListByTypeFunc != nil {
		return m.ListByTypeFunc(ctx, t)
	}
	return nil, nil
}

func (m *MockComponentRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return true, nil
}

func (m *MockComponentRepo) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.IsReferencedFunc != nil {
		return m.IsReferencedFunc(ctx, id)
	}
	return false, nil
}

type MockNotificationRepo struct {
	CreateFunc       func(ctx context.Context, n *models.Notification) error
	ListByUserFunc   func(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
	DeleteByUserFunc func(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkReadFunc     func(ctx context.Context, id, userID uuid.UUID) (bool, error)

	Created []models.Notification
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, n); err != nil {
			return err
		}
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	m.Created = append(m.Created, *n)
	return nil
}

func (m *MockNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockNotificationRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.DeleteByUserFunc != nil {
		return m.DeleteByUserFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, id, userID)
	}
	return false, nil
}

type MockReviewRepo struct {
	CreateFunc func(ctx context.Context, rv *models.Review) error
	ListFunc   func(ctx context.Context) ([]models.Review, error)
	DeleteFunc func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *MockReviewRepo) Create(ctx context.Context, rv *models.Review) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rv)
	}
	rv.ID = uuid.New()
	return nil
}

func (m *MockReviewRepo) List(ctx context.Context) ([]models.Review, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockReviewRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return false, nil
}

type MockCartRepo struct {
	ListByUserFunc      func(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	AddOrIncrementFunc  func(ctx context.Context, item *models.CartItem) error
	SetQuantityFunc     func(ctx context.Context, userID, productID uuid.UUID, qty int, at time.Time) (bool, error)
	RemoveFunc          func(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	ClearFunc           func(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteOlderThanFunc func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *MockCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockCartRepo) AddOrIncrement(ctx context.Context, item *models.CartItem) error {
	if m.AddOrIncrementFunc != nil {
		return m.AddOrIncrementFunc(ctx, item)
	}
	return nil
}

func (m *MockCartRepo) SetQuantity(ctx context.Context, userID, productID uuid.UUID, qty int, at time.Time) (bool, error) {
	if m.SetQuantityFunc != nil {
		return m.SetQuantityFunc(ctx, userID, productID, qty, at)
	}
	return false, nil
}

func (m *MockCartRepo) Remove(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, userID, productID)
	}
	return false, nil
}

func (m *MockCartRepo) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockCartRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteOlderThanFunc != nil {
		return m.DeleteOlderThanFunc(ctx, cutoff)
	}
	return 0, nil
}

// orderStore: хранилище заказов в памяти. WithTx копит записи и применяет
// их только при успешном завершении колбэка, как настоящая транзакция.
type orderStore struct {
	orders        map[uuid.UUID]*models.Order
	items         []models.OrderItem
	cakes         []models.CustomCake
	notifications *MockNotificationRepo

	products map[uuid.UUID]models.Product

	createErr     []error // ошибки для последовательных вызовов Create
	itemsErr      error
	statusUpdates int
	lockedReads   int
	committedTx   int
	rolledBackTx  int
}

func newOrderStore() *orderStore {
	return &orderStore{
		orders:        map[uuid.UUID]*models.Order{},
		notifications: &MockNotificationRepo{},
		products:      map[uuid.UUID]models.Product{},
	}
}

func (s *orderStore) Create(ctx context.Context, o *models.Order) error {
	if len(s.createErr) > 0 {
		err := s.createErr[0]
		s.createErr = s.createErr[1:]
		if err != nil {
			return err
		}
	}
	o.ID = uuid.New()
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *orderStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.Items = nil
	for _, it := range s.items {
		if it.OrderID != id {
			continue
		}
		if it.ProductID != nil {
			if p, ok := s.products[*it.ProductID]; ok {
				p := p
				it.Product = &p
			}
		}
		if it.CustomCakeID != nil {
			for i := range s.cakes {
				if s.cakes[i].ID == *it.CustomCakeID {
					c := s.cakes[i]
					it.CustomCake = &c
				}
			}
		}
		cp.Items = append(cp.Items, it)
	}
	return &cp, nil
}

func (s *orderStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	s.lockedReads++
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (s *orderStore) List(ctx context.Context) ([]models.Order, error) {
	out := make([]models.Order, 0, len(s.orders))
	for id := range s.orders {
		o, _ := s.GetByID(ctx, id)
		out = append(out, *o)
	}
	return out, nil
}

func (s *orderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for id, o := range s.orders {
		if o.UserID == userID {
			full, _ := s.GetByID(ctx, id)
			out = append(out, *full)
		}
	}
	return out, nil
}

func (s *orderStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, at time.Time) error {
	o, ok := s.orders[id]
	if !ok {
		return nil
	}
	o.Status = status
	o.UpdatedAt = at
	s.statusUpdates++
	return nil
}

func (s *orderStore) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	if s.itemsErr != nil {
		return s.itemsErr
	}
	for i := range items {
		items[i].ID = uuid.New()
	}
	s.items = append(s.items, items...)
	return nil
}

type cakeRepo struct{ s *orderStore }

func (c cakeRepo) Create(ctx context.Context, cake *models.CustomCake) error {
	cake.ID = uuid.New()
	c.s.cakes = append(c.s.cakes, *cake)
	return nil
}

type itemRepo struct{ s *orderStore }

func (r itemRepo) BulkCreate(ctx context.Context, items []models.OrderItem) error {
	return r.s.BulkCreate(ctx, items)
}

func (s *orderStore) WithTx(ctx context.Context, fn func(tx repository.OrderTx) error) error {
	ordersBefore := make(map[uuid.UUID]models.Order, len(s.orders))
	for id, o := range s.orders {
		ordersBefore[id] = *o
	}
	itemsBefore := len(s.items)
	cakesBefore := len(s.cakes)
	notesBefore := len(s.notifications.Created)
	updatesBefore := s.statusUpdates

	err := fn(repository.OrderTx{
		Orders:        s,
		Items:         itemRepo{s},
		CustomCakes:   cakeRepo{s},
		Notifications: s.notifications,
	})
	if err != nil {
		s.orders = make(map[uuid.UUID]*models.Order, len(ordersBefore))
		for id, o := range ordersBefore {
			o := o
			s.orders[id] = &o
		}
		s.items = s.items[:itemsBefore]
		s.cakes = s.cakes[:cakesBefore]
		s.notifications.Created = s.notifications.Created[:notesBefore]
		s.statusUpdates = updatesBefore
		s.rolledBackTx++
		return err
	}
	s.committedTx++
	return nil
}

func (s *orderStore) productRepo() *MockProductRepo {
	return &MockProductRepo{
		GetByIDsFunc: func(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
			var out []models.Product
			for _, id := range ids {
				if p, ok := s.products[id]; ok {
					out = append(out, p)
				}
			}
			return out, nil
		},
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			if p, ok := s.products[id]; ok {
				return &p, nil
			}
			return nil, nil
		},
	}
}

type MockEventBus struct {
	Created []service.OrderCreatedEvent
	Changed []service.OrderStatusChangedEvent
	Err     error
}

func (m *MockEventBus) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	m.Created = append(m.Created, e)
	return m.Err
}

func (m *MockEventBus) PublishOrderStatusChanged(ctx context.Context, e service.OrderStatusChangedEvent) error {
	m.Changed = append(m.Changed, e)
	return m.Err
}

type MockOrderMetrics struct {
	Created int
	Changed map[string]int
}

func (m *MockOrderMetrics) OrderCreated() { m.Created++ }

func (m *MockOrderMetrics) OrderStatusChanged(status string) {
	if m.Changed == nil {
		m.Changed = map[string]int{}
	}
	m.Changed[status]++
}

func asUser(id uuid.UUID) context.Context {
	return service.WithIdentity(context.Background(), id, service.RoleUser)
}

func asManager() context.Context {
	return service.WithIdentity(context.Background(), uuid.New(), service.RoleManager)
}

func asChef() context.Context {
	return service.WithIdentity(context.Background(), uuid.New(), service.RolePastryChef)
}
