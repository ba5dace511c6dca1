package service

import (
	"context"
	"errors"
	"encoding/json"
	"strings"
	"time"

	"github.com/iksoll/VelvetCake/internal/models"
	"github.com/iksoll/VelvetCake/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultCategory = "cheesecakes"

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Weight      string
	ImageURL    string
	Category    string
}

type CatalogService struct {
	products repository.ProductRepo
	cache    CacheClient // nil: без кэша
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewCatalogService(products repository.ProductRepo, cache CacheClient, cacheTTL time.Duration, log *zap.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func productsCacheKey(category string) string {
	return "catalog:products:" + category
}

// ListProducts отдаёт витрину категории. Публичный метод.
func (s *CatalogService) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}

	key := productsCacheKey(category)
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
			var cached []models.Product
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
			s.log.Warn("Повреждённая запись кэша каталога", zap.String("key", key))
		}
	}

	list, err := s.products.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Product{}
	}

	if s.cache != nil {
		if raw, err := json.Marshal(list); err == nil {
			if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
				s.log.Warn("Не удалось записать каталог в кэш", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return list, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if _, _, err := Authorize(ctx, CapCatalogWrite); err != nil {
		return nil, err
	}
	in, err := normalizeProduct(in)
	if err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Weight:      in.Weight,
		ImageURL:    in.ImageURL,
		Category:    in.Category,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, p.Category)
	return p, nil
}

// UpdateProduct полностью заменяет изменяемые поля товара.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, error) {
	if _, _, err := Authorize(ctx, CapCatalogWrite); err != nil {
		return nil, err
	}
	in, err := normalizeProduct(in)
	if err != nil {
		return nil, err
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	oldCategory := p.Category

	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Weight = in.Weight
	p.ImageURL = in.ImageURL
	p.Category = in.Category

	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidate(ctx, oldCategory, p.Category)
	return p, nil
}

// DeleteProduct запрещает удалять товар, на который ссылаются заказы.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, _, err := Authorize(ctx, CapCatalogWrite); err != nil {
		return err
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}

	used, err := s.products.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return ErrProductInUse
	}

	deleted, err := s.products.Delete(ctx, id)
	if errors.Is(err, repository.ErrReferenced) {
		// позицию заказа вставили между проверкой и удалением
		return ErrProductInUse
	}
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProductNotFound
	}
	s.invalidate(ctx, p.Category)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, categories ...string) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, len(categories))
	for _, c := range categories {
		keys = append(keys, productsCacheKey(c))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		s.log.Warn("Не удалось сбросить кэш каталога", zap.Strings("keys", keys), zap.Error(err))
	}
}

func normalizeProduct(in ProductInput) (ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Weight = strings.TrimSpace(in.Weight)
	in.ImageURL = strings.TrimSpace(in.ImageURL)

	if in.Name == "" {
		return in, validationError("Название товара обязательно")
	}
	if in.Category == "" {
		return in, validationError("Категория обязательна")
	}
	if in.Price.IsNegative() {
		return in, validationError("Цена не может быть отрицательной")
	}
	in.Price = in.Price.Round(2)
	return in, nil
}
