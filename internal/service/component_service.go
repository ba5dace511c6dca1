package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iksoll/VelvetCake/internal/models"
	"github.com/iksoll/VelvetCake/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Базовые цены компонентов, создаваемых из админки по одному названию.
var (
	DefaultFillingPrice  = decimal.NewFromInt(300)
	DefaultCakeBasePrice = decimal.NewFromInt(200)
)

type ComponentService struct {
	components repository.ComponentRepo
	log        *zap.Logger
}

func NewComponentService(components repository.ComponentRepo, log *zap.Logger) *ComponentService {
	return &ComponentService{components: components, log: log}
}

func (s *ComponentService) List(ctx context.Context, t models.ComponentType) ([]models.Component, error) {
	list, err := s.components.ListByType(ctx, t)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Component{}
	}
	return list, nil
}

func (s *ComponentService) Create(ctx context.Context, t models.ComponentType, name string) (*models.Component, error) {
	if _, _, err := Authorize(ctx, CapCatalogWrite); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("Название не может быть пустым")
	}

	price := DefaultFillingPrice
	switch t {
	case models.ComponentFilling:
	case models.ComponentCakeBase:
		price = DefaultCakeBasePrice
	default:
		return nil, validationError("Неизвестный тип компонента")
	}

	c := &models.Component{
		Type:             t,
		Name:             name,
		BasePricePerUnit: price,
		IsSeasonal:       false,
	}
	if err := s.components.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete следует политике товаров: используемый компонент не удаляется.
func (s *ComponentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, _, err := Authorize(ctx, CapCatalogWrite); err != nil {
		return err
	}

	c, err := s.components.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrComponentNotFound
	}

	used, err := s.components.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return ErrComponentInUse
	}

	deleted, err := s.components.Delete(ctx, id)
	if errors.Is(err, repository.ErrReferenced) {
		return ErrComponentInUse
	}
	if err != nil {
		return err
	}
	if !deleted {
		return ErrComponentNotFound
	}
	return nil
}
