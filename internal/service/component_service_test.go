package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iksoll/VelvetCake/internal/models"
	"github.com/iksoll/VelvetCake/internal/repository"
	"github.com/iksoll/VelvetCake/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func TestComponentCreate_DefaultPrices(t *testing.T) {
	svc := service.NewComponentService(&MockComponentRepo{}, zap.NewNop())

	f, err := svc.Create(asManager(), models.ComponentFilling, " Малина ")
	if err != nil {
		t.Fatalf("Create(filling) error = %v", err)
	}
	if f.Name != "Малина" || !f.BasePricePerUnit.Equal(decimal.NewFromInt(300)) || f.IsSeasonal {
		t.Errorf("начинка: %+v", f)
	}

	b, err := svc.Create(asManager(), models.ComponentCakeBase, "Шоколадный бисквит")
	if err != nil {
		t.Fatalf("Create(cake_base) error = %v", err)
	}
	if !b.BasePricePerUnit.Equal(decimal.NewFromInt(200)) {
		t.Errorf("цена основы = %s", b.BasePricePerUnit)
	}
}

func TestComponentCreate_Validation(t *testing.T) {
	svc := service.NewComponentService(&MockComponentRepo{}, zap.NewNop())

	if _, err := svc.Create(asManager(), models.ComponentFilling, "   "); !errors.Is(err, service.ErrValidation) {
		t.Errorf("пустое имя: error = %v", err)
	}
	if _, err := svc.Create(asManager(), models.ComponentType("decor"), "Ягоды"); !errors.Is(err, service.ErrValidation) {
		t.Errorf("неизвестный тип: error = %v", err)
	}
	if _, err := svc.Create(asUser(uuid.New()), models.ComponentFilling, "Ягоды"); !errors.Is(err, service.ErrForbidden) {
		t.Errorf("покупатель: error = %v", err)
	}
}

func TestComponentList_FiltersByType(t *testing.T) {
	var got models.ComponentType
	repo := &MockComponentRepo{
		ListByTypeFunc: func(ctx context.Context, ct models.ComponentType) ([]models.Component, error) {
			got = ct
			return nil, nil
		},
	}
	svc := service.NewComponentService(repo, zap.NewNop())

	list, err := svc.List(context.Background(), models.ComponentCakeBase)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got != models.ComponentCakeBase {
		t.Errorf("тип = %q", got)
	}
	if list == nil {
		t.Error("пустой список должен быть не nil")
	}
}

func TestComponentDelete(t *testing.T) {
	found := func(ctx context.Context, id uuid.UUID) (*models.Component, error) {
		return &models.Component{ID: id}, nil
	}

	used := service.NewComponentService(&MockComponentRepo{
		GetByIDFunc:      found,
		IsReferencedFunc: func(ctx context.Context, id uuid.UUID) (bool, error) { return true, nil },
	}, zap.NewNop())
	if err := used.Delete(asManager(), uuid.New()); !errors.Is(err, service.ErrComponentInUse) {
		t.Errorf("используемый компонент: error = %v", err)
	}

	racing := service.NewComponentService(&MockComponentRepo{
		GetByIDFunc: found,
		DeleteFunc:  func(ctx context.Context, id uuid.UUID) (bool, error) { return false, repository.ErrReferenced },
	}, zap.NewNop())
	if err := racing.Delete(asManager(), uuid.New()); !errors.Is(err, service.ErrComponentInUse) {
		t.Errorf("нарушение FK: error = %v", err)
	}

	missing := service.NewComponentService(&MockComponentRepo{}, zap.NewNop())
	if err := missing.Delete(asManager(), uuid.New()); !errors.Is(err, service.ErrComponentNotFound) {
		t.Errorf("несуществующий компонент: error = %v", err)
	}

	ok := service.NewComponentService(&MockComponentRepo{GetByIDFunc: found}, zap.NewNop())
	if err := ok.Delete(asManager(), uuid.New()); err != nil {
		t.Errorf("error = %v", err)
	}
}
