package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/iksoll/VelvetCake/internal/models"
	"github.com/iksoll/VelvetCake/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCart struct {
	addedProduct uuid.UUID
	addedQty     int
	setQty       int
	cleared      bool
	err          error
}

func (f *fakeCart) Get(ctx context.Context) (*service.Cart, error) {
	return &service.Cart{Items: []models.CartItem{}, Total: decimal.Zero}, f.err
}

func (f *fakeCart) Add(ctx context.Context, productID uuid.UUID, quantity int) (*service.Cart, error) {
	f.addedProduct, f.addedQty = productID, quantity
	if f.err != nil {
		return nil, f.err
	}
	return &service.Cart{Items: []models.CartItem{}, Total: decimal.NewFromInt(450)}, nil
}

func (f *fakeCart) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) (*service.Cart, error) {
	f.setQty = quantity
	return &service.Cart{Items: []models.CartItem{}, Total: decimal.Zero}, f.err
}

func (f *fakeCart) Remove(ctx context.Context, productID uuid.UUID) (*service.Cart, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.Cart{Items: []models.CartItem{}, Total: decimal.Zero}, nil
}

func (f *fakeCart) Clear(ctx context.Context) error {
	f.cleared = true
	return f.err
}

func cartRouter(svc CartService) *gin.Engine {
	h := NewCartHandler(svc, zap.NewNop())
	r := gin.New()
	r.GET("/cart", h.Get)
	r.DELETE("/cart", h.Clear)
	r.POST("/cart/items", h.Add)
	r.PUT("/cart/items/:productId", h.SetQuantity)
	r.DELETE("/cart/items/:productId", h.Remove)
	return r
}

func TestCartHandler_Add(t *testing.T) {
	svc := &fakeCart{}
	r := cartRouter(svc)
	pid := uuid.New()

	w := doJSON(r, http.MethodPost, "/cart/items", `{"productId":"`+pid.String()+`","quantity":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pid, svc.addedProduct)
	assert.Equal(t, 2, svc.addedQty)

	var cart service.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(450)))

	// количество можно не указывать
	w = doJSON(r, http.MethodPost, "/cart/items", `{"productId":"`+pid.String()+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, svc.addedQty)

	w = doJSON(r, http.MethodPost, "/cart/items", `{"quantity":1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	e := decodeError(t, w)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "productId", e.Fields[0].Field)
	assert.Equal(t, "required", e.Fields[0].Tag)

	w = doJSON(r, http.MethodPost, "/cart/items", `{"productId":"`+pid.String()+`","quantity":-1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "gte", decodeError(t, w).Fields[0].Tag)

	svc.err = &service.ValidationError{Message: "Товар не найден"}
	w = doJSON(r, http.MethodPost, "/cart/items", `{"productId":"`+uuid.NewString()+`"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Товар не найден", decodeError(t, w).Message)
}

func TestCartHandler_SetQuantityAndRemove(t *testing.T) {
	svc := &fakeCart{}
	r := cartRouter(svc)

	w := doJSON(r, http.MethodPut, "/cart/items/"+uuid.NewString(), `{"quantity":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, svc.setQty)

	w = doJSON(r, http.MethodPut, "/cart/items/nope", `{"quantity":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = service.ErrCartItemNotFound
	w = doJSON(r, http.MethodDelete, "/cart/items/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Товара нет в корзине", decodeError(t, w).Message)
}

func TestCartHandler_Clear(t *testing.T) {
	svc := &fakeCart{}
	r := cartRouter(svc)

	w := doJSON(r, http.MethodDelete, "/cart", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, svc.cleared)

	svc.err = service.ErrUnauthorized
	w = doJSON(r, http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
