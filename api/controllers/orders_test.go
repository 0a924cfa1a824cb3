package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesafood/mesafood-backend/api/middleware"
	ordersvc "github.com/mesafood/mesafood-backend/internal/orders"
	pkgerrors "github.com/mesafood/mesafood-backend/pkg/errors"
)

type stubOrdersService struct {
	createInput *ordersvc.CreateInput
	completed   []uuid.UUID
	cancelled   []uuid.UUID
	err         error
}

func (s *stubOrdersService) Create(_ context.Context, _ uuid.UUID, input ordersvc.CreateInput) (*ordersvc.OrderDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.createInput = &input
	return &ordersvc.OrderDTO{ID: uuid.New(), Quantity: input.Quantity}, nil
}

func (s *stubOrdersService) ListMine(context.Context, uuid.UUID) ([]ordersvc.OrderDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []ordersvc.OrderDTO{{ID: uuid.New()}, {ID: uuid.New()}}, nil
}

func (s *stubOrdersService) GetOne(context.Context, uuid.UUID, uuid.UUID) (*ordersvc.OrderDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ordersvc.OrderDTO{ID: uuid.New()}, nil
}

func (s *stubOrdersService) Complete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.completed = append(s.completed, id)
	return nil
}

func (s *stubOrdersService) Cancel(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.cancelled = append(s.cancelled, id)
	return nil
}

func authedRequest(method, path, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestCreateOrderSuccess(t *testing.T) {
	svc := &stubOrdersService{}
	handler := CreateOrder(svc, nil)

	mealID := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/orders", `{"mealId":"`+mealID.String()+`","quantity":3}`)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Order has been created", body["message"])
	require.NotNil(t, svc.createInput)
	assert.Equal(t, mealID, svc.createInput.MealID)
	assert.Equal(t, 3, svc.createInput.Quantity)
}

func TestCreateOrderRejectsMalformedMealID(t *testing.T) {
	handler := CreateOrder(&stubOrdersService{}, nil)

	req := authedRequest(http.MethodPost, "/api/v1/orders", `{"mealId":"not-a-uuid","quantity":1}`)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListMyOrdersReportsCount(t *testing.T) {
	handler := ListMyOrders(&stubOrdersService{}, nil)

	req := authedRequest(http.MethodGet, "/api/v1/users/orders", "")
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 2, body["results"])
}

func TestCompleteOrderMessage(t *testing.T) {
	svc := &stubOrdersService{}
	handler := CompleteOrder(svc, nil)

	id := uuid.New()
	req := authedRequest(http.MethodPatch, "/api/v1/orders/"+id.String(), "")
	req = withPathParam(req, "id", id.String())
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["message"], "has been completed")
	assert.Equal(t, []uuid.UUID{id}, svc.completed)
}

func TestTransitionConflictRendersAs409(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeConflict, "order is already cancelled")}
	handler := CancelOrder(svc, nil)

	id := uuid.New()
	req := authedRequest(http.MethodDelete, "/api/v1/orders/"+id.String(), "")
	req = withPathParam(req, "id", id.String())
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "fail", body["status"])
}

func TestGetOrderWithoutContextIsUnauthorized(t *testing.T) {
	handler := GetOrder(&stubOrdersService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/orders/"+uuid.NewString(), nil)
	req = withPathParam(req, "id", uuid.NewString())
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
