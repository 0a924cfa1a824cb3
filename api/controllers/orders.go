package controllers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/mesafood/mesafood-backend/api/responses"
	"github.com/mesafood/mesafood-backend/api/validators"
	ordersvc "github.com/mesafood/mesafood-backend/internal/orders"
	pkgerrors "github.com/mesafood/mesafood-backend/pkg/errors"
	"github.com/mesafood/mesafood-backend/pkg/logger"
	"github.com/mesafood/mesafood-backend/pkg/types"
)

// CreateOrder places an order for the authenticated user.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mealID, err := uuid.Parse(payload.MealID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid mealId"))
			return
		}

		order, err := svc.Create(r.Context(), actor, ordersvc.CreateInput{
			MealID:   mealID,
			Quantity: payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message": "Order has been created",
			"order":   order,
		})
	}
}

// ListMyOrders returns the caller's active orders in the rich shape.
func ListMyOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.ListMine(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"results": len(orders),
			"orders":  orders,
		})
	}
}

// GetOrder returns one of the caller's active orders.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOne(r.Context(), actor, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message": "Order retrieved successfully",
			"order":   order,
		})
	}
}

// CompleteOrder marks the caller's active order as completed.
func CompleteOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Complete(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message": fmt.Sprintf("Order with id:%s, has been completed", id),
		})
	}
}

// CancelOrder marks the caller's active order as cancelled.
func CancelOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Cancel(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message": fmt.Sprintf("Order with id:%s, has been deleted", id),
		})
	}
}

type createOrderRequest struct {
	MealID   string `json:"mealId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required"`
}
