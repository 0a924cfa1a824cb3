package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/mesafood/mesafood-backend/api/responses"
	"github.com/mesafood/mesafood-backend/api/validators"
	mealsvc "github.com/mesafood/mesafood-backend/internal/meals"
	"github.com/mesafood/mesafood-backend/pkg/config"
	pkgerrors "github.com/mesafood/mesafood-backend/pkg/errors"
	"github.com/mesafood/mesafood-backend/pkg/logger"
	"github.com/mesafood/mesafood-backend/pkg/types"
)

const mealImgsField = "mealImgs"

// CreateMeal adds a meal with its images under the restaurant named by the
// path id; admin only.
func CreateMeal(svc mealsvc.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurantID, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := decodeMealCreate(r, media)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meal, err := svc.Create(r.Context(), restaurantID, *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message": "Meal has been created",
			"meal":    meal,
		})
	}
}

// ListMeals returns every active meal with its restaurant and images.
func ListMeals(svc mealsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meals, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"results": len(meals),
			"meals":   meals,
		})
	}
}

// GetMeal returns one active meal.
func GetMeal(svc mealsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		meal, err := svc.GetOne(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message": "Meal retrieved successfully",
			"meal":    meal,
		})
	}
}

// UpdateMeal mutates name and price; admin only.
func UpdateMeal(svc mealsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateMealRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Name == nil && payload.Price == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "nothing to update"))
			return
		}

		meal, err := svc.Update(r.Context(), id, mealsvc.UpdateInput{
			Name:  payload.Name,
			Price: payload.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message": fmt.Sprintf("Meal with id:%s, has been updated", id),
			"meal":    meal,
		})
	}
}

// DeleteMeal soft-deletes a meal; admin only.
func DeleteMeal(svc mealsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SoftDelete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message": fmt.Sprintf("Meal with id:%s, has been deleted", id),
		})
	}
}

type createMealRequest struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"required,gt=0"`
}

type updateMealRequest struct {
	Name  *string  `json:"name,omitempty"`
	Price *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
}

func decodeMealCreate(r *http.Request, media config.MediaConfig) (*mealsvc.CreateInput, error) {
	if !validators.IsMultipart(r) {
		var payload createMealRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return &mealsvc.CreateInput{Name: payload.Name, Price: payload.Price}, nil
	}

	if err := validators.ParseMultipartForm(r, media.MaxUploadMB); err != nil {
		return nil, err
	}
	images, err := validators.FormFiles(r, mealImgsField, media.MaxUploadMB)
	if err != nil {
		return nil, err
	}

	name := validators.SanitizeString(r.FormValue("name"), 255)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "price must be numeric")
	}

	return &mealsvc.CreateInput{Name: name, Price: price, Images: images}, nil
}
