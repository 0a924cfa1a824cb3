package controllers

import (
	"fmt"
	"net/http"

	"github.com/mesafood/mesafood-backend/api/responses"
	"github.com/mesafood/mesafood-backend/api/validators"
	restaurantsvc "github.com/mesafood/mesafood-backend/internal/restaurants"
	"github.com/mesafood/mesafood-backend/pkg/config"
	pkgerrors "github.com/mesafood/mesafood-backend/pkg/errors"
	"github.com/mesafood/mesafood-backend/pkg/logger"
	"github.com/mesafood/mesafood-backend/pkg/types"
)

const restaurantImgField = "restaurantImg"

// CreateRestaurant registers a restaurant; admin only.
func CreateRestaurant(svc restaurantsvc.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := decodeRestaurantCreate(r, media)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.Create(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message":    "Restaurant has been created",
			"restaurant": restaurant,
		})
	}
}

// ListRestaurants returns every active restaurant with its active reviews.
func ListRestaurants(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurants, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"results":     len(restaurants),
			"restaurants": restaurants,
		})
	}
}

// GetRestaurant returns one active restaurant.
func GetRestaurant(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.GetOne(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message":    "Restaurant retrieved successfully",
			"restaurant": restaurant,
		})
	}
}

// UpdateRestaurant mutates restaurant fields; admin only.
func UpdateRestaurant(svc restaurantsvc.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := decodeRestaurantUpdate(r, media)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		restaurant, err := svc.Update(r.Context(), id, *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message":    "Restaurant has been updated",
			"restaurant": restaurant,
		})
	}
}

// DeleteRestaurant soft-deletes a restaurant; admin only.
func DeleteRestaurant(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
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
			"message": fmt.Sprintf("Restaurant with id: %s, has been deleted", id),
		})
	}
}

// CreateReview adds a review to a restaurant and folds its rating into the
// restaurant's.
func CreateReview(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		restaurantID, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createReviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		review, err := svc.CreateReview(r.Context(), restaurantID, actor, restaurantsvc.CreateReviewInput{
			Comment: payload.Comment,
			Rating:  payload.Rating,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message": fmt.Sprintf("Review to restaurant: %s, has been created", restaurantID),
			"review":  review,
		})
	}
}

// UpdateReview mutates the caller's own review, refreshing the restaurant
// rating with the review's previous value.
func UpdateReview(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		restaurantID, err := pathID(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		reviewID, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateReviewRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Comment == nil && payload.Rating == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "nothing to update"))
			return
		}

		review, err := svc.UpdateReview(r.Context(), restaurantID, reviewID, actor, restaurantsvc.UpdateReviewInput{
			Comment: payload.Comment,
			Rating:  payload.Rating,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message": fmt.Sprintf("Review with id: %s, has been updated", reviewID),
			"review":  review,
		})
	}
}

// DeleteReview soft-deletes the caller's own review.
func DeleteReview(svc restaurantsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		restaurantID, err := pathID(r, "restaurantId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		reviewID, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SoftDeleteReview(r.Context(), restaurantID, reviewID, actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message": fmt.Sprintf("Review with id: %s, has been deleted", reviewID),
		})
	}
}

type createReviewRequest struct {
	Comment string  `json:"comment" validate:"required"`
	Rating  float64 `json:"rating" validate:"required,gte=0,lte=5"`
}

type updateReviewRequest struct {
	Comment *string  `json:"comment,omitempty"`
	Rating  *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
}

func decodeRestaurantCreate(r *http.Request, media config.MediaConfig) (*restaurantsvc.CreateInput, error) {
	if !validators.IsMultipart(r) {
		var payload createRestaurantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return &restaurantsvc.CreateInput{Name: payload.Name, Address: payload.Address}, nil
	}

	if err := validators.ParseMultipartForm(r, media.MaxUploadMB); err != nil {
		return nil, err
	}
	image, err := validators.FormFile(r, restaurantImgField, media.MaxUploadMB)
	if err != nil {
		return nil, err
	}
	input := &restaurantsvc.CreateInput{
		Name:    validators.SanitizeString(r.FormValue("name"), 255),
		Address: validators.SanitizeString(r.FormValue("address"), 255),
		Image:   image,
	}
	if input.Name == "" || input.Address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and address are required")
	}
	return input, nil
}

func decodeRestaurantUpdate(r *http.Request, media config.MediaConfig) (*restaurantsvc.UpdateInput, error) {
	if !validators.IsMultipart(r) {
		var payload updateRestaurantRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return &restaurantsvc.UpdateInput{Name: payload.Name, Address: payload.Address}, nil
	}

	if err := validators.ParseMultipartForm(r, media.MaxUploadMB); err != nil {
		return nil, err
	}
	image, err := validators.FormFile(r, restaurantImgField, media.MaxUploadMB)
	if err != nil {
		return nil, err
	}
	input := &restaurantsvc.UpdateInput{Image: image}
	if name := validators.SanitizeString(r.FormValue("name"), 255); name != "" {
		input.Name = &name
	}
	if address := validators.SanitizeString(r.FormValue("address"), 255); address != "" {
		input.Address = &address
	}
	return input, nil
}

type createRestaurantRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

type updateRestaurantRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
}
