package restaurants

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesafood/mesafood-backend/pkg/db/models"
	"github.com/mesafood/mesafood-backend/pkg/types"
)

// RestaurantDTO is the transport shape; ImageURL is always resolved, never a
// raw blob key.
type RestaurantDTO struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Address   string      `json:"address"`
	Rating    float64     `json:"rating"`
	ImageURL  string      `json:"image_url"`
	Reviews   []ReviewDTO `json:"reviews,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ReviewDTO is the transport shape for a single review.
type ReviewDTO struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	UserID       uuid.UUID `json:"user_id"`
	Comment      string    `json:"comment"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateInput holds the data accepted by Create.
type CreateInput struct {
	Name    string
	Address string
	Image   *types.Upload
}

// UpdateInput captures the allowed restaurant mutations.
type UpdateInput struct {
	Name    *string
	Address *string
	Image   *types.Upload
}

// CreateReviewInput holds the data accepted by CreateReview.
type CreateReviewInput struct {
	Comment string
	Rating  float64
}

// UpdateReviewInput captures the allowed review mutations.
type UpdateReviewInput struct {
	Comment *string
	Rating  *float64
}

func fromModel(r *models.Restaurant, imageURL string) *RestaurantDTO {
	if r == nil {
		return nil
	}
	dto := &RestaurantDTO{
		ID:        r.ID,
		Name:      r.Name,
		Address:   r.Address,
		Rating:    r.Rating,
		ImageURL:  imageURL,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	for _, review := range r.Reviews {
		dto.Reviews = append(dto.Reviews, *reviewFromModel(&review))
	}
	return dto
}

func reviewFromModel(r *models.Review) *ReviewDTO {
	if r == nil {
		return nil
	}
	return &ReviewDTO{
		ID:           r.ID,
		RestaurantID: r.RestaurantID,
		UserID:       r.UserID,
		Comment:      r.Comment,
		Rating:       r.Rating,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
