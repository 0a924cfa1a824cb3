package meals

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesafood/mesafood-backend/pkg/db/models"
	"github.com/mesafood/mesafood-backend/pkg/types"
)

// MealDTO is the transport shape; every image reference is a resolved URL.
type MealDTO struct {
	ID           uuid.UUID             `json:"id"`
	Name         string                `json:"name"`
	Price        float64               `json:"price"`
	RestaurantID uuid.UUID             `json:"restaurant_id"`
	Restaurant   *RestaurantSummaryDTO `json:"restaurant,omitempty"`
	ImageURLs    []string              `json:"image_urls"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// RestaurantSummaryDTO is the embedded restaurant subset returned with meals
// and orders.
type RestaurantSummaryDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Address  string    `json:"address"`
	Rating   float64   `json:"rating"`
	ImageURL string    `json:"image_url"`
}

// CreateInput holds the data accepted by Create.
type CreateInput struct {
	Name   string
	Price  float64
	Images []types.Upload
}

// UpdateInput captures the allowed meal mutations; images are fixed at
// creation time.
type UpdateInput struct {
	Name  *string
	Price *float64
}

// FromModel assembles a MealDTO, exchanging stored keys for the URLs in
// urlsByKey.
func FromModel(m *models.Meal, urlsByKey map[string]string) *MealDTO {
	if m == nil {
		return nil
	}
	dto := &MealDTO{
		ID:           m.ID,
		Name:         m.Name,
		Price:        m.Price,
		RestaurantID: m.RestaurantID,
		ImageURLs:    make([]string, 0, len(m.Images)),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	for _, image := range m.Images {
		dto.ImageURLs = append(dto.ImageURLs, urlsByKey[image.ImageKey])
	}
	if m.Restaurant != nil {
		dto.Restaurant = &RestaurantSummaryDTO{
			ID:       m.Restaurant.ID,
			Name:     m.Restaurant.Name,
			Address:  m.Restaurant.Address,
			Rating:   m.Restaurant.Rating,
			ImageURL: urlsByKey[m.Restaurant.ImageKey],
		}
	}
	return dto
}

// BlobKeys returns every blob key referenced by the meal and its restaurant.
func BlobKeys(m *models.Meal) []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.Images)+1)
	for _, image := range m.Images {
		keys = append(keys, image.ImageKey)
	}
	if m.Restaurant != nil && m.Restaurant.ImageKey != "" {
		keys = append(keys, m.Restaurant.ImageKey)
	}
	return keys
}
