package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesafood/mesafood-backend/internal/meals"
	"github.com/mesafood/mesafood-backend/pkg/db/models"
	"github.com/mesafood/mesafood-backend/pkg/enums"
)

// OrderDTO is the transport shape: the order plus its meal, the meal's
// restaurant subset and every image resolved to a URL.
type OrderDTO struct {
	ID         uuid.UUID         `json:"id"`
	Quantity   int               `json:"quantity"`
	TotalPrice float64           `json:"total_price"`
	Status     enums.OrderStatus `json:"status"`
	Meal       *meals.MealDTO    `json:"meal,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// CreateInput holds the data accepted by Create.
type CreateInput struct {
	MealID   uuid.UUID
	Quantity int
}

func fromModel(o *models.Order, urlsByKey map[string]string) *OrderDTO {
	if o == nil {
		return nil
	}
	return &OrderDTO{
		ID:         o.ID,
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice,
		Status:     o.Status,
		Meal:       meals.FromModel(o.Meal, urlsByKey),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}
