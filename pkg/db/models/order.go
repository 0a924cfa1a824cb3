package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesafood/mesafood-backend/pkg/enums"
)

// Order is a user's purchase of a meal. TotalPrice is frozen at creation time
// (quantity x meal price, rounded to 2 decimals) and never recomputed, even if
// the meal price changes later.
type Order struct {
	ID         uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MealID     uuid.UUID         `gorm:"column:meal_id;type:uuid;not null"`
	Meal       *Meal             `gorm:"foreignKey:MealID"`
	UserID     uuid.UUID         `gorm:"column:user_id;type:uuid;not null"`
	Quantity   int               `gorm:"column:quantity;not null"`
	TotalPrice float64           `gorm:"column:total_price;type:numeric(10,2);not null"`
	Status     enums.OrderStatus `gorm:"column:status;type:text;not null;default:active"`
	CreatedAt  time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
