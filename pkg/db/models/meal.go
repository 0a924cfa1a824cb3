package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesafood/mesafood-backend/pkg/enums"
)

// Meal belongs to a restaurant and carries zero or more images.
type Meal struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string             `gorm:"column:name;not null"`
	Price        float64            `gorm:"column:price;type:numeric(10,2);not null"`
	RestaurantID uuid.UUID          `gorm:"column:restaurant_id;type:uuid;not null"`
	Restaurant   *Restaurant        `gorm:"foreignKey:RestaurantID"`
	Images       []MealImage        `gorm:"foreignKey:MealID"`
	Status       enums.RecordStatus `gorm:"column:status;type:text;not null;default:active"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
