package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesafood/mesafood-backend/pkg/enums"
)

// MealImage references an uploaded blob for a meal. Rows are created together
// with the meal and never individually mutated.
type MealImage struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MealID    uuid.UUID          `gorm:"column:meal_id;type:uuid;not null"`
	ImageKey  string             `gorm:"column:image_key;not null"`
	Status    enums.RecordStatus `gorm:"column:status;type:text;not null;default:active"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
