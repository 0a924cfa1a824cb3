package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesafood/mesafood-backend/pkg/enums"
)

// Review is a user's rating of a restaurant. Creating or updating a review
// also recomputes the restaurant's persisted rating.
type Review struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID          `gorm:"column:restaurant_id;type:uuid;not null"`
	UserID       uuid.UUID          `gorm:"column:user_id;type:uuid;not null"`
	Comment      string             `gorm:"column:comment;not null"`
	Rating       float64            `gorm:"column:rating;not null"`
	Status       enums.RecordStatus `gorm:"column:status;type:text;not null;default:active"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
