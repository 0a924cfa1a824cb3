package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesafood/mesafood-backend/pkg/enums"
)

// Restaurant is a marketplace listing. Rating is derived from reviews via the
// pairwise-average rule and persisted alongside the row.
type Restaurant struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string             `gorm:"column:name;not null"`
	Address   string             `gorm:"column:address;not null"`
	Rating    float64            `gorm:"column:rating;not null;default:0"`
	ImageKey  string             `gorm:"column:image_key;not null"`
	Status    enums.RecordStatus `gorm:"column:status;type:text;not null;default:active"`
	Reviews   []Review           `gorm:"foreignKey:RestaurantID"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
