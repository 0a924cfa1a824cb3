package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesafood/mesafood-backend/pkg/enums"
)

// User represents a marketplace account. Name and email are stored lowercased
// and trimmed; ProfileImageKey is a blob-store key, never a resolved URL.
type User struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string             `gorm:"column:name;not null"`
	Email           string             `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash    string             `gorm:"column:password_hash;not null"`
	Role            *enums.UserRole    `gorm:"column:role;type:text"`
	ProfileImageKey *string            `gorm:"column:profile_image_key"`
	Status          enums.RecordStatus `gorm:"column:status;type:text;not null;default:active"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
