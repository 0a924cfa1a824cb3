package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesafood/mesafood-backend/pkg/db/models"
	"github.com/mesafood/mesafood-backend/pkg/enums"
	"github.com/mesafood/mesafood-backend/pkg/types"
)

// UserDTO is the transport shape that omits credentials and raw image keys.
type UserDTO struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Role            *enums.UserRole `json:"role,omitempty"`
	ProfileImageURL *string         `json:"profile_image_url,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AuthResultDTO carries a freshly minted token together with the user subset.
type AuthResultDTO struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}

// SignupInput holds the data accepted by Signup.
type SignupInput struct {
	Name         string
	Email        string
	Password     string
	Role         *enums.UserRole
	ProfileImage *types.Upload
}

// LoginInput holds the credentials accepted by Login.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateInput captures the allowed user mutations. Password changes require
// both the current and the new password.
type UpdateInput struct {
	Name            *string
	NewPassword     string
	CurrentPassword string
	ProfileImage    *types.Upload
}

func fromModel(u *models.User, profileImageURL *string) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		ProfileImageURL: profileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
