package controllers

import (
	"fmt"
	"net/http"

	"github.com/mesafood/mesafood-backend/api/responses"
	"github.com/mesafood/mesafood-backend/api/validators"
	usersvc "github.com/mesafood/mesafood-backend/internal/users"
	"github.com/mesafood/mesafood-backend/pkg/config"
	"github.com/mesafood/mesafood-backend/pkg/enums"
	pkgerrors "github.com/mesafood/mesafood-backend/pkg/errors"
	"github.com/mesafood/mesafood-backend/pkg/logger"
	"github.com/mesafood/mesafood-backend/pkg/types"
)

const userProfileImgField = "userProfileImg"

// Signup registers a new account. The request may be a JSON body or a
// multipart form carrying the optional profile image.
func Signup(svc usersvc.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := decodeSignup(r, media)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Signup(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message": "User has been created",
			"token":   result.Token,
			"user":    result.User,
		})
	}
}

// Login exchanges credentials for a JWT.
func Login(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), usersvc.LoginInput{
			Email:    payload.Email,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"token": result.Token,
			"user":  result.User,
		})
	}
}

// UpdateUser mutates the authenticated user's own account.
func UpdateUser(svc usersvc.Service, media config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := decodeUserUpdate(r, media)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Update(r.Context(), actor, target, *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message": "User has been updated",
			"user":    user,
		})
	}
}

// DeleteUser soft-deletes the authenticated user's own account.
func DeleteUser(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SoftDelete(r.Context(), actor, target); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, types.Envelope{
			"message": fmt.Sprintf("User with id: %s has been deleted", target),
		})
	}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Name            *string `json:"name,omitempty"`
	NewPassword     string  `json:"newPassword,omitempty"`
	CurrentPassword string  `json:"currentPassword,omitempty"`
}

func decodeSignup(r *http.Request, media config.MediaConfig) (*usersvc.SignupInput, error) {
	if !validators.IsMultipart(r) {
		var payload signupRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		role, err := parseOptionalRole(payload.Role)
		if err != nil {
			return nil, err
		}
		return &usersvc.SignupInput{
			Name:     payload.Name,
			Email:    payload.Email,
			Password: payload.Password,
			Role:     role,
		}, nil
	}

	if err := validators.ParseMultipartForm(r, media.MaxUploadMB); err != nil {
		return nil, err
	}
	role, err := parseOptionalRole(r.FormValue("role"))
	if err != nil {
		return nil, err
	}
	profileImage, err := validators.FormFile(r, userProfileImgField, media.MaxUploadMB)
	if err != nil {
		return nil, err
	}
	input := &usersvc.SignupInput{
		Name:         validators.SanitizeString(r.FormValue("name"), 255),
		Email:        validators.SanitizeString(r.FormValue("email"), 255),
		Password:     r.FormValue("password"),
		Role:         role,
		ProfileImage: profileImage,
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email and password are required")
	}
	return input, nil
}

func decodeUserUpdate(r *http.Request, media config.MediaConfig) (*usersvc.UpdateInput, error) {
	if !validators.IsMultipart(r) {
		var payload updateUserRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return &usersvc.UpdateInput{
			Name:            payload.Name,
			NewPassword:     payload.NewPassword,
			CurrentPassword: payload.CurrentPassword,
		}, nil
	}

	if err := validators.ParseMultipartForm(r, media.MaxUploadMB); err != nil {
		return nil, err
	}
	profileImage, err := validators.FormFile(r, userProfileImgField, media.MaxUploadMB)
	if err != nil {
		return nil, err
	}
	input := &usersvc.UpdateInput{
		NewPassword:     r.FormValue("newPassword"),
		CurrentPassword: r.FormValue("currentPassword"),
		ProfileImage:    profileImage,
	}
	if name := validators.SanitizeString(r.FormValue("name"), 255); name != "" {
		input.Name = &name
	}
	return input, nil
}

func parseOptionalRole(raw string) (*enums.UserRole, error) {
	if raw == "" {
		return nil, nil
	}
	role, err := enums.ParseUserRole(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
	}
	return &role, nil
}
