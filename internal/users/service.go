package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesafood/mesafood-backend/pkg/auth"
	"github.com/mesafood/mesafood-backend/pkg/config"
	"github.com/mesafood/mesafood-backend/pkg/db"
	"github.com/mesafood/mesafood-backend/pkg/db/models"
	pkgerrors "github.com/mesafood/mesafood-backend/pkg/errors"
	"github.com/mesafood/mesafood-backend/pkg/security"
	"github.com/mesafood/mesafood-backend/pkg/storage/gcs"
	"github.com/mesafood/mesafood-backend/pkg/types"
)

const profileImagePrefix = "users"

type userRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindActiveByEmail(ctx context.Context, email string) (*models.User, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type blobStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	ResolveURL(ctx context.Context, key string) (string, error)
}

// Service exposes account operations.
type Service interface {
	Signup(ctx context.Context, input SignupInput) (*AuthResultDTO, error)
	Login(ctx context.Context, input LoginInput) (*AuthResultDTO, error)
	Update(ctx context.Context, actorID, targetID uuid.UUID, input UpdateInput) (*UserDTO, error)
	SoftDelete(ctx context.Context, actorID, targetID uuid.UUID) error
}

type service struct {
	repo        userRepository
	blobs       blobStore
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService builds a user service with the provided collaborators.
func NewService(repo userRepository, blobs blobStore, jwtCfg config.JWTConfig, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	return &service{
		repo:        repo,
		blobs:       blobs,
		jwtCfg:      jwtCfg,
		passwordCfg: passwordCfg,
		now:         time.Now,
	}, nil
}

func (s *service) Signup(ctx context.Context, input SignupInput) (*AuthResultDTO, error) {
	name := normalize(input.Name)
	email := normalize(input.Email)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	if input.Role != nil && !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var imageKey *string
	if input.ProfileImage != nil {
		key, err := s.uploadProfileImage(ctx, input.ProfileImage)
		if err != nil {
			return nil, err
		}
		imageKey = &key
	}

	user := &models.User{
		Name:            name,
		Email:           email,
		PasswordHash:    hash,
		Role:            input.Role,
		ProfileImageKey: imageKey,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if imageKey != nil {
			_ = s.blobs.Delete(ctx, *imageKey)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) || db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return s.authResult(ctx, user)
}

func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResultDTO, error) {
	email := normalize(input.Email)

	user, err := s.repo.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("user with email %s not found", email))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "email or password is wrong")
	}

	return s.authResult(ctx, user)
}

func (s *service) Update(ctx context.Context, actorID, targetID uuid.UUID, input UpdateInput) (*UserDTO, error) {
	if actorID != targetID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you can only update your own account")
	}

	user, err := s.repo.FindActiveByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if input.NewPassword != "" {
		// Equality is rejected before any hash comparison happens.
		if input.NewPassword == input.CurrentPassword {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "the new password cannot equal the current one")
		}
		ok, err := security.VerifyPassword(input.CurrentPassword, user.PasswordHash)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "the password is wrong")
		}
		hash, err := security.HashPassword(input.NewPassword, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}

	if input.Name != nil {
		name := normalize(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		user.Name = name
	}

	var previousKey *string
	if input.ProfileImage != nil {
		key, err := s.uploadProfileImage(ctx, input.ProfileImage)
		if err != nil {
			return nil, err
		}
		previousKey = user.ProfileImageKey
		user.ProfileImageKey = &key
	}

	if err := s.repo.Save(ctx, user); err != nil {
		if user.ProfileImageKey != nil && input.ProfileImage != nil {
			_ = s.blobs.Delete(ctx, *user.ProfileImageKey)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}

	if previousKey != nil {
		_ = s.blobs.Delete(ctx, *previousKey)
	}

	url, err := s.resolveProfileURL(ctx, user)
	if err != nil {
		return nil, err
	}
	return fromModel(user, url), nil
}

func (s *service) SoftDelete(ctx context.Context, actorID, targetID uuid.UUID) error {
	if actorID != targetID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "you can only delete your own account")
	}

	if err := s.repo.SoftDelete(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

func (s *service) authResult(ctx context.Context, user *models.User) (*AuthResultDTO, error) {
	token, err := auth.MintAccessToken(s.jwtCfg, s.now(), auth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	url, err := s.resolveProfileURL(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResultDTO{Token: token, User: fromModel(user, url)}, nil
}

func (s *service) uploadProfileImage(ctx context.Context, upload *types.Upload) (string, error) {
	key := gcs.BuildObjectKey(profileImagePrefix, upload.FileName, s.now())
	if _, err := s.blobs.Upload(ctx, key, upload.ContentType, upload.Data); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload profile image")
	}
	return key, nil
}

func (s *service) resolveProfileURL(ctx context.Context, user *models.User) (*string, error) {
	if user.ProfileImageKey == nil {
		return nil, nil
	}
	url, err := s.blobs.ResolveURL(ctx, *user.ProfileImageKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve profile image url")
	}
	return &url, nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
