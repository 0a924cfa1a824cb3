package meals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/mesafood/mesafood-backend/pkg/db/models"
	pkgerrors "github.com/mesafood/mesafood-backend/pkg/errors"
	"github.com/mesafood/mesafood-backend/pkg/gather"
	"github.com/mesafood/mesafood-backend/pkg/storage/gcs"
)

const mealImagePrefix = "meals"

type mealRepository interface {
	Create(ctx context.Context, tx *gorm.DB, meal *models.Meal) error
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Meal, error)
	ListActive(ctx context.Context) ([]models.Meal, error)
	Save(ctx context.Context, meal *models.Meal) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type restaurantFinder interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type blobStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	ResolveURL(ctx context.Context, key string) (string, error)
}

// Service exposes meal operations.
type Service interface {
	Create(ctx context.Context, restaurantID uuid.UUID, input CreateInput) (*MealDTO, error)
	ListAll(ctx context.Context) ([]MealDTO, error)
	GetOne(ctx context.Context, id uuid.UUID) (*MealDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*MealDTO, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo        mealRepository
	restaurants restaurantFinder
	tx          txRunner
	blobs       blobStore
	now         func() time.Time
}

// NewService builds a meal service with the provided collaborators.
func NewService(repo mealRepository, restaurants restaurantFinder, tx txRunner, blobs blobStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("meal repository required")
	}
	if restaurants == nil {
		return nil, fmt.Errorf("restaurant finder required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	return &service{
		repo:        repo,
		restaurants: restaurants,
		tx:          tx,
		blobs:       blobs,
		now:         time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, restaurantID uuid.UUID, input CreateInput) (*MealDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than 0")
	}

	restaurant, err := s.restaurants.FindActiveByID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("restaurant with id %s not found", restaurantID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}

	// Blobs go out first; if the transaction below fails they are deleted
	// best-effort so no orphaned objects accumulate.
	uploadedKeys := make([]string, 0, len(input.Images))
	images := make([]models.MealImage, 0, len(input.Images))
	for _, upload := range input.Images {
		key := gcs.BuildObjectKey(mealImagePrefix, upload.FileName, s.now())
		if _, err := s.blobs.Upload(ctx, key, upload.ContentType, upload.Data); err != nil {
			s.cleanupBlobs(ctx, uploadedKeys)
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload meal image")
		}
		uploadedKeys = append(uploadedKeys, key)
		images = append(images, models.MealImage{ImageKey: key})
	}

	meal := &models.Meal{
		Name:         input.Name,
		Price:        input.Price,
		RestaurantID: restaurantID,
		Images:       images,
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, meal)
	})
	if err != nil {
		if cleanupErr := s.cleanupBlobs(ctx, uploadedKeys); cleanupErr != nil {
			err = multierr.Append(err, cleanupErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create meal")
	}

	meal.Restaurant = restaurant
	return s.toDTO(ctx, meal)
}

func (s *service) ListAll(ctx context.Context) ([]MealDTO, error) {
	meals, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list meals")
	}

	keys := make([]string, 0, len(meals)*2)
	seen := make(map[string]struct{})
	for i := range meals {
		for _, key := range BlobKeys(&meals[i]) {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}

	urls, err := gather.Map(ctx, keys, s.blobs.ResolveURL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve meal image urls")
	}

	dtos := make([]MealDTO, 0, len(meals))
	for i := range meals {
		dtos = append(dtos, *FromModel(&meals[i], urls))
	}
	return dtos, nil
}

func (s *service) GetOne(ctx context.Context, id uuid.UUID) (*MealDTO, error) {
	meal, err := s.loadMeal(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, meal)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*MealDTO, error) {
	meal, err := s.loadMeal(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		meal.Name = *input.Name
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than 0")
		}
		meal.Price = *input.Price
	}

	if err := s.repo.Save(ctx, meal); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update meal")
	}
	return s.toDTO(ctx, meal)
}

func (s *service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("meal with id %s not found", id))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete meal")
	}
	return nil
}

func (s *service) loadMeal(ctx context.Context, id uuid.UUID) (*models.Meal, error) {
	meal, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("meal with id %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load meal")
	}
	return meal, nil
}

func (s *service) toDTO(ctx context.Context, meal *models.Meal) (*MealDTO, error) {
	urls, err := gather.Map(ctx, BlobKeys(meal), s.blobs.ResolveURL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve meal image urls")
	}
	return FromModel(meal, urls), nil
}

func (s *service) cleanupBlobs(ctx context.Context, keys []string) error {
	var combined error
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			combined = multierr.Append(combined, fmt.Errorf("delete blob %s: %w", key, err))
		}
	}
	return combined
}
