package restaurants

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mesafood/mesafood-backend/pkg/config"
	"github.com/mesafood/mesafood-backend/pkg/db/models"
	pkgerrors "github.com/mesafood/mesafood-backend/pkg/errors"
	"github.com/mesafood/mesafood-backend/pkg/gather"
	"github.com/mesafood/mesafood-backend/pkg/storage/gcs"
	"github.com/mesafood/mesafood-backend/pkg/types"
)

const restaurantImagePrefix = "restaurants"

type restaurantRepository interface {
	Create(ctx context.Context, restaurant *models.Restaurant) error
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error)
	ListActive(ctx context.Context) ([]models.Restaurant, error)
	Save(ctx context.Context, restaurant *models.Restaurant) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	UpdateRating(ctx context.Context, tx *gorm.DB, id uuid.UUID, rating float64) error
}

type reviewRepository interface {
	Create(ctx context.Context, tx *gorm.DB, review *models.Review) error
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Save(ctx context.Context, tx *gorm.DB, review *models.Review) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type blobStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	ResolveURL(ctx context.Context, key string) (string, error)
}

// Service exposes restaurant and review operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*RestaurantDTO, error)
	ListAll(ctx context.Context) ([]RestaurantDTO, error)
	GetOne(ctx context.Context, id uuid.UUID) (*RestaurantDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*RestaurantDTO, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	CreateReview(ctx context.Context, restaurantID, userID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error)
	UpdateReview(ctx context.Context, restaurantID, reviewID, actorID uuid.UUID, input UpdateReviewInput) (*ReviewDTO, error)
	SoftDeleteReview(ctx context.Context, restaurantID, reviewID, actorID uuid.UUID) error
}

type service struct {
	repo     restaurantRepository
	reviews  reviewRepository
	tx       txRunner
	blobs    blobStore
	mediaCfg config.MediaConfig
	now      func() time.Time
}

// NewService builds a restaurant service with the provided collaborators.
func NewService(repo restaurantRepository, reviews reviewRepository, tx txRunner, blobs blobStore, mediaCfg config.MediaConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("restaurant repository required")
	}
	if reviews == nil {
		return nil, fmt.Errorf("review repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	return &service{
		repo:     repo,
		reviews:  reviews,
		tx:       tx,
		blobs:    blobs,
		mediaCfg: mediaCfg,
		now:      time.Now,
	}, nil
}

// pairwiseRating reproduces the source's derived-rating rule: the plain
// average of the current restaurant rating and one review rating, rounded to
// one decimal. It is deliberately not a running mean over all reviews.
func pairwiseRating(current, review float64) float64 {
	sum := decimal.NewFromFloat(current).Add(decimal.NewFromFloat(review))
	return sum.Div(decimal.NewFromInt(2)).Round(1).InexactFloat64()
}

func (s *service) Create(ctx context.Context, input CreateInput) (*RestaurantDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}

	imageKey := s.mediaCfg.DefaultRestaurantImgKey
	uploaded := false
	if input.Image != nil {
		key, err := s.uploadImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		imageKey = key
		uploaded = true
	}

	restaurant := &models.Restaurant{
		Name:     input.Name,
		Address:  input.Address,
		ImageKey: imageKey,
	}
	if err := s.repo.Create(ctx, restaurant); err != nil {
		if uploaded {
			_ = s.blobs.Delete(ctx, imageKey)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create restaurant")
	}

	return s.toDTO(ctx, restaurant)
}

func (s *service) ListAll(ctx context.Context) ([]RestaurantDTO, error) {
	restaurants, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list restaurants")
	}

	keysByID := make(map[uuid.UUID]string, len(restaurants))
	ids := make([]uuid.UUID, 0, len(restaurants))
	for _, restaurant := range restaurants {
		ids = append(ids, restaurant.ID)
		keysByID[restaurant.ID] = restaurant.ImageKey
	}

	urls, err := gather.Map(ctx, ids, func(ctx context.Context, id uuid.UUID) (string, error) {
		return s.blobs.ResolveURL(ctx, keysByID[id])
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve restaurant image urls")
	}

	dtos := make([]RestaurantDTO, 0, len(restaurants))
	for i := range restaurants {
		dtos = append(dtos, *fromModel(&restaurants[i], urls[restaurants[i].ID]))
	}
	return dtos, nil
}

func (s *service) GetOne(ctx context.Context, id uuid.UUID) (*RestaurantDTO, error) {
	restaurant, err := s.loadRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, restaurant)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*RestaurantDTO, error) {
	restaurant, err := s.loadRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		restaurant.Name = *input.Name
	}
	if input.Address != nil {
		if *input.Address == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address cannot be empty")
		}
		restaurant.Address = *input.Address
	}

	previousKey := ""
	if input.Image != nil {
		key, err := s.uploadImage(ctx, input.Image)
		if err != nil {
			return nil, err
		}
		if restaurant.ImageKey != s.mediaCfg.DefaultRestaurantImgKey {
			previousKey = restaurant.ImageKey
		}
		restaurant.ImageKey = key
	}

	if err := s.repo.Save(ctx, restaurant); err != nil {
		if input.Image != nil {
			_ = s.blobs.Delete(ctx, restaurant.ImageKey)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update restaurant")
	}

	if previousKey != "" {
		_ = s.blobs.Delete(ctx, previousKey)
	}

	return s.toDTO(ctx, restaurant)
}

func (s *service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("restaurant with id %s not found", id))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete restaurant")
	}
	return nil
}

func (s *service) CreateReview(ctx context.Context, restaurantID, userID uuid.UUID, input CreateReviewInput) (*ReviewDTO, error) {
	restaurant, err := s.loadRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		RestaurantID: restaurantID,
		UserID:       userID,
		Comment:      input.Comment,
		Rating:       input.Rating,
	}

	newRating := pairwiseRating(restaurant.Rating, input.Rating)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.reviews.Create(ctx, tx, review); err != nil {
			return err
		}
		return s.repo.UpdateRating(ctx, tx, restaurantID, newRating)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}

	return reviewFromModel(review), nil
}

func (s *service) UpdateReview(ctx context.Context, restaurantID, reviewID, actorID uuid.UUID, input UpdateReviewInput) (*ReviewDTO, error) {
	review, err := s.loadReview(ctx, restaurantID, reviewID, actorID)
	if err != nil {
		return nil, err
	}
	restaurant, err := s.loadRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	// The derived rating uses the review's rating as it was before this
	// update; the new review rating only lands on the review row.
	newRestaurantRating := pairwiseRating(restaurant.Rating, review.Rating)

	if input.Comment != nil {
		review.Comment = *input.Comment
	}
	if input.Rating != nil {
		review.Rating = *input.Rating
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.reviews.Save(ctx, tx, review); err != nil {
			return err
		}
		return s.repo.UpdateRating(ctx, tx, restaurantID, newRestaurantRating)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update review")
	}

	return reviewFromModel(review), nil
}

func (s *service) SoftDeleteReview(ctx context.Context, restaurantID, reviewID, actorID uuid.UUID) error {
	if _, err := s.loadReview(ctx, restaurantID, reviewID, actorID); err != nil {
		return err
	}

	// The restaurant rating is intentionally left untouched here, matching
	// the established API behavior.
	if err := s.reviews.SoftDelete(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("review with id %s not found", reviewID))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

func (s *service) loadRestaurant(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	restaurant, err := s.repo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("restaurant with id %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant")
	}
	return restaurant, nil
}

func (s *service) loadReview(ctx context.Context, restaurantID, reviewID, actorID uuid.UUID) (*models.Review, error) {
	review, err := s.reviews.FindActiveByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("review with id %s not found", reviewID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if review.RestaurantID != restaurantID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("review with id %s not found", reviewID))
	}
	if review.UserID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you can only modify your own reviews")
	}
	return review, nil
}

func (s *service) uploadImage(ctx context.Context, upload *types.Upload) (string, error) {
	key := gcs.BuildObjectKey(restaurantImagePrefix, upload.FileName, s.now())
	if _, err := s.blobs.Upload(ctx, key, upload.ContentType, upload.Data); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload restaurant image")
	}
	return key, nil
}

func (s *service) toDTO(ctx context.Context, restaurant *models.Restaurant) (*RestaurantDTO, error) {
	url, err := s.blobs.ResolveURL(ctx, restaurant.ImageKey)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve restaurant image url")
	}
	return fromModel(restaurant, url), nil
}
