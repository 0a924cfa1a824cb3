package restaurants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mesafood/mesafood-backend/pkg/db/models"
	"github.com/mesafood/mesafood-backend/pkg/enums"
)

// Repository exposes restaurant persistence operations. Writes that are part
// of a larger transaction accept an explicit tx handle.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a restaurants repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new restaurant.
func (r *Repository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	return r.db.WithContext(ctx).Create(restaurant).Error
}

// FindActiveByID loads an active restaurant with its active reviews.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := r.db.WithContext(ctx).
		Preload("Reviews", "status = ?", enums.RecordStatusActive).
		Where("id = ? AND status = ?", id, enums.RecordStatusActive).
		First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// ListActive returns all active restaurants with their active reviews.
func (r *Repository) ListActive(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := r.db.WithContext(ctx).
		Preload("Reviews", "status = ?", enums.RecordStatusActive).
		Where("status = ?", enums.RecordStatusActive).
		Order("created_at").
		Find(&restaurants).Error
	if err != nil {
		return nil, err
	}
	return restaurants, nil
}

// Save persists the full restaurant row, leaving loaded reviews untouched.
func (r *Repository) Save(ctx context.Context, restaurant *models.Restaurant) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(restaurant).Error
}

// SoftDelete flips the restaurant's status to disabled.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Restaurant{}).
		Where("id = ? AND status = ?", id, enums.RecordStatusActive).
		Update("status", enums.RecordStatusDisabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateRating writes the derived rating inside the caller's transaction.
func (r *Repository) UpdateRating(ctx context.Context, tx *gorm.DB, id uuid.UUID, rating float64) error {
	return tx.WithContext(ctx).
		Model(&models.Restaurant{}).
		Where("id = ?", id).
		Update("rating", rating).Error
}

// ReviewRepository exposes review persistence operations.
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository constructs a reviews repo bound to the provided GORM DB.
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review inside the caller's transaction.
func (r *ReviewRepository) Create(ctx context.Context, tx *gorm.DB, review *models.Review) error {
	return tx.WithContext(ctx).Create(review).Error
}

// FindActiveByID loads an active review by id.
func (r *ReviewRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, enums.RecordStatusActive).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Save persists the review row inside the caller's transaction.
func (r *ReviewRepository) Save(ctx context.Context, tx *gorm.DB, review *models.Review) error {
	return tx.WithContext(ctx).Save(review).Error
}

// SoftDelete flips the review's status to disabled.
func (r *ReviewRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ? AND status = ?", id, enums.RecordStatusActive).
		Update("status", enums.RecordStatusDisabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
