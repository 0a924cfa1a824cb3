package meals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mesafood/mesafood-backend/pkg/db/models"
	"github.com/mesafood/mesafood-backend/pkg/enums"
)

// Repository exposes meal persistence operations. Reads enforce the active
// scope transitively: a meal whose restaurant is disabled never surfaces.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a meals repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the meal and its image rows inside the caller's transaction.
func (r *Repository) Create(ctx context.Context, tx *gorm.DB, meal *models.Meal) error {
	return tx.WithContext(ctx).Create(meal).Error
}

// FindActiveByID loads an active meal with its active restaurant and images.
func (r *Repository) FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Meal, error) {
	var meal models.Meal
	err := r.activeScope(ctx).
		Where("meals.id = ?", id).
		First(&meal).Error
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

// ListActive returns all active meals whose restaurant is active, with active
// images preloaded.
func (r *Repository) ListActive(ctx context.Context) ([]models.Meal, error) {
	var meals []models.Meal
	err := r.activeScope(ctx).
		Order("meals.created_at").
		Find(&meals).Error
	if err != nil {
		return nil, err
	}
	return meals, nil
}

// Save persists the meal row, leaving loaded associations untouched.
func (r *Repository) Save(ctx context.Context, meal *models.Meal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(meal).Error
}

// SoftDelete flips the meal's status to disabled.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Meal{}).
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

func (r *Repository) activeScope(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Joins("JOIN restaurants ON restaurants.id = meals.restaurant_id AND restaurants.status = ?", enums.RecordStatusActive).
		Preload("Restaurant").
		Preload("Images", "status = ?", enums.RecordStatusActive).
		Where("meals.status = ?", enums.RecordStatusActive)
}
