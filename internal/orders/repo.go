package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mesafood/mesafood-backend/pkg/db/models"
	"github.com/mesafood/mesafood-backend/pkg/enums"
)

// Repository exposes order persistence operations. Rich reads enforce the
// active scope transitively: only active orders whose meal is active surface,
// with the meal's restaurant and active images preloaded.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Meal").Create(order).Error
}

// ListActiveForUser returns the user's active orders in the rich shape.
func (r *Repository) ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.richScope(ctx).
		Where("orders.user_id = ? AND orders.status = ?", userID, enums.OrderStatusActive).
		Order("orders.created_at").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindActiveForUser loads one of the user's active orders in the rich shape.
func (r *Repository) FindActiveForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.richScope(ctx).
		Where("orders.id = ? AND orders.user_id = ? AND orders.status = ?", id, userID, enums.OrderStatusActive).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindForUser loads the user's order regardless of status, for transition
// checks.
func (r *Repository) FindForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves the order to the given lifecycle status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *Repository) richScope(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Joins("JOIN meals ON meals.id = orders.meal_id AND meals.status = ?", enums.RecordStatusActive).
		Preload("Meal").
		Preload("Meal.Restaurant").
		Preload("Meal.Images", "status = ?", enums.RecordStatusActive)
}
