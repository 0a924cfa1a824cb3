package restaurants

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mesafood/mesafood-backend/pkg/db/models"
	"github.com/mesafood/mesafood-backend/pkg/enums"
)

func setupRestaurantsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	restaurants := `
CREATE TABLE IF NOT EXISTS restaurants (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  address TEXT NOT NULL,
  rating REAL NOT NULL DEFAULT 0,
  image_key TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`
	reviews := `
CREATE TABLE IF NOT EXISTS reviews (
  id TEXT PRIMARY KEY,
  restaurant_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  comment TEXT NOT NULL,
  rating REAL NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(restaurants).Error)
	require.NoError(t, db.Exec(reviews).Error)
	return db
}

func seedRestaurant(t *testing.T, db *gorm.DB, status enums.RecordStatus) *models.Restaurant {
	t.Helper()
	restaurant := &models.Restaurant{
		ID:       uuid.New(),
		Name:     "taqueria",
		Address:  "main st 1",
		ImageKey: "restaurants/1-front.png",
		Status:   status,
	}
	require.NoError(t, db.Create(restaurant).Error)
	return restaurant
}

func seedReview(t *testing.T, db *gorm.DB, restaurantID uuid.UUID, status enums.RecordStatus) *models.Review {
	t.Helper()
	review := &models.Review{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		UserID:       uuid.New(),
		Comment:      "good",
		Rating:       4,
		Status:       status,
	}
	require.NoError(t, db.Create(review).Error)
	return review
}

func TestListActiveSkipsDisabledRestaurants(t *testing.T) {
	db := setupRestaurantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	active := seedRestaurant(t, db, enums.RecordStatusActive)
	seedRestaurant(t, db, enums.RecordStatusDisabled)

	list, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active.ID, list[0].ID)
}

func TestFindActiveByIDPreloadsOnlyActiveReviews(t *testing.T) {
	db := setupRestaurantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	restaurant := seedRestaurant(t, db, enums.RecordStatusActive)
	kept := seedReview(t, db, restaurant.ID, enums.RecordStatusActive)
	seedReview(t, db, restaurant.ID, enums.RecordStatusDisabled)

	found, err := repo.FindActiveByID(ctx, restaurant.ID)
	require.NoError(t, err)
	require.Len(t, found.Reviews, 1)
	assert.Equal(t, kept.ID, found.Reviews[0].ID)
}

func TestFindActiveByIDRejectsDisabledRestaurant(t *testing.T) {
	db := setupRestaurantsTestDB(t)
	repo := NewRepository(db)

	restaurant := seedRestaurant(t, db, enums.RecordStatusDisabled)

	_, err := repo.FindActiveByID(context.Background(), restaurant.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateRatingAndReviewCommitTogether(t *testing.T) {
	db := setupRestaurantsTestDB(t)
	repo := NewRepository(db)
	reviews := NewReviewRepository(db)
	ctx := context.Background()

	restaurant := seedRestaurant(t, db, enums.RecordStatusActive)

	review := &models.Review{
		ID:           uuid.New(),
		RestaurantID: restaurant.ID,
		UserID:       uuid.New(),
		Comment:      "great",
		Rating:       5,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := reviews.Create(ctx, tx, review); err != nil {
			return err
		}
		return repo.UpdateRating(ctx, tx, restaurant.ID, 2.5)
	})
	require.NoError(t, err)

	reloaded, err := repo.FindActiveByID(ctx, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.5, reloaded.Rating)
	require.Len(t, reloaded.Reviews, 1)
}

func TestReviewSoftDeleteExcludesFromActiveReads(t *testing.T) {
	db := setupRestaurantsTestDB(t)
	repo := NewRepository(db)
	reviews := NewReviewRepository(db)
	ctx := context.Background()

	restaurant := seedRestaurant(t, db, enums.RecordStatusActive)
	review := seedReview(t, db, restaurant.ID, enums.RecordStatusActive)

	require.NoError(t, reviews.SoftDelete(ctx, review.ID))

	_, err := reviews.FindActiveByID(ctx, review.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	reloaded, err := repo.FindActiveByID(ctx, restaurant.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Reviews)
}
