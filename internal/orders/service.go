package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mesafood/mesafood-backend/internal/meals"
	"github.com/mesafood/mesafood-backend/pkg/db/models"
	"github.com/mesafood/mesafood-backend/pkg/enums"
	pkgerrors "github.com/mesafood/mesafood-backend/pkg/errors"
	"github.com/mesafood/mesafood-backend/pkg/gather"
)

type orderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	FindActiveForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	FindForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
}

type mealFinder interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Meal, error)
}

type blobStore interface {
	ResolveURL(ctx context.Context, key string) (string, error)
}

// Service exposes order operations, always scoped to the acting user.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*OrderDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	GetOne(ctx context.Context, userID, id uuid.UUID) (*OrderDTO, error)
	Complete(ctx context.Context, userID, id uuid.UUID) error
	Cancel(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	repo  orderRepository
	meals mealFinder
	blobs blobStore
}

// NewService builds an order service with the provided collaborators.
func NewService(repo orderRepository, mealRepo mealFinder, blobs blobStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if mealRepo == nil {
		return nil, fmt.Errorf("meal finder required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	return &service{repo: repo, meals: mealRepo, blobs: blobs}, nil
}

// totalPrice freezes quantity * unit price rounded to 2 decimals. The value
// never changes afterwards, even if the meal price does.
func totalPrice(quantity int, unitPrice float64) float64 {
	total := decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
	return total.Round(2).InexactFloat64()
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*OrderDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "the quantity must be greater than 0")
	}

	meal, err := s.meals.FindActiveByID(ctx, input.MealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("meal with id %s not found", input.MealID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load meal")
	}

	order := &models.Order{
		MealID:     meal.ID,
		UserID:     userID,
		Quantity:   input.Quantity,
		TotalPrice: totalPrice(input.Quantity, meal.Price),
		Status:     enums.OrderStatusActive,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	order.Meal = meal
	return s.toDTO(ctx, order)
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	orders, err := s.repo.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	keys := make([]string, 0, len(orders)*2)
	seen := make(map[string]struct{})
	for i := range orders {
		for _, key := range meals.BlobKeys(orders[i].Meal) {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}

	urls, err := gather.Map(ctx, keys, s.blobs.ResolveURL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve order image urls")
	}

	dtos := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *fromModel(&orders[i], urls))
	}
	return dtos, nil
}

func (s *service) GetOne(ctx context.Context, userID, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindActiveForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order with id %s not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return s.toDTO(ctx, order)
}

func (s *service) Complete(ctx context.Context, userID, id uuid.UUID) error {
	return s.transition(ctx, userID, id, enums.OrderStatusCompleted)
}

func (s *service) Cancel(ctx context.Context, userID, id uuid.UUID) error {
	return s.transition(ctx, userID, id, enums.OrderStatusCancelled)
}

func (s *service) transition(ctx context.Context, userID, id uuid.UUID, target enums.OrderStatus) error {
	order, err := s.repo.FindForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("order with id %s not found", id))
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.Status != enums.OrderStatusActive {
		return pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("order with id %s is already %s", id, order.Status))
	}

	if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return nil
}

func (s *service) toDTO(ctx context.Context, order *models.Order) (*OrderDTO, error) {
	urls, err := gather.Map(ctx, meals.BlobKeys(order.Meal), s.blobs.ResolveURL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve order image urls")
	}
	return fromModel(order, urls), nil
}
