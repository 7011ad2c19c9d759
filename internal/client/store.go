package client

import (
	"context"

	"foodorder/internal/cart"
	"foodorder/internal/domain"
)

type CatalogAPI interface {
	ListDishes(ctx context.Context) ([]domain.Dish, error)
	CreateDish(ctx context.Context, req domain.NewDish) (*domain.Dish, error)
	UpdateDish(ctx context.Context, id int64, upd domain.DishUpdate) (*domain.Dish, error)
	DeleteDish(ctx context.Context, id int64) error
}

// Store is the admin-side catalog state with the customer cart attached.
// Mutations apply locally first and revert exactly when the remote call
// fails; remote errors are always returned to the caller.
type Store struct {
	api CatalogAPI

	Dishes []domain.Dish
	Cart   cart.Cart
}

func NewStore(api CatalogAPI) *Store {
	return &Store{api: api}
}

func (s *Store) Init(ctx context.Context) error {
	dishes, err := s.api.ListDishes(ctx)
	if err != nil {
		return err
	}
	s.Dishes = dishes
	return nil
}

func (s *Store) indexOf(dishID int64) int {
	for i := range s.Dishes {
		if s.Dishes[i].ID == dishID {
			return i
		}
	}
	return -1
}

// AddDish creates the dish remotely and appends the returned row, so the
// local state carries the generated id and timestamps.
func (s *Store) AddDish(ctx context.Context, req domain.NewDish) error {
	added, err := s.api.CreateDish(ctx, req)
	if err != nil {
		return err
	}
	s.Dishes = append(s.Dishes, *added)
	return nil
}

// ToggleAvailable flips availability locally, then confirms remotely; on
// failure the flip is reverted. No-op when the dish is not loaded.
func (s *Store) ToggleAvailable(ctx context.Context, dishID int64) error {
	i := s.indexOf(dishID)
	if i < 0 {
		return nil
	}

	original := s.Dishes[i].Available
	s.Dishes[i].Available = !original

	next := s.Dishes[i].Available
	if _, err := s.api.UpdateDish(ctx, dishID, domain.DishUpdate{Available: &next}); err != nil {
		s.Dishes[i].Available = original
		return err
	}
	return nil
}

// DeleteDish removes the dish and its cart line locally, then confirms
// remotely; on failure the dish returns to its original position.
func (s *Store) DeleteDish(ctx context.Context, dishID int64) error {
	i := s.indexOf(dishID)
	if i < 0 {
		return nil
	}

	deleted := s.Dishes[i]
	s.Dishes = append(s.Dishes[:i], s.Dishes[i+1:]...)
	s.Cart.Remove(dishID)

	if err := s.api.DeleteDish(ctx, dishID); err != nil {
		s.Dishes = append(s.Dishes[:i], append([]domain.Dish{deleted}, s.Dishes[i:]...)...)
		return err
	}
	return nil
}

func (s *Store) CartCountFor(dishID int64) int {
	return s.Cart.CountFor(dishID)
}

func (s *Store) TotalCartCount() int {
	return s.Cart.TotalCount()
}

func (s *Store) CartDetails() []domain.CartDetail {
	return s.Cart.DetailList(s.Dishes)
}

func (s *Store) DishesByCategory() map[string][]domain.Dish {
	return cart.GroupByCategory(s.Dishes)
}
