package service

import (
	"context"

	"foodorder/internal/cart"
	"foodorder/internal/domain"
)

type CartStore interface {
	Load(ctx context.Context, id string) ([]domain.CartLine, error)
	Save(ctx context.Context, id string, lines []domain.CartLine) error
	Clear(ctx context.Context, id string) error
}

type CartServiceInterface interface {
	Get(ctx context.Context, id string) (*CartView, error)
	Update(ctx context.Context, id string, dishID int64, delta int) (*CartView, error)
	SetNote(ctx context.Context, id string, dishID int64, note string) (*CartView, error)
	Clear(ctx context.Context, id string) error
}

// CartView is the joined cart response: the raw lines, the detail list with
// dish records, and the total unit count.
type CartView struct {
	Lines   []domain.CartLine   `json:"lines"`
	Details []domain.CartDetail `json:"details"`
	Total   int                 `json:"total"`
}

// CartService keeps persisted session carts consistent with the catalog:
// lines referencing a deleted dish are pruned whenever the cart is loaded.
type CartService struct {
	store  CartStore
	dishes DishRepository
}

func NewCartService(store CartStore, dishes DishRepository) *CartService {
	return &CartService{store: store, dishes: dishes}
}

func (s *CartService) load(ctx context.Context, id string) (*cart.Cart, []domain.Dish, error) {
	if err := s.dishes.EnsureSchema(); err != nil {
		return nil, nil, err
	}

	dishes, err := s.dishes.ListDishes()
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	known := make(map[int64]bool, len(dishes))
	for _, dish := range dishes {
		known[dish.ID] = true
	}

	kept := make([]domain.CartLine, 0, len(lines))
	for _, line := range lines {
		if known[line.DishID] {
			kept = append(kept, line)
		}
	}

	c := &cart.Cart{Lines: kept}
	if len(kept) != len(lines) {
		if err := s.store.Save(ctx, id, kept); err != nil {
			return nil, nil, err
		}
	}
	return c, dishes, nil
}

func view(c *cart.Cart, dishes []domain.Dish) *CartView {
	lines := c.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return &CartView{
		Lines:   lines,
		Details: c.DetailList(dishes),
		Total:   c.TotalCount(),
	}
}

func (s *CartService) Get(ctx context.Context, id string) (*CartView, error) {
	c, dishes, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return view(c, dishes), nil
}

func (s *CartService) Update(ctx context.Context, id string, dishID int64, delta int) (*CartView, error) {
	c, dishes, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Update(dishID, delta)
	if err := s.store.Save(ctx, id, c.Lines); err != nil {
		return nil, err
	}
	return view(c, dishes), nil
}

func (s *CartService) SetNote(ctx context.Context, id string, dishID int64, note string) (*CartView, error) {
	c, dishes, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	c.UpdateNote(dishID, note)
	if err := s.store.Save(ctx, id, c.Lines); err != nil {
		return nil, err
	}
	return view(c, dishes), nil
}

func (s *CartService) Clear(ctx context.Context, id string) error {
	return s.store.Clear(ctx, id)
}

var _ CartServiceInterface = (*CartService)(nil)
