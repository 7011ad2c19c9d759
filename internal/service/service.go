package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strconv"
	"time"

	"foodorder/internal/domain"
)

var (
	ErrDishNotFound = errors.New("dish not found")
	ErrNoValidItems = errors.New("order has no valid items")
)

type DishRepository interface {
	EnsureSchema() error
	ListDishes() ([]domain.Dish, error)
	GetDish(id int64) (*domain.Dish, error)
	CreateDish(dish *domain.Dish) error
	UpdateDish(id int64, upd domain.DishUpdate) (*domain.Dish, error)
	DeleteDish(id int64) (int64, error)
}

type OrderRepository interface {
	EnsureSchema() error
	CreateOrder(items []domain.OrderItem) (*domain.Order, error)
	SaveQRCode(orderID int64, qr []byte) error
	GetQRCode(orderID int64) ([]byte, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event map[string]any) error
}

type DishServiceInterface interface {
	List() ([]domain.Dish, error)
	Create(req domain.NewDish) (*domain.Dish, error)
	Update(id int64, upd domain.DishUpdate) (*domain.Dish, error)
	Delete(id int64) error
}

type OrderServiceInterface interface {
	Submit(req OrderRequest) (*domain.Order, error)
	QRCode(orderID int64) ([]byte, error)
}

func publish(events EventPublisher, key string, event map[string]any) {
	if events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := events.Publish(ctx, key, event); err != nil {
		log.Printf("[foodorder] kafka publish error: %v", err)
	}
}

type DishService struct {
	repo   DishRepository
	events EventPublisher
}

func NewDishService(repo DishRepository, events EventPublisher) *DishService {
	return &DishService{repo: repo, events: events}
}

func (s *DishService) List() ([]domain.Dish, error) {
	if err := s.repo.EnsureSchema(); err != nil {
		return nil, err
	}
	return s.repo.ListDishes()
}

// Create inserts a new dish. Absent optional fields fall back to the store
// defaults: empty description and image, no tags, spicy 0, available.
func (s *DishService) Create(req domain.NewDish) (*domain.Dish, error) {
	if err := s.repo.EnsureSchema(); err != nil {
		return nil, err
	}

	dish := domain.Dish{
		Name:      req.Name,
		Category:  req.Category,
		Tags:      []string{},
		Available: true,
	}
	if req.Description != nil {
		dish.Description = *req.Description
	}
	if req.Image != nil {
		dish.Image = *req.Image
	}
	if req.Tags != nil {
		dish.Tags = *req.Tags
	}
	if req.Spicy != nil {
		dish.Spicy = *req.Spicy
	}
	if req.Available != nil {
		dish.Available = *req.Available
	}

	if err := s.repo.CreateDish(&dish); err != nil {
		return nil, err
	}

	publish(s.events, strconv.FormatInt(dish.ID, 10), map[string]any{
		"type":   "dish_created",
		"dishId": dish.ID,
		"name":   dish.Name,
	})
	return &dish, nil
}

func (s *DishService) Update(id int64, upd domain.DishUpdate) (*domain.Dish, error) {
	if err := s.repo.EnsureSchema(); err != nil {
		return nil, err
	}

	dish, err := s.repo.UpdateDish(id, upd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDishNotFound
	}
	if err != nil {
		return nil, err
	}

	publish(s.events, strconv.FormatInt(dish.ID, 10), map[string]any{
		"type":   "dish_updated",
		"dishId": dish.ID,
		"name":   dish.Name,
	})
	return dish, nil
}

func (s *DishService) Delete(id int64) error {
	if err := s.repo.EnsureSchema(); err != nil {
		return err
	}

	rows, err := s.repo.DeleteDish(id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrDishNotFound
	}

	publish(s.events, strconv.FormatInt(id, 10), map[string]any{
		"type":   "dish_deleted",
		"dishId": id,
	})
	return nil
}

var _ DishServiceInterface = (*DishService)(nil)

// RawOrderItem is the untrusted submission entry. Dish id and quantity may
// arrive as JSON numbers or numeric strings, and both field spellings
// (quantity/count, note/notes) are accepted.
type RawOrderItem struct {
	DishID   any    `json:"dishId"`
	Quantity any    `json:"quantity"`
	Count    any    `json:"count"`
	Note     string `json:"note"`
	Notes    string `json:"notes"`
}

type OrderRequest struct {
	Items []RawOrderItem `json:"items"`
}

func toInt64(v any) (int64, bool) {
	switch value := v.(type) {
	case float64:
		return int64(value), true
	case int64:
		return value, true
	case int:
		return int64(value), true
	case string:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// normalizeItems converts raw entries to order items, dropping any entry
// whose dish id or quantity fails numeric conversion or whose quantity is
// not positive.
func normalizeItems(raw []RawOrderItem) []domain.OrderItem {
	items := []domain.OrderItem{}
	for _, entry := range raw {
		dishID, ok := toInt64(entry.DishID)
		if !ok {
			continue
		}

		qtyField := entry.Quantity
		if qtyField == nil {
			qtyField = entry.Count
		}
		quantity, ok := toInt64(qtyField)
		if !ok || quantity <= 0 {
			continue
		}

		note := entry.Note
		if note == "" {
			note = entry.Notes
		}

		items = append(items, domain.OrderItem{
			DishID:   dishID,
			Quantity: int(quantity),
			Note:     note,
		})
	}
	return items
}

type OrderService struct {
	repo      OrderRepository
	qrEncoder QRGenerator
	events    EventPublisher
}

func NewOrderService(repo OrderRepository, qr QRGenerator, events EventPublisher) *OrderService {
	return &OrderService{repo: repo, qrEncoder: qr, events: events}
}

// Submit normalizes the cart payload and persists the order atomically.
// ErrNoValidItems is returned before any store access when normalization
// leaves nothing to order.
func (s *OrderService) Submit(req OrderRequest) (*domain.Order, error) {
	items := normalizeItems(req.Items)
	if len(items) == 0 {
		return nil, ErrNoValidItems
	}

	if err := s.repo.EnsureSchema(); err != nil {
		return nil, err
	}

	order, err := s.repo.CreateOrder(items)
	if err != nil {
		return nil, err
	}

	if s.qrEncoder != nil {
		if qr, err := s.qrEncoder.Generate(order.ID); err == nil {
			if err := s.repo.SaveQRCode(order.ID, qr); err != nil {
				log.Printf("[foodorder] failed to store QR code for order %d: %v", order.ID, err)
			}
		} else {
			log.Printf("[foodorder] failed to generate QR code for order %d: %v", order.ID, err)
		}
	}

	publish(s.events, strconv.FormatInt(order.ID, 10), map[string]any{
		"type":    "order_created",
		"orderId": order.ID,
		"items":   len(items),
	})
	return order, nil
}

// QRCode returns the stored pickup code, regenerating it when absent.
func (s *OrderService) QRCode(orderID int64) ([]byte, error) {
	if err := s.repo.EnsureSchema(); err != nil {
		return nil, err
	}

	qr, err := s.repo.GetQRCode(orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qrEncoder != nil {
		if regenerated, err := s.qrEncoder.Generate(orderID); err == nil {
			if err := s.repo.SaveQRCode(orderID, regenerated); err != nil {
				log.Printf("[foodorder] failed to cache regenerated QR code: %v", err)
			}
			return regenerated, nil
		}
	}
	return qr, nil
}

var _ OrderServiceInterface = (*OrderService)(nil)
