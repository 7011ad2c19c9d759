package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"foodorder/internal/domain"
)

type DishRepository struct {
	mock.Mock
}

func (m *DishRepository) EnsureSchema() error {
	return m.Called().Error(0)
}

func (m *DishRepository) ListDishes() ([]domain.Dish, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Dish), args.Error(1)
}

func (m *DishRepository) GetDish(id int64) (*domain.Dish, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dish), args.Error(1)
}

func (m *DishRepository) CreateDish(dish *domain.Dish) error {
	return m.Called(dish).Error(0)
}

func (m *DishRepository) UpdateDish(id int64, upd domain.DishUpdate) (*domain.Dish, error) {
	args := m.Called(id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dish), args.Error(1)
}

func (m *DishRepository) DeleteDish(id int64) (int64, error) {
	args := m.Called(id)
	return args.Get(0).(int64), args.Error(1)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) EnsureSchema() error {
	return m.Called().Error(0)
}

func (m *OrderRepository) CreateOrder(items []domain.OrderItem) (*domain.Order, error) {
	args := m.Called(items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepository) SaveQRCode(orderID int64, qr []byte) error {
	return m.Called(orderID, qr).Error(0)
}

func (m *OrderRepository) GetQRCode(orderID int64) ([]byte, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type CartStore struct {
	mock.Mock
}

func (m *CartStore) Load(ctx context.Context, id string) ([]domain.CartLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartLine), args.Error(1)
}

func (m *CartStore) Save(ctx context.Context, id string, lines []domain.CartLine) error {
	return m.Called(ctx, id, lines).Error(0)
}

func (m *CartStore) Clear(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func (m *QRGenerator) Generate(orderID int64) ([]byte, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) Publish(ctx context.Context, key string, event map[string]any) error {
	return m.Called(ctx, key, event).Error(0)
}

type CatalogAPI struct {
	mock.Mock
}

func (m *CatalogAPI) ListDishes(ctx context.Context) ([]domain.Dish, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Dish), args.Error(1)
}

func (m *CatalogAPI) CreateDish(ctx context.Context, req domain.NewDish) (*domain.Dish, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dish), args.Error(1)
}

func (m *CatalogAPI) UpdateDish(ctx context.Context, id int64, upd domain.DishUpdate) (*domain.Dish, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dish), args.Error(1)
}

func (m *CatalogAPI) DeleteDish(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
