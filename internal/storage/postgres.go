package storage

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/lib/pq"

	"foodorder/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS dishes (
		id bigserial PRIMARY KEY,
		name varchar(255) NOT NULL,
		category varchar(100) NOT NULL,
		description text DEFAULT '',
		image text DEFAULT '',
		tags text[] DEFAULT '{}',
		spicy integer DEFAULT 0,
		available boolean DEFAULT TRUE,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id bigserial PRIMARY KEY,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id bigserial PRIMARY KEY,
		order_id bigint NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		dish_id bigint NOT NULL REFERENCES dishes(id) ON DELETE CASCADE,
		quantity integer NOT NULL CHECK (quantity > 0),
		note text,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_dish_id ON order_items(dish_id)`,
	`ALTER TABLE IF EXISTS orders ADD COLUMN IF NOT EXISTS qr_code bytea`,
}

// EnsureSchema creates the dishes, orders and order_items tables and the
// dish_id index if they are missing. The work runs at most once per
// repository lifetime; callers invoke it before their first query because
// the store may be freshly provisioned.
func (r *PostgresRepository) EnsureSchema() error {
	r.schemaOnce.Do(func() {
		for _, stmt := range schemaStatements {
			if _, err := r.DB.Exec(stmt); err != nil {
				r.schemaErr = fmt.Errorf("ensure schema: %w", err)
				return
			}
		}
	})
	return r.schemaErr
}

const dishSelect = `
	SELECT d.id, d.name, d.category, COALESCE(d.description, ''), COALESCE(d.image, ''),
	       d.tags, d.spicy, d.available, d.created_at,
	       COALESCE(SUM(oi.quantity), 0) AS order_count
	FROM dishes d
	LEFT JOIN order_items oi ON oi.dish_id = d.id`

func scanDish(row interface{ Scan(...any) error }, dish *domain.Dish) error {
	return row.Scan(&dish.ID, &dish.Name, &dish.Category, &dish.Description, &dish.Image,
		pq.Array(&dish.Tags), &dish.Spicy, &dish.Available, &dish.CreatedAt, &dish.OrderCount)
}

// ListDishes returns every dish ordered by id, each with its order_count
// aggregated from surviving order items (0 when the dish was never ordered).
func (r *PostgresRepository) ListDishes() ([]domain.Dish, error) {
	rows, err := r.DB.Query(dishSelect + `
	GROUP BY d.id
	ORDER BY d.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dishes := []domain.Dish{}
	for rows.Next() {
		var dish domain.Dish
		if err := scanDish(rows, &dish); err != nil {
			continue
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

func (r *PostgresRepository) GetDish(id int64) (*domain.Dish, error) {
	var dish domain.Dish
	err := scanDish(r.DB.QueryRow(dishSelect+`
	WHERE d.id = $1
	GROUP BY d.id`, id), &dish)
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

func (r *PostgresRepository) CreateDish(dish *domain.Dish) error {
	return r.DB.QueryRow(`
		INSERT INTO dishes (name, category, description, image, tags, spicy, available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		dish.Name, dish.Category, dish.Description, dish.Image,
		pq.Array(dish.Tags), dish.Spicy, dish.Available).
		Scan(&dish.ID, &dish.CreatedAt)
}

// UpdateDish overwrites only the fields present in upd and preserves the
// rest of the current row, then returns the row with a recomputed
// order_count. Returns sql.ErrNoRows when id does not exist.
func (r *PostgresRepository) UpdateDish(id int64, upd domain.DishUpdate) (*domain.Dish, error) {
	current, err := r.GetDish(id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		current.Name = *upd.Name
	}
	if upd.Category != nil {
		current.Category = *upd.Category
	}
	if upd.Description != nil {
		current.Description = *upd.Description
	}
	if upd.Image != nil {
		current.Image = *upd.Image
	}
	if upd.Tags != nil {
		current.Tags = *upd.Tags
	}
	if upd.Spicy != nil {
		current.Spicy = *upd.Spicy
	}
	if upd.Available != nil {
		current.Available = *upd.Available
	}

	if _, err := r.DB.Exec(`
		UPDATE dishes
		SET name=$1, category=$2, description=$3, image=$4, tags=$5, spicy=$6, available=$7
		WHERE id=$8`,
		current.Name, current.Category, current.Description, current.Image,
		pq.Array(current.Tags), current.Spicy, current.Available, id); err != nil {
		return nil, err
	}

	return current, nil
}

// DeleteDish removes the dish row; dependent order items go with it via the
// foreign-key cascade while order headers survive.
func (r *PostgresRepository) DeleteDish(id int64) (int64, error) {
	result, err := r.DB.Exec("DELETE FROM dishes WHERE id=$1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// CreateOrder inserts the order header and every item in one transaction.
// Any failure, including a foreign-key violation on a dish deleted
// mid-flight, rolls the whole order back.
func (r *PostgresRepository) CreateOrder(items []domain.OrderItem) (*domain.Order, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var order domain.Order
	if err := tx.QueryRow(`
		INSERT INTO orders DEFAULT VALUES
		RETURNING id, created_at`).Scan(&order.ID, &order.CreatedAt); err != nil {
		return nil, err
	}

	for _, item := range items {
		if _, err := tx.Exec(`
			INSERT INTO order_items (order_id, dish_id, quantity, note)
			VALUES ($1, $2, $3, $4)`,
			order.ID, item.DishID, item.Quantity, item.Note); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *PostgresRepository) SaveQRCode(orderID int64, qr []byte) error {
	_, err := r.DB.Exec("UPDATE orders SET qr_code = $1 WHERE id = $2", qr, orderID)
	return err
}

func (r *PostgresRepository) GetQRCode(orderID int64) ([]byte, error) {
	var qr []byte
	if err := r.DB.QueryRow("SELECT qr_code FROM orders WHERE id = $1", orderID).Scan(&qr); err != nil {
		return nil, err
	}
	return qr, nil
}
