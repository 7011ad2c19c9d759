package domain

import "time"

type Dish struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Tags        []string  `json:"tags"`
	Spicy       int       `json:"spicy"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	OrderCount  int64     `json:"order_count"`
}

type Order struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	DishID    int64     `json:"dish_id"`
	Quantity  int       `json:"quantity"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// NewDish is the create payload. Optional fields are pointers so that an
// absent field falls back to the store default instead of a zero value.
type NewDish struct {
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	Tags        *[]string `json:"tags"`
	Spicy       *int      `json:"spicy"`
	Available   *bool     `json:"available"`
}

// DishUpdate is the partial-update payload. Only non-nil fields overwrite
// the current row; everything else is preserved.
type DishUpdate struct {
	Name        *string   `json:"name"`
	Category    *string   `json:"category"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	Tags        *[]string `json:"tags"`
	Spicy       *int      `json:"spicy"`
	Available   *bool     `json:"available"`
}

// CartLine is one pending selection. A line always has Count > 0; reaching
// zero removes the line.
type CartLine struct {
	DishID int64  `json:"dishId"`
	Count  int    `json:"count"`
	Note   string `json:"notes"`
}

// CartDetail joins a cart line with its dish. Dish is a placeholder record
// when the referenced dish has been deleted.
type CartDetail struct {
	CartLine
	Dish Dish `json:"dish"`
}
