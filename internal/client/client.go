package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"foodorder/internal/domain"
)

// APIClient talks to the foodorder HTTP API. It backs the optimistic
// catalog state in this package.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (c *APIClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s failed with status: %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *APIClient) ListDishes(ctx context.Context) ([]domain.Dish, error) {
	var dishes []domain.Dish
	if err := c.do(ctx, http.MethodGet, "/api/dishes", nil, &dishes); err != nil {
		return nil, err
	}
	return dishes, nil
}

func (c *APIClient) CreateDish(ctx context.Context, req domain.NewDish) (*domain.Dish, error) {
	var dish domain.Dish
	if err := c.do(ctx, http.MethodPost, "/api/dishes", req, &dish); err != nil {
		return nil, err
	}
	return &dish, nil
}

func (c *APIClient) UpdateDish(ctx context.Context, id int64, upd domain.DishUpdate) (*domain.Dish, error) {
	var dish domain.Dish
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/dishes/%d", id), upd, &dish); err != nil {
		return nil, err
	}
	return &dish, nil
}

func (c *APIClient) DeleteDish(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/dishes/%d", id), nil, nil)
}

// SubmitOrder sends the cart lines as an order and returns the new order id.
func (c *APIClient) SubmitOrder(ctx context.Context, lines []domain.CartLine) (int64, error) {
	items := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		items = append(items, map[string]any{
			"dishId":   line.DishID,
			"quantity": line.Count,
			"note":     line.Note,
		})
	}

	var resp struct {
		OrderID int64 `json:"orderId"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders", map[string]any{"items": items}, &resp); err != nil {
		return 0, err
	}
	return resp.OrderID, nil
}
