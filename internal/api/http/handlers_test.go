package httpapi_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	httpapi "foodorder/internal/api/http"
	"foodorder/internal/domain"
	"foodorder/internal/mocks"
	"foodorder/internal/service"
	"foodorder/internal/storage"
)

type handlerDeps struct {
	dishRepo  *mocks.DishRepository
	orderRepo *mocks.OrderRepository
	cartStore *mocks.CartStore
	files     storage.FileStore
}

func newTestRouter(deps handlerDeps) http.Handler {
	if deps.files == nil {
		deps.files = &storage.DiskStore{}
	}
	handler := httpapi.NewHandler(
		service.NewDishService(deps.dishRepo, nil),
		service.NewOrderService(deps.orderRepo, nil, nil),
		service.NewCartService(deps.cartStore, deps.dishRepo),
		deps.files,
	)
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestGetDishesHandler(t *testing.T) {
	dishRepo := new(mocks.DishRepository)
	dishRepo.On("EnsureSchema").Return(nil).Once()
	dishRepo.On("ListDishes").Return([]domain.Dish{
		{ID: 1, Name: "Braised Pork", OrderCount: 2},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/dishes", nil)
	w := httptest.NewRecorder()
	newTestRouter(handlerDeps{dishRepo: dishRepo}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var dishes []domain.Dish
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&dishes))
	assert.Len(t, dishes, 1)
	assert.Equal(t, int64(2), dishes[0].OrderCount)
}

func TestCreateDishHandler(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		setupMock func(*mocks.DishRepository)
		wantCode  int
	}{
		{
			name: "valid request",
			body: `{"name":"Tomato Egg","category":"hot"}`,
			setupMock: func(m *mocks.DishRepository) {
				m.On("EnsureSchema").Return(nil).Once()
				m.On("CreateDish", mock.AnythingOfType("*domain.Dish")).Return(nil).Once()
			},
			wantCode: http.StatusCreated,
		},
		{
			name:      "invalid JSON",
			body:      `{invalid}`,
			setupMock: func(m *mocks.DishRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "database error",
			body: `{"name":"Tomato Egg","category":"hot"}`,
			setupMock: func(m *mocks.DishRepository) {
				m.On("EnsureSchema").Return(nil).Once()
				m.On("CreateDish", mock.AnythingOfType("*domain.Dish")).Return(errors.New("db error")).Once()
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			dishRepo := new(mocks.DishRepository)
			testCase.setupMock(dishRepo)

			req := httptest.NewRequest(http.MethodPost, "/api/dishes", bytes.NewBufferString(testCase.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			newTestRouter(handlerDeps{dishRepo: dishRepo}).ServeHTTP(w, req)

			assert.Equal(t, testCase.wantCode, w.Code)
			dishRepo.AssertExpectations(t)
		})
	}
}

func TestUpdateDishHandlerNotFound(t *testing.T) {
	dishRepo := new(mocks.DishRepository)
	dishRepo.On("EnsureSchema").Return(nil).Once()
	dishRepo.On("UpdateDish", int64(999), mock.Anything).Return(nil, service.ErrDishNotFound).Once()

	req := httptest.NewRequest(http.MethodPut, "/api/dishes/999", bytes.NewBufferString(`{"spicy":2}`))
	w := httptest.NewRecorder()
	newTestRouter(handlerDeps{dishRepo: dishRepo}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteDishHandler(t *testing.T) {
	tests := []struct {
		name     string
		rows     int64
		wantCode int
	}{
		{name: "deleted", rows: 1, wantCode: http.StatusOK},
		{name: "not found", rows: 0, wantCode: http.StatusNotFound},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			dishRepo := new(mocks.DishRepository)
			dishRepo.On("EnsureSchema").Return(nil).Once()
			dishRepo.On("DeleteDish", int64(1)).Return(testCase.rows, nil).Once()

			req := httptest.NewRequest(http.MethodDelete, "/api/dishes/1", nil)
			w := httptest.NewRecorder()
			newTestRouter(handlerDeps{dishRepo: dishRepo}).ServeHTTP(w, req)

			assert.Equal(t, testCase.wantCode, w.Code)
		})
	}
}

func TestCreateOrderHandler(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		setupMock func(*mocks.OrderRepository)
		wantCode  int
	}{
		{
			name: "valid order with mixed spellings",
			body: `{"items":[{"dishId":1,"quantity":2},{"dishId":"2","count":1,"notes":"mild"}]}`,
			setupMock: func(m *mocks.OrderRepository) {
				m.On("EnsureSchema").Return(nil).Once()
				m.On("CreateOrder", []domain.OrderItem{
					{DishID: 1, Quantity: 2},
					{DishID: 2, Quantity: 1, Note: "mild"},
				}).Return(&domain.Order{ID: 12}, nil).Once()
			},
			wantCode: http.StatusCreated,
		},
		{
			name:      "empty items",
			body:      `{"items":[]}`,
			setupMock: func(m *mocks.OrderRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "all items dropped by normalization",
			body:      `{"items":[{"dishId":1,"quantity":0},{"dishId":"x","quantity":1}]}`,
			setupMock: func(m *mocks.OrderRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "transaction failure",
			body: `{"items":[{"dishId":999,"quantity":1}]}`,
			setupMock: func(m *mocks.OrderRepository) {
				m.On("EnsureSchema").Return(nil).Once()
				m.On("CreateOrder", mock.Anything).Return(nil, errors.New("fk violation")).Once()
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			orderRepo := new(mocks.OrderRepository)
			testCase.setupMock(orderRepo)

			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString(testCase.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			newTestRouter(handlerDeps{orderRepo: orderRepo}).ServeHTTP(w, req)

			assert.Equal(t, testCase.wantCode, w.Code)
			orderRepo.AssertExpectations(t)

			if testCase.wantCode == http.StatusCreated {
				var resp map[string]int64
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, int64(12), resp["orderId"])
			}
			if testCase.wantCode == http.StatusInternalServerError {
				// store detail must not leak to the caller
				assert.NotContains(t, w.Body.String(), "fk violation")
			}
		})
	}
}

func TestClearCartHandler(t *testing.T) {
	cartStore := new(mocks.CartStore)
	cartStore.On("Clear", mock.Anything, "table-9").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/cart/table-9", nil)
	w := httptest.NewRecorder()
	newTestRouter(handlerDeps{cartStore: cartStore}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	cartStore.AssertExpectations(t)
}

func TestGetCartHandler(t *testing.T) {
	dishRepo := new(mocks.DishRepository)
	cartStore := new(mocks.CartStore)

	dishRepo.On("EnsureSchema").Return(nil).Once()
	dishRepo.On("ListDishes").Return([]domain.Dish{{ID: 1, Name: "Braised Pork"}}, nil).Once()
	cartStore.On("Load", mock.Anything, "table-9").
		Return([]domain.CartLine{{DishID: 1, Count: 2}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/cart/table-9", nil)
	w := httptest.NewRecorder()
	newTestRouter(handlerDeps{dishRepo: dishRepo, cartStore: cartStore}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var view service.CartView
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&view))
	assert.Equal(t, 2, view.Total)
	assert.Len(t, view.Details, 1)
}

func multipartUpload(t *testing.T, field, filename, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create multipart part: %v", err)
	}
	part.Write([]byte(content))
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	t.Run("storage not configured", func(t *testing.T) {
		body, contentType := multipartUpload(t, "file", "cat.png", "image/png", "img")
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		newTestRouter(handlerDeps{files: &storage.DiskStore{}}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Storage not configured")
	})

	t.Run("stores file and returns url and path", func(t *testing.T) {
		files := &storage.DiskStore{Dir: t.TempDir(), BaseURL: "http://localhost/uploads"}
		body, contentType := multipartUpload(t, "file", "cat.png", "image/png", "img")
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		newTestRouter(handlerDeps{files: files}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var stored storage.StoredFile
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&stored))
		assert.NotEmpty(t, stored.URL)
		assert.NotEmpty(t, stored.Path)
	})

	t.Run("rejects disallowed type", func(t *testing.T) {
		body, contentType := multipartUpload(t, "file", "script.sh", "text/x-sh", "#!/bin/sh")
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		newTestRouter(handlerDeps{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		body, contentType := multipartUpload(t, "other", "cat.png", "image/png", "img")
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		newTestRouter(handlerDeps{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	newTestRouter(handlerDeps{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "foodorder", body["service"])
}
