package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bigtree-pos/till/internal/domain/cart"
	"github.com/bigtree-pos/till/internal/domain/money"
	"github.com/bigtree-pos/till/internal/domain/quickadd"
	"github.com/bigtree-pos/till/internal/till/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQuickAddHandler_Save(t *testing.T) {
	logger := testLogger()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockRegisterService)
		handler := NewQuickAddHandler(logger, mockService)

		entry := quickadd.Entry{ID: uuid.New(), Name: "Espresso", Price: money.Money(1800)}
		mockService.On("SaveQuickAdd", mock.Anything, "Espresso", money.Money(1800)).Return(entry, nil)

		router := setupTestRouter()
		router.POST("/quickadd", handler.Save)

		jsonBody, _ := json.Marshal(QuickAddRequest{Name: "Espresso", Price: "18.00"})
		req, _ := http.NewRequest(http.MethodPost, "/quickadd", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		entryResp := decodeData[QuickAddResponse](t, rr.Body.Bytes())
		assert.Equal(t, entry.ID.String(), entryResp.ID)
		assert.Equal(t, "Espresso", entryResp.Name)
		assert.Equal(t, "18.00", entryResp.Price)

		mockService.AssertExpectations(t)
	})

	t.Run("EmptyNameRejected", func(t *testing.T) {
		mockService := new(MockRegisterService)
		handler := NewQuickAddHandler(logger, mockService)

		mockService.On("SaveQuickAdd", mock.Anything, " ", money.Money(1800)).
			Return(quickadd.Entry{}, cart.ErrEmptyName)

		router := setupTestRouter()
		router.POST("/quickadd", handler.Save)

		jsonBody, _ := json.Marshal(QuickAddRequest{Name: " ", Price: "18.00"})
		req, _ := http.NewRequest(http.MethodPost, "/quickadd", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestQuickAddHandler_List(t *testing.T) {
	logger := testLogger()

	mockService := new(MockRegisterService)
	handler := NewQuickAddHandler(logger, mockService)

	entries := []quickadd.Entry{
		{ID: uuid.New(), Name: "Espresso", Price: money.Money(1800)},
		{ID: uuid.New(), Name: "Croissant", Price: money.Money(2500)},
	}
	mockService.On("QuickAddEntries", mock.Anything).Return(entries, nil)

	router := setupTestRouter()
	router.GET("/quickadd", handler.List)

	req, _ := http.NewRequest(http.MethodGet, "/quickadd", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	listResp := decodeData[[]QuickAddResponse](t, rr.Body.Bytes())
	require.Len(t, listResp, 2)
	assert.Equal(t, "Espresso", listResp[0].Name)
	assert.Equal(t, "Croissant", listResp[1].Name)

	mockService.AssertExpectations(t)
}

func TestQuickAddHandler_Remove(t *testing.T) {
	logger := testLogger()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockRegisterService)
		handler := NewQuickAddHandler(logger, mockService)

		entryID := uuid.New()
		mockService.On("RemoveQuickAdd", mock.Anything, entryID).Return(nil)

		router := setupTestRouter()
		router.DELETE("/quickadd/:id", handler.Remove)

		req, _ := http.NewRequest(http.MethodDelete, "/quickadd/"+entryID.String(), nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidUUID", func(t *testing.T) {
		mockService := new(MockRegisterService)
		handler := NewQuickAddHandler(logger, mockService)

		router := setupTestRouter()
		router.DELETE("/quickadd/:id", handler.Remove)

		req, _ := http.NewRequest(http.MethodDelete, "/quickadd/not-a-uuid", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})
}

func TestQuickAddHandler_AddToCart(t *testing.T) {
	logger := testLogger()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockRegisterService)
		handler := NewQuickAddHandler(logger, mockService)

		entryID := uuid.New()
		item := cart.LineItem{ID: uuid.New(), Name: "Espresso", Price: money.Money(1800)}
		state := service.State{
			Items:     []cart.LineItem{item},
			ItemCount: 1,
			Total:     money.Money(1800),
			Direction: service.DirectionNone,
		}
		mockService.On("AddFromQuickAdd", mock.Anything, entryID).Return(item, state, nil)

		router := setupTestRouter()
		router.POST("/quickadd/:id/cart", handler.AddToCart)

		req, _ := http.NewRequest(http.MethodPost, "/quickadd/"+entryID.String()+"/cart", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("UnknownEntry", func(t *testing.T) {
		mockService := new(MockRegisterService)
		handler := NewQuickAddHandler(logger, mockService)

		entryID := uuid.New()
		mockService.On("AddFromQuickAdd", mock.Anything, entryID).
			Return(cart.LineItem{}, service.State{}, service.ErrQuickAddNotFound)

		router := setupTestRouter()
		router.POST("/quickadd/:id/cart", handler.AddToCart)

		req, _ := http.NewRequest(http.MethodPost, "/quickadd/"+entryID.String()+"/cart", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockService.AssertExpectations(t)
	})
}
