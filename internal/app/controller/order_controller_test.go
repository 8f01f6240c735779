package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rkarim/cartify-backend/internal/app/model"
	"github.com/rkarim/cartify-backend/internal/app/repository"
	"github.com/rkarim/cartify-backend/internal/app/service"
	"github.com/rkarim/cartify-backend/internal/db"
	"github.com/rkarim/cartify-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderControllerTest(t *testing.T) (*gin.Engine, *model.User, *model.Product, service.CartService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderService := service.NewOrderService(orderRepo, cartRepo, testDB)
	cartService := service.NewCartService(cartRepo)
	orderController := NewOrderController(orderService)

	user := &model.User{
		Name:         "Order User",
		Email:        "order@example.com",
		Age:          30,
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{
		Name:        "Test Product",
		Price:       10,
		Stock:       50,
		IsAvailable: true,
	}
	require.NoError(t, testDB.Create(product).Error)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/orders", orderController.ListOrders)
	router.GET("/orders/:id", orderController.GetOrder)
	router.POST("/orders", orderController.CreateOrder)
	router.PUT("/orders/:id", orderController.UpdateOrder)
	router.PATCH("/orders/:id/status", orderController.UpdateOrderStatus)
	router.DELETE("/orders/:id", orderController.DeleteOrder)
	router.GET("/orders/:id/:user_id", func(c *gin.Context) {
		if c.Param("id") != "user" {
			errors.NotFound(c, errors.ResourceNotFound, "Route not found")
			return
		}
		orderController.GetUserOrders(c)
	})

	return router, user, product, cartService
}

func orderBody(userID, productID uint) map[string]interface{} {
	return map[string]interface{}{
		"user_id": userID,
		"items": []map[string]interface{}{
			{"product_id": productID, "quantity": 2, "price": 10},
		},
		"shipping_address": map[string]string{
			"street":      "12 Lake Rd",
			"city":        "Dhaka",
			"state":       "Dhaka",
			"postal_code": "1207",
			"country":     "Bangladesh",
		},
		"payment_method": "cash_on_delivery",
	}
}

func TestOrderController_CreateOrder_Success(t *testing.T) {
	router, user, product, _ := setupOrderControllerTest(t)

	w := postJSON(t, router, http.MethodPost, "/orders", orderBody(user.ID, product.ID))

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	order := response["order"].(map[string]interface{})
	assert.Equal(t, float64(20), order["total_amount"])
	assert.Equal(t, "pending", order["order_status"])
}

func TestOrderController_CreateOrder_ClearsCart(t *testing.T) {
	router, user, product, cartService := setupOrderControllerTest(t)

	_, err := cartService.CreateCart(user.ID, []service.CartItemInput{
		{ProductID: product.ID, Quantity: 2, Price: 10},
	})
	require.NoError(t, err)

	w := postJSON(t, router, http.MethodPost, "/orders", orderBody(user.ID, product.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	cart, err := cartService.GetCartByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 0)
	assert.Equal(t, float64(0), cart.TotalPrice)
}

func TestOrderController_CreateOrder_ValidationErrors(t *testing.T) {
	router, _, _, _ := setupOrderControllerTest(t)

	w := postJSON(t, router, http.MethodPost, "/orders", map[string]interface{}{
		"items":          []map[string]interface{}{},
		"payment_method": "paypal",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	fields := make([]string, 0, len(response.Errors))
	for _, fieldErr := range response.Errors {
		fields = append(fields, fieldErr.Field)
	}
	assert.Contains(t, fields, "user_id")
	assert.Contains(t, fields, "items")
	assert.Contains(t, fields, "payment_method")
	assert.Contains(t, fields, "shipping_address.street")
}

func TestOrderController_ListOrders_QueryFilter(t *testing.T) {
	router, user, product, _ := setupOrderControllerTest(t)

	w := postJSON(t, router, http.MethodPost, "/orders", orderBody(user.ID, product.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/orders?userId=9999", nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["count"])

	// The snake_case form keeps working
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders?user_id=%d", user.ID), nil)
	w4 := httptest.NewRecorder()
	router.ServeHTTP(w4, req)
	require.NoError(t, json.Unmarshal(w4.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders?userId=%d", user.ID), nil)
	w5 := httptest.NewRecorder()
	router.ServeHTTP(w5, req)
	require.NoError(t, json.Unmarshal(w5.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])

	req = httptest.NewRequest(http.MethodGet, "/orders", nil)
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req)

	require.NoError(t, json.Unmarshal(w3.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}

func TestOrderController_GetUserOrders_Route(t *testing.T) {
	router, user, product, _ := setupOrderControllerTest(t)

	w := postJSON(t, router, http.MethodPost, "/orders", orderBody(user.ID, product.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/orders/user/1", nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)

	assert.Equal(t, http.StatusOK, w2.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])

	// Empty history is still 200
	req = httptest.NewRequest(http.MethodGet, "/orders/user/9999", nil)
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req)
	assert.Equal(t, http.StatusOK, w3.Code)

	// Non-literal first segment is not a valid two-part route
	req = httptest.NewRequest(http.MethodGet, "/orders/banana/1", nil)
	w4 := httptest.NewRecorder()
	router.ServeHTTP(w4, req)
	assert.Equal(t, http.StatusNotFound, w4.Code)
}

func TestOrderController_GetOrder_NotFound(t *testing.T) {
	router, _, _, _ := setupOrderControllerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/orders/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Order not found")
}

func TestOrderController_UpdateOrder_KeepsTotal(t *testing.T) {
	router, user, product, _ := setupOrderControllerTest(t)

	w := postJSON(t, router, http.MethodPost, "/orders", orderBody(user.ID, product.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	w2 := postJSON(t, router, http.MethodPut, "/orders/1", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 9, "price": 99},
		},
	})

	assert.Equal(t, http.StatusOK, w2.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &response))
	order := response["order"].(map[string]interface{})
	assert.Equal(t, float64(20), order["total_amount"])
}

func TestOrderController_UpdateOrderStatus(t *testing.T) {
	router, user, product, _ := setupOrderControllerTest(t)

	w := postJSON(t, router, http.MethodPost, "/orders", orderBody(user.ID, product.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	w2 := postJSON(t, router, http.MethodPatch, "/orders/1/status", map[string]interface{}{
		"status": "shipped",
	})

	assert.Equal(t, http.StatusOK, w2.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &response))
	order := response["order"].(map[string]interface{})
	assert.Equal(t, "shipped", order["order_status"])
}

func TestOrderController_UpdateOrderStatus_MissingStatus(t *testing.T) {
	router, user, product, _ := setupOrderControllerTest(t)

	w := postJSON(t, router, http.MethodPost, "/orders", orderBody(user.ID, product.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	w2 := postJSON(t, router, http.MethodPatch, "/orders/1/status", map[string]interface{}{})

	assert.Equal(t, http.StatusBadRequest, w2.Code)
}

func TestOrderController_DeleteOrder(t *testing.T) {
	router, user, product, _ := setupOrderControllerTest(t)

	w := postJSON(t, router, http.MethodPost, "/orders", orderBody(user.ID, product.ID))
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodDelete, "/orders/1", nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code)

	req = httptest.NewRequest(http.MethodDelete, "/orders/1", nil)
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req)
	assert.Equal(t, http.StatusNotFound, w3.Code)
}
