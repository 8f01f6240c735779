package controller

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rkarim/cartify-backend/internal/app/model"
	"github.com/rkarim/cartify-backend/internal/app/service"
	"github.com/rkarim/cartify-backend/internal/errors"
	"github.com/rkarim/cartify-backend/internal/middleware"
	"github.com/rkarim/cartify-backend/internal/validation"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type OrderItemRequest struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Price     float64 `json:"price" validate:"required,gt=0"`
}

type ShippingAddressRequest struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

type CreateOrderRequest struct {
	UserID          uint                   `json:"user_id" validate:"required"`
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method" validate:"required,oneof=cash_on_delivery card bkash nagad"`
}

type UpdateOrderRequest struct {
	Items           []OrderItemRequest      `json:"items" validate:"omitempty,min=1,dive"`
	ShippingAddress *ShippingAddressRequest `json:"shipping_address"`
	PaymentMethod   *string                 `json:"payment_method" validate:"omitempty,oneof=cash_on_delivery card bkash nagad"`
	OrderStatus     *string                 `json:"order_status"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateOrder places a new order and clears the buyer's cart
// POST /api/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create order request body", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request body")
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		log.Warn("Create order validation failed", map[string]interface{}{
			"error_count": len(fieldErrors),
		})
		errors.RespondWithValidationErrors(c, fieldErrors)
		return
	}

	order, err := ctrl.orderService.CreateOrder(service.OrderCreateInput{
		UserID: req.UserID,
		Items:  buildOrderItemInputs(req.Items),
		ShippingAddress: model.ShippingAddress{
			Street:     req.ShippingAddress.Street,
			City:       req.ShippingAddress.City,
			State:      req.ShippingAddress.State,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		if stderrors.Is(err, service.ErrEmptyOrder) {
			errors.BadRequest(c, errors.ValidationInvalidInput, "Order must contain at least one item")
			return
		}
		log.Error("Failed to create order", err, map[string]interface{}{
			"user_id": req.UserID,
		})
		errors.ParseAndRespond(c, err, "create order")
		return
	}

	log.Info("Order created", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.TotalAmount,
	})

	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// ListOrders returns all orders, optionally filtered by user
// GET /api/orders?userId=N
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	// userId is the documented filter name; the snake_case form is
	// accepted too.
	raw := c.Query("userId")
	if raw == "" {
		raw = c.Query("user_id")
	}

	var userID *uint
	if raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			log.Warn("Invalid user ID filter", map[string]interface{}{
				"user_id": raw,
			})
			errors.BadRequest(c, errors.ValidationInvalidID, "Invalid user ID")
			return
		}
		id := uint(parsed)
		userID = &id
	}

	orders, err := ctrl.orderService.ListOrders(userID)
	if err != nil {
		log.Error("Failed to list orders", err)
		errors.ParseAndRespond(c, err, "fetch orders")
		return
	}

	log.Info("Orders listed successfully", map[string]interface{}{
		"count": len(orders),
	})

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns a single order
// GET /api/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Warn("Invalid order ID", map[string]interface{}{
			"id": c.Param("id"),
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.orderService.GetOrderByID(uint(id))
	if err != nil {
		if stderrors.Is(err, service.ErrOrderNotFound) {
			errors.NotFound(c, errors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": id,
		})
		errors.ParseAndRespond(c, err, "fetch order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetUserOrders returns the order history of one user
// GET /api/orders/user/:user_id
func (ctrl *OrderController) GetUserOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		log.Warn("Invalid user ID", map[string]interface{}{
			"user_id": c.Param("user_id"),
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid user ID")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(uint(userID))
	if err != nil {
		log.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.ParseAndRespond(c, err, "fetch orders")
		return
	}

	log.Info("User orders fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// UpdateOrder replaces the mutable fields of an order
// PUT /api/orders/:id
func (ctrl *OrderController) UpdateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Warn("Invalid order ID", map[string]interface{}{
			"id": c.Param("id"),
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update order request body", map[string]interface{}{
			"order_id": id,
			"error":    err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request body")
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		log.Warn("Update order validation failed", map[string]interface{}{
			"order_id":    id,
			"error_count": len(fieldErrors),
		})
		errors.RespondWithValidationErrors(c, fieldErrors)
		return
	}

	update := service.OrderUpdate{
		OrderStatus: req.OrderStatus,
	}
	if req.Items != nil {
		update.Items = buildOrderItemInputs(req.Items)
	}
	if req.ShippingAddress != nil {
		update.ShippingAddress = &model.ShippingAddress{
			Street:     req.ShippingAddress.Street,
			City:       req.ShippingAddress.City,
			State:      req.ShippingAddress.State,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		}
	}
	if req.PaymentMethod != nil {
		method := model.PaymentMethod(*req.PaymentMethod)
		update.PaymentMethod = &method
	}

	order, err := ctrl.orderService.UpdateOrder(uint(id), update)
	if err != nil {
		if stderrors.Is(err, service.ErrOrderNotFound) {
			errors.NotFound(c, errors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to update order", err, map[string]interface{}{
			"order_id": id,
		})
		errors.ParseAndRespond(c, err, "update order")
		return
	}

	log.Info("Order updated", map[string]interface{}{
		"order_id": order.ID,
	})

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus changes only the status of an order
// PATCH /api/orders/:id/status
func (ctrl *OrderController) UpdateOrderStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Warn("Invalid order ID", map[string]interface{}{
			"id": c.Param("id"),
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid order ID")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order status request body", map[string]interface{}{
			"order_id": id,
			"error":    err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request body")
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		log.Warn("Order status validation failed", map[string]interface{}{
			"order_id":    id,
			"error_count": len(fieldErrors),
		})
		errors.RespondWithValidationErrors(c, fieldErrors)
		return
	}

	order, err := ctrl.orderService.UpdateOrderStatus(uint(id), req.Status)
	if err != nil {
		if stderrors.Is(err, service.ErrOrderNotFound) {
			errors.NotFound(c, errors.OrderNotFound, "Order not found")
			return
		}
		if stderrors.Is(err, service.ErrStatusRequired) {
			errors.BadRequest(c, errors.OrderInvalidStatus, "Order status is required")
			return
		}
		log.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": id,
		})
		errors.ParseAndRespond(c, err, "update order status")
		return
	}

	log.Info("Order status updated", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.OrderStatus,
	})

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// DeleteOrder deletes an order
// DELETE /api/orders/:id
func (ctrl *OrderController) DeleteOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Warn("Invalid order ID", map[string]interface{}{
			"id": c.Param("id"),
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid order ID")
		return
	}

	if err := ctrl.orderService.DeleteOrder(uint(id)); err != nil {
		if stderrors.Is(err, service.ErrOrderNotFound) {
			errors.NotFound(c, errors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to delete order", err, map[string]interface{}{
			"order_id": id,
		})
		errors.ParseAndRespond(c, err, "delete order")
		return
	}

	log.Info("Order deleted", map[string]interface{}{
		"order_id": id,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

func buildOrderItemInputs(items []OrderItemRequest) []service.OrderItemInput {
	inputs := make([]service.OrderItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return inputs
}
