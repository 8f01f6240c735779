package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/rkarim/cartify-backend/internal/app/model"
	"github.com/rkarim/cartify-backend/internal/app/repository"
	"github.com/rkarim/cartify-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrEmptyOrder     = errors.New("order has no items")
	ErrStatusRequired = errors.New("order status is required")
)

// OrderItemInput is one line of an order write request.
type OrderItemInput struct {
	ProductID uint
	Quantity  int
	Price     float64
}

// OrderCreateInput carries everything needed to place an order.
type OrderCreateInput struct {
	UserID          uint
	Items           []OrderItemInput
	ShippingAddress model.ShippingAddress
	PaymentMethod   model.PaymentMethod
}

// OrderUpdate carries the optional fields of a full order update.
// Replacing Items does not recompute the stored total: the total
// recorded at checkout stays authoritative.
type OrderUpdate struct {
	Items           []OrderItemInput
	ShippingAddress *model.ShippingAddress
	PaymentMethod   *model.PaymentMethod
	OrderStatus     *string
}

type OrderService interface {
	CreateOrder(input OrderCreateInput) (*model.Order, error)
	ListOrders(userID *uint) ([]model.Order, error)
	GetOrderByID(id uint) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	UpdateOrder(id uint, update OrderUpdate) (*model.Order, error)
	UpdateOrderStatus(id uint, status string) (*model.Order, error)
	DeleteOrder(id uint) error
	ReconcileCarts(window time.Duration) (int, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	db        *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		db:        db,
	}
}

// CreateOrder persists the order and clears the user's cart in one
// transaction. If any step fails the whole transaction rolls back, so
// a failed order never touches the cart.
func (s *orderService) CreateOrder(input OrderCreateInput) (*model.Order, error) {
	logger.Info("Creating order", map[string]interface{}{
		"user_id":        input.UserID,
		"item_count":     len(input.Items),
		"payment_method": input.PaymentMethod,
	})

	if len(input.Items) == 0 {
		logger.Warn("Cannot create order: no items", map[string]interface{}{
			"user_id": input.UserID,
		})
		return nil, ErrEmptyOrder
	}

	orderItems := make([]model.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		orderItems = append(orderItems, model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	order := &model.Order{
		UserID:          input.UserID,
		Items:           orderItems,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		TotalAmount:     model.Total(orderItems),
		OrderStatus:     model.OrderStatusPending,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": input.UserID,
			})
		}
	}()

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": input.UserID,
		})
		return nil, err
	}

	// Reset the user's cart now that the order row exists. A user
	// without a cart is fine; any other error aborts the order.
	var cart model.Cart
	err := tx.Where("user_id = ?", input.UserID).First(&cart).Error
	if err == nil {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to clear cart items after order", err, map[string]interface{}{
				"user_id": input.UserID,
				"cart_id": cart.ID,
			})
			return nil, err
		}
		cart.Items = nil
		cart.TotalPrice = 0
		cart.Status = model.CartStatusActive
		if err := tx.Save(&cart).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to reset cart after order", err, map[string]interface{}{
				"user_id": input.UserID,
				"cart_id": cart.ID,
			})
			return nil, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		logger.Error("Failed to load cart for reset", err, map[string]interface{}{
			"user_id": input.UserID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id": input.UserID,
		})
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  input.UserID,
		"total":    order.TotalAmount,
	})

	return order, nil
}

// ListOrders returns all orders, or only one user's orders when a
// user ID filter is given.
func (s *orderService) ListOrders(userID *uint) ([]model.Order, error) {
	if userID != nil {
		return s.GetUserOrders(*userID)
	}

	logger.Debug("Listing orders")

	orders, err := s.orderRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list orders", err)
		return nil, err
	}

	return orders, nil
}

func (s *orderService) GetOrderByID(id uint) (*model.Order, error) {
	logger.Debug("Getting order by ID", map[string]interface{}{
		"order_id": id,
	})

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order not found", map[string]interface{}{
				"order_id": id,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to get order", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	return order, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	logger.Debug("Getting orders for user", map[string]interface{}{
		"user_id": userID,
	})

	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to get user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return orders, nil
}

func (s *orderService) UpdateOrder(id uint, update OrderUpdate) (*model.Order, error) {
	logger.Info("Attempting order update", map[string]interface{}{
		"order_id": id,
	})

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order update failed: order not found", map[string]interface{}{
				"order_id": id,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to find order for update", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	itemsReplaced := false
	if update.Items != nil {
		orderItems := make([]model.OrderItem, 0, len(update.Items))
		for _, item := range update.Items {
			orderItems = append(orderItems, model.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}
		// TotalAmount is intentionally left as recorded at checkout
		order.Items = orderItems
		itemsReplaced = true
	}
	if update.ShippingAddress != nil {
		order.ShippingAddress = *update.ShippingAddress
	}
	if update.PaymentMethod != nil {
		order.PaymentMethod = *update.PaymentMethod
	}
	if update.OrderStatus != nil {
		order.OrderStatus = *update.OrderStatus
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if itemsReplaced {
			if err := tx.Where("order_id = ?", order.ID).Delete(&model.OrderItem{}).Error; err != nil {
				return err
			}
		}
		return tx.Save(order).Error
	})
	if err != nil {
		logger.Error("Failed to update order", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Info("Order updated successfully", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})

	return order, nil
}

func (s *orderService) UpdateOrderStatus(id uint, status string) (*model.Order, error) {
	logger.Info("Attempting order status update", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	if status == "" {
		logger.Warn("Order status update failed: empty status", map[string]interface{}{
			"order_id": id,
		})
		return nil, ErrStatusRequired
	}

	if _, err := s.orderRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order status update failed: order not found", map[string]interface{}{
				"order_id": id,
			})
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to find order for status update", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		logger.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return nil, err
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		logger.Error("Failed to reload order after status update", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	logger.Info("Order status updated successfully", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	return order, nil
}

func (s *orderService) DeleteOrder(id uint) error {
	logger.Info("Attempting order deletion", map[string]interface{}{
		"order_id": id,
	})

	if _, err := s.orderRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order deletion failed: order not found", map[string]interface{}{
				"order_id": id,
			})
			return ErrOrderNotFound
		}
		logger.Error("Failed to find order for deletion", err, map[string]interface{}{
			"order_id": id,
		})
		return err
	}

	if err := s.orderRepo.Delete(id); err != nil {
		logger.Error("Failed to delete order", err, map[string]interface{}{
			"order_id": id,
		})
		return err
	}

	logger.Info("Order deleted successfully", map[string]interface{}{
		"order_id": id,
	})
	return nil
}

// ReconcileCarts resets carts that still hold items even though their
// owner placed an order after the cart was last touched. This replays
// cart clears that a crash between commit and response could have left
// unreported. Returns the number of carts reset.
func (s *orderService) ReconcileCarts(window time.Duration) (int, error) {
	since := time.Now().Add(-window)

	logger.Info("Reconciling carts against recent orders", map[string]interface{}{
		"since": since,
	})

	orders, err := s.orderRepo.FindCreatedSince(since)
	if err != nil {
		logger.Error("Failed to load recent orders for reconciliation", err)
		return 0, err
	}

	reset := 0
	for _, order := range orders {
		cart, err := s.cartRepo.FindByUserID(order.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			logger.Error("Failed to load cart during reconciliation", err, map[string]interface{}{
				"user_id": order.UserID,
			})
			return reset, err
		}

		// Only carts untouched since the order are stale
		if len(cart.Items) == 0 || !cart.UpdatedAt.Before(order.CreatedAt) {
			continue
		}

		cart.Items = nil
		cart.TotalPrice = 0
		cart.Status = model.CartStatusActive
		if err := s.cartRepo.UpdateWithItems(cart); err != nil {
			logger.Error("Failed to reset stale cart", err, map[string]interface{}{
				"cart_id": cart.ID,
				"user_id": order.UserID,
			})
			return reset, err
		}

		logger.Info("Stale cart reset", map[string]interface{}{
			"cart_id":  cart.ID,
			"user_id":  order.UserID,
			"order_id": order.ID,
		})
		reset++
	}

	logger.Info("Cart reconciliation finished", map[string]interface{}{
		"orders_checked": len(orders),
		"carts_reset":    reset,
	})

	return reset, nil
}
