package service

import (
	"errors"

	"github.com/rkarim/cartify-backend/internal/app/model"
	"github.com/rkarim/cartify-backend/internal/app/repository"
	"github.com/rkarim/cartify-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartAlreadyExists = errors.New("user already has a cart")
)

// CartItemInput is one line of a cart write request.
type CartItemInput struct {
	ProductID uint
	Quantity  int
	Price     float64
}

// CartUpdate carries the optional fields of a cart update. A non-nil
// Items slice replaces the cart's item set and recomputes the total.
type CartUpdate struct {
	Items  []CartItemInput
	Status *model.CartStatus
}

type CartService interface {
	ListCarts() ([]model.Cart, error)
	GetCartByUserID(userID uint) (*model.Cart, error)
	CreateCart(userID uint, items []CartItemInput) (*model.Cart, error)
	UpdateCart(userID uint, update CartUpdate) (*model.Cart, error)
	DeleteCart(userID uint) error
}

type cartService struct {
	cartRepo repository.CartRepository
}

func NewCartService(cartRepo repository.CartRepository) CartService {
	return &cartService{cartRepo: cartRepo}
}

func (s *cartService) ListCarts() ([]model.Cart, error) {
	logger.Debug("Listing carts")

	carts, err := s.cartRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list carts", err)
		return nil, err
	}

	return carts, nil
}

func (s *cartService) GetCartByUserID(userID uint) (*model.Cart, error) {
	logger.Debug("Getting cart by user ID", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart not found", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrCartNotFound
		}
		logger.Error("Failed to get cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return cart, nil
}

func (s *cartService) CreateCart(userID uint, items []CartItemInput) (*model.Cart, error) {
	logger.Info("Attempting cart creation", map[string]interface{}{
		"user_id":    userID,
		"item_count": len(items),
	})

	// One cart per user
	existingCart, err := s.cartRepo.FindByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	if existingCart != nil {
		logger.Warn("Cart creation failed: user already has a cart", map[string]interface{}{
			"user_id": userID,
			"cart_id": existingCart.ID,
		})
		return nil, ErrCartAlreadyExists
	}

	cartItems := buildCartItems(items)

	cart := &model.Cart{
		UserID:     userID,
		Items:      cartItems,
		TotalPrice: model.Total(cartItems),
		Status:     model.CartStatusActive,
	}

	if err := s.cartRepo.Create(cart); err != nil {
		logger.Error("Failed to create cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Cart created successfully", map[string]interface{}{
		"cart_id":     cart.ID,
		"user_id":     userID,
		"total_price": cart.TotalPrice,
	})

	return cart, nil
}

func (s *cartService) UpdateCart(userID uint, update CartUpdate) (*model.Cart, error) {
	logger.Info("Attempting cart update", map[string]interface{}{
		"user_id": userID,
	})

	cart, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart update failed: cart not found", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrCartNotFound
		}
		logger.Error("Failed to find cart for update", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	// A new item set always recomputes the stored total
	if update.Items != nil {
		cartItems := buildCartItems(update.Items)
		for i := range cartItems {
			cartItems[i].CartID = cart.ID
		}
		cart.Items = cartItems
		cart.TotalPrice = model.Total(cartItems)
	}
	if update.Status != nil {
		cart.Status = *update.Status
	}

	if err := s.cartRepo.UpdateWithItems(cart); err != nil {
		logger.Error("Failed to update cart", err, map[string]interface{}{
			"cart_id": cart.ID,
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Cart updated successfully", map[string]interface{}{
		"cart_id":     cart.ID,
		"user_id":     userID,
		"total_price": cart.TotalPrice,
	})

	return cart, nil
}

func (s *cartService) DeleteCart(userID uint) error {
	logger.Info("Attempting cart deletion", map[string]interface{}{
		"user_id": userID,
	})

	if _, err := s.cartRepo.FindByUserID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart deletion failed: cart not found", map[string]interface{}{
				"user_id": userID,
			})
			return ErrCartNotFound
		}
		logger.Error("Failed to find cart for deletion", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	if err := s.cartRepo.DeleteByUserID(userID); err != nil {
		logger.Error("Failed to delete cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("Cart deleted successfully", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func buildCartItems(items []CartItemInput) []model.CartItem {
	cartItems := make([]model.CartItem, 0, len(items))
	for _, item := range items {
		cartItems = append(cartItems, model.CartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return cartItems
}
