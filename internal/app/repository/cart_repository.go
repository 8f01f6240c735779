package repository

import (
	"github.com/rkarim/cartify-backend/internal/app/model"
	"github.com/rkarim/cartify-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	Create(cart *model.Cart) error
	FindAll() ([]model.Cart, error)
	FindByID(id uint) (*model.Cart, error)
	FindByUserID(userID uint) (*model.Cart, error)
	UpdateWithItems(cart *model.Cart) error
	Delete(id uint) error
	DeleteByUserID(userID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(cart *model.Cart) error {
	logger.Debug("Creating cart in database", map[string]interface{}{
		"user_id":    cart.UserID,
		"item_count": len(cart.Items),
	})

	if err := r.db.Create(cart).Error; err != nil {
		logger.Error("Failed to create cart in database", err, map[string]interface{}{
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart created in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return nil
}

func (r *cartRepository) FindAll() ([]model.Cart, error) {
	logger.Debug("Finding all carts in database")

	var carts []model.Cart
	err := r.db.Preload("Items").Preload("Items.Product").Find(&carts).Error
	if err != nil {
		logger.Error("Failed to find carts in database", err)
		return nil, err
	}

	logger.Debug("Carts found in database", map[string]interface{}{
		"count": len(carts),
	})
	return carts, nil
}

func (r *cartRepository) FindByID(id uint) (*model.Cart, error) {
	logger.Debug("Finding cart by ID in database", map[string]interface{}{
		"cart_id": id,
	})

	var cart model.Cart
	err := r.db.Preload("Items").Preload("Items.Product").First(&cart, id).Error
	if err != nil {
		logger.Error("Failed to find cart by ID in database", err, map[string]interface{}{
			"cart_id": id,
		})
		return nil, err
	}

	logger.Debug("Cart found by ID in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return &cart, nil
}

func (r *cartRepository) FindByUserID(userID uint) (*model.Cart, error) {
	logger.Debug("Finding cart by user ID in database", map[string]interface{}{
		"user_id": userID,
	})

	var cart model.Cart
	err := r.db.Where("user_id = ?", userID).
		Preload("Items").
		Preload("Items.Product").
		First(&cart).Error
	if err != nil {
		logger.Error("Failed to find cart by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Cart found by user ID in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": userID,
	})
	return &cart, nil
}

// UpdateWithItems replaces the cart row and its item rows in one
// transaction. Old items are removed first so the new item set is
// authoritative.
func (r *cartRepository) UpdateWithItems(cart *model.Cart) error {
	logger.Debug("Updating cart with items in database", map[string]interface{}{
		"cart_id":    cart.ID,
		"user_id":    cart.UserID,
		"item_count": len(cart.Items),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Save(cart).Error
	})
	if err != nil {
		logger.Error("Failed to update cart with items in database", err, map[string]interface{}{
			"cart_id": cart.ID,
			"user_id": cart.UserID,
		})
		return err
	}

	logger.Debug("Cart updated with items in database", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})
	return nil
}

func (r *cartRepository) Delete(id uint) error {
	logger.Debug("Deleting cart from database", map[string]interface{}{
		"cart_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Cart{}, id).Error
	})
	if err != nil {
		logger.Error("Failed to delete cart from database", err, map[string]interface{}{
			"cart_id": id,
		})
		return err
	}

	logger.Debug("Cart deleted from database", map[string]interface{}{
		"cart_id": id,
	})
	return nil
}

func (r *cartRepository) DeleteByUserID(userID uint) error {
	logger.Debug("Deleting cart by user ID from database", map[string]interface{}{
		"user_id": userID,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var cart model.Cart
		if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
	if err != nil {
		logger.Error("Failed to delete cart by user ID from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Debug("Cart deleted by user ID from database", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
