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

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type CartItemRequest struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gte=1"`
	Price     float64 `json:"price" validate:"required,gt=0"`
}

type CreateCartRequest struct {
	UserID uint              `json:"user_id" validate:"required"`
	Items  []CartItemRequest `json:"items" validate:"required,dive"`
}

type UpdateCartRequest struct {
	Items  []CartItemRequest `json:"items" validate:"omitempty,dive"`
	Status *string           `json:"status" validate:"omitempty,oneof=active ordered cancelled"`
}

// ListCarts returns all carts
// GET /api/carts
func (ctrl *CartController) ListCarts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	carts, err := ctrl.cartService.ListCarts()
	if err != nil {
		log.Error("Failed to list carts", err)
		errors.ParseAndRespond(c, err, "fetch carts")
		return
	}

	log.Info("Carts listed successfully", map[string]interface{}{
		"count": len(carts),
	})

	c.JSON(http.StatusOK, gin.H{
		"carts": carts,
		"count": len(carts),
	})
}

// GetCart returns the cart of one user
// GET /api/carts/:user_id
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		log.Warn("Invalid user ID", map[string]interface{}{
			"user_id": c.Param("user_id"),
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid user ID")
		return
	}

	cart, err := ctrl.cartService.GetCartByUserID(uint(userID))
	if err != nil {
		if stderrors.Is(err, service.ErrCartNotFound) {
			errors.NotFound(c, errors.CartNotFound, "Cart not found")
			return
		}
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.ParseAndRespond(c, err, "fetch cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// CreateCart creates a cart for a user
// POST /api/carts
func (ctrl *CartController) CreateCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create cart request body", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request body")
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		log.Warn("Create cart validation failed", map[string]interface{}{
			"error_count": len(fieldErrors),
		})
		errors.RespondWithValidationErrors(c, fieldErrors)
		return
	}

	cart, err := ctrl.cartService.CreateCart(req.UserID, buildCartItemInputs(req.Items))
	if err != nil {
		if stderrors.Is(err, service.ErrCartAlreadyExists) {
			errors.BadRequest(c, errors.CartAlreadyExists, "This user already has a cart")
			return
		}
		log.Error("Failed to create cart", err, map[string]interface{}{
			"user_id": req.UserID,
		})
		errors.ParseAndRespond(c, err, "create cart")
		return
	}

	log.Info("Cart created", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})

	c.JSON(http.StatusCreated, gin.H{"cart": cart})
}

// UpdateCart replaces the cart contents of a user
// PUT /api/carts/:user_id
func (ctrl *CartController) UpdateCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		log.Warn("Invalid user ID", map[string]interface{}{
			"user_id": c.Param("user_id"),
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid user ID")
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request body", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request body")
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		log.Warn("Update cart validation failed", map[string]interface{}{
			"user_id":     userID,
			"error_count": len(fieldErrors),
		})
		errors.RespondWithValidationErrors(c, fieldErrors)
		return
	}

	update := service.CartUpdate{}
	if req.Items != nil {
		update.Items = buildCartItemInputs(req.Items)
	}
	if req.Status != nil {
		status := model.CartStatus(*req.Status)
		update.Status = &status
	}

	cart, err := ctrl.cartService.UpdateCart(uint(userID), update)
	if err != nil {
		if stderrors.Is(err, service.ErrCartNotFound) {
			errors.NotFound(c, errors.CartNotFound, "Cart not found")
			return
		}
		log.Error("Failed to update cart", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.ParseAndRespond(c, err, "update cart")
		return
	}

	log.Info("Cart updated", map[string]interface{}{
		"cart_id": cart.ID,
		"user_id": cart.UserID,
	})

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// DeleteCart removes the cart of a user
// DELETE /api/carts/:user_id
func (ctrl *CartController) DeleteCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		log.Warn("Invalid user ID", map[string]interface{}{
			"user_id": c.Param("user_id"),
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid user ID")
		return
	}

	if err := ctrl.cartService.DeleteCart(uint(userID)); err != nil {
		if stderrors.Is(err, service.ErrCartNotFound) {
			errors.NotFound(c, errors.CartNotFound, "Cart not found")
			return
		}
		log.Error("Failed to delete cart", err, map[string]interface{}{
			"user_id": userID,
		})
		errors.ParseAndRespond(c, err, "delete cart")
		return
	}

	log.Info("Cart deleted", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Cart deleted successfully"})
}

func buildCartItemInputs(items []CartItemRequest) []service.CartItemInput {
	inputs := make([]service.CartItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.CartItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return inputs
}
