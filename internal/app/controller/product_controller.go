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

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type CreateProductRequest struct {
	Name        string    `json:"name" validate:"required,min=2"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock" validate:"omitempty,gte=0"`
	IsAvailable *bool     `json:"is_available"`
	Ratings     []float64 `json:"ratings" validate:"omitempty,dive,gte=0,lte=5"`
	ImageURL    string    `json:"image_url" validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=2"`
	Price       *float64  `json:"price" validate:"omitempty,gt=0"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Stock       *int      `json:"stock" validate:"omitempty,gte=0"`
	IsAvailable *bool     `json:"is_available"`
	Ratings     []float64 `json:"ratings" validate:"omitempty,dive,gte=0,lte=5"`
	ImageURL    *string   `json:"image_url" validate:"omitempty,url"`
}

// ListProducts returns all products
// GET /api/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.productService.ListProducts()
	if err != nil {
		log.Error("Failed to list products", err)
		errors.ParseAndRespond(c, err, "fetch products")
		return
	}

	log.Info("Products listed successfully", map[string]interface{}{
		"count": len(products),
	})

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns a single product
// GET /api/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Warn("Invalid product ID", map[string]interface{}{
			"id": c.Param("id"),
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetProductByID(uint(id))
	if err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		errors.ParseAndRespond(c, err, "fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct creates a new product
// POST /api/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create product request body", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request body")
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		log.Warn("Create product validation failed", map[string]interface{}{
			"error_count": len(fieldErrors),
		})
		errors.RespondWithValidationErrors(c, fieldErrors)
		return
	}

	product := &model.Product{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Stock:       req.Stock,
		Ratings:     req.Ratings,
		ImageURL:    req.ImageURL,
	}
	product.IsAvailable = true
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	created, err := ctrl.productService.CreateProduct(product)
	if err != nil {
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
		})
		errors.ParseAndRespond(c, err, "create product")
		return
	}

	log.Info("Product created", map[string]interface{}{
		"product_id": created.ID,
		"name":       created.Name,
	})

	c.JSON(http.StatusCreated, gin.H{"product": created})
}

// UpdateProduct updates an existing product
// PUT /api/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Warn("Invalid product ID", map[string]interface{}{
			"id": c.Param("id"),
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid product ID")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update product request body", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request body")
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		log.Warn("Update product validation failed", map[string]interface{}{
			"product_id":  id,
			"error_count": len(fieldErrors),
		})
		errors.RespondWithValidationErrors(c, fieldErrors)
		return
	}

	update := service.ProductUpdate{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Stock:       req.Stock,
		IsAvailable: req.IsAvailable,
		Ratings:     req.Ratings,
		ImageURL:    req.ImageURL,
	}

	updated, err := ctrl.productService.UpdateProduct(uint(id), update)
	if err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		errors.ParseAndRespond(c, err, "update product")
		return
	}

	log.Info("Product updated", map[string]interface{}{
		"product_id": updated.ID,
	})

	c.JSON(http.StatusOK, gin.H{"product": updated})
}

// DeleteProduct deletes a product
// DELETE /api/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Warn("Invalid product ID", map[string]interface{}{
			"id": c.Param("id"),
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.DeleteProduct(uint(id)); err != nil {
		if stderrors.Is(err, service.ErrProductNotFound) {
			errors.NotFound(c, errors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		errors.ParseAndRespond(c, err, "delete product")
		return
	}

	log.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
