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

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

type AddressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type CreateUserRequest struct {
	Name     string          `json:"name" validate:"required,min=2"`
	Email    string          `json:"email" validate:"required,email"`
	Age      int             `json:"age" validate:"required,gt=0"`
	Password string          `json:"password" validate:"required,min=6"`
	Address  *AddressRequest `json:"address"`
	Role     string          `json:"role" validate:"omitempty,oneof=user admin"`
	IsActive *bool           `json:"is_active"`
	Hobbies  []string        `json:"hobbies"`
}

type UpdateUserRequest struct {
	Name     *string         `json:"name" validate:"omitempty,min=2"`
	Email    *string         `json:"email" validate:"omitempty,email"`
	Age      *int            `json:"age" validate:"omitempty,gt=0"`
	Password *string         `json:"password" validate:"omitempty,min=6"`
	Address  *AddressRequest `json:"address"`
	Role     *string         `json:"role" validate:"omitempty,oneof=user admin"`
	IsActive *bool           `json:"is_active"`
	Hobbies  []string        `json:"hobbies"`
}

// ListUsers returns all users
// GET /api/users
func (ctrl *UserController) ListUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	users, err := ctrl.userService.ListUsers()
	if err != nil {
		log.Error("Failed to list users", err)
		errors.ParseAndRespond(c, err, "fetch users")
		return
	}

	log.Info("Users listed successfully", map[string]interface{}{
		"count": len(users),
	})

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// GetUser returns a single user
// GET /api/users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Warn("Invalid user ID", map[string]interface{}{
			"id": c.Param("id"),
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid user ID")
		return
	}

	user, err := ctrl.userService.GetUserByID(uint(id))
	if err != nil {
		if stderrors.Is(err, service.ErrUserNotFound) {
			errors.NotFound(c, errors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		errors.ParseAndRespond(c, err, "fetch user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CreateUser creates a new user
// POST /api/users
func (ctrl *UserController) CreateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create user request body", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request body")
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		log.Warn("Create user validation failed", map[string]interface{}{
			"error_count": len(fieldErrors),
		})
		errors.RespondWithValidationErrors(c, fieldErrors)
		return
	}

	user := &model.User{
		Name:    req.Name,
		Email:   req.Email,
		Age:     req.Age,
		Role:    model.UserRole(req.Role),
		Hobbies: req.Hobbies,
	}
	if req.Address != nil {
		user.Address = model.UserAddress{
			Street:  req.Address.Street,
			City:    req.Address.City,
			Country: req.Address.Country,
		}
	}
	user.IsActive = true
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	created, err := ctrl.userService.CreateUser(user, req.Password)
	if err != nil {
		if stderrors.Is(err, service.ErrEmailAlreadyExists) {
			errors.BadRequest(c, errors.UserEmailExists, "A user with this email already exists")
			return
		}
		log.Error("Failed to create user", err, map[string]interface{}{
			"email": req.Email,
		})
		errors.ParseAndRespond(c, err, "create user")
		return
	}

	log.Info("User created", map[string]interface{}{
		"user_id": created.ID,
		"email":   created.Email,
	})

	c.JSON(http.StatusCreated, gin.H{"user": created})
}

// UpdateUser updates an existing user
// PUT /api/users/:id
func (ctrl *UserController) UpdateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Warn("Invalid user ID", map[string]interface{}{
			"id": c.Param("id"),
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid user ID")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update user request body", map[string]interface{}{
			"user_id": id,
			"error":   err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request body")
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		log.Warn("Update user validation failed", map[string]interface{}{
			"user_id":     id,
			"error_count": len(fieldErrors),
		})
		errors.RespondWithValidationErrors(c, fieldErrors)
		return
	}

	update := service.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Age:      req.Age,
		Password: req.Password,
		IsActive: req.IsActive,
		Hobbies:  req.Hobbies,
	}
	if req.Address != nil {
		update.Address = &model.UserAddress{
			Street:  req.Address.Street,
			City:    req.Address.City,
			Country: req.Address.Country,
		}
	}
	if req.Role != nil {
		role := model.UserRole(*req.Role)
		update.Role = &role
	}

	updated, err := ctrl.userService.UpdateUser(uint(id), update)
	if err != nil {
		if stderrors.Is(err, service.ErrUserNotFound) {
			errors.NotFound(c, errors.UserNotFound, "User not found")
			return
		}
		if stderrors.Is(err, service.ErrEmailAlreadyExists) {
			errors.BadRequest(c, errors.UserEmailExists, "A user with this email already exists")
			return
		}
		log.Error("Failed to update user", err, map[string]interface{}{
			"user_id": id,
		})
		errors.ParseAndRespond(c, err, "update user")
		return
	}

	log.Info("User updated", map[string]interface{}{
		"user_id": updated.ID,
	})

	c.JSON(http.StatusOK, gin.H{"user": updated})
}

// DeleteUser deletes a user
// DELETE /api/users/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		log.Warn("Invalid user ID", map[string]interface{}{
			"id": c.Param("id"),
		})
		errors.BadRequest(c, errors.ValidationInvalidID, "Invalid user ID")
		return
	}

	if err := ctrl.userService.DeleteUser(uint(id)); err != nil {
		if stderrors.Is(err, service.ErrUserNotFound) {
			errors.NotFound(c, errors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": id,
		})
		errors.ParseAndRespond(c, err, "delete user")
		return
	}

	log.Info("User deleted", map[string]interface{}{
		"user_id": id,
	})

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
