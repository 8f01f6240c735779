package service

import (
	"errors"

	"github.com/rkarim/cartify-backend/internal/app/model"
	"github.com/rkarim/cartify-backend/internal/app/repository"
	"github.com/rkarim/cartify-backend/pkg/logger"
	"github.com/rkarim/cartify-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// UserUpdate carries the optional fields of a user update. Nil fields
// are left untouched.
type UserUpdate struct {
	Name     *string
	Email    *string
	Age      *int
	Password *string
	Address  *model.UserAddress
	Role     *model.UserRole
	IsActive *bool
	Hobbies  []string
}

type UserService interface {
	ListUsers() ([]model.User, error)
	GetUserByID(id uint) (*model.User, error)
	CreateUser(user *model.User, password string) (*model.User, error)
	UpdateUser(id uint, update UserUpdate) (*model.User, error)
	DeleteUser(id uint) error
	Authenticate(email, password string) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers() ([]model.User, error) {
	logger.Debug("Listing users")

	users, err := s.userRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list users", err)
		return nil, err
	}

	return users, nil
}

func (s *userService) GetUserByID(id uint) (*model.User, error) {
	logger.Debug("Getting user by ID", map[string]interface{}{
		"user_id": id,
	})

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to get user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return user, nil
}

func (s *userService) CreateUser(user *model.User, password string) (*model.User, error) {
	logger.Info("Attempting user creation", map[string]interface{}{
		"email": user.Email,
		"name":  user.Name,
	})

	// Check if user already exists
	existingUser, err := s.userRepo.FindByEmail(user.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": user.Email,
		})
		return nil, err
	}
	if existingUser != nil {
		logger.Warn("User creation failed: email already exists", map[string]interface{}{
			"email": user.Email,
		})
		return nil, ErrEmailAlreadyExists
	}

	// Hash password
	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": user.Email,
		})
		return nil, err
	}
	user.PasswordHash = hashedPassword

	if user.Role == "" {
		user.Role = model.RoleUser
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user", err, map[string]interface{}{
			"email": user.Email,
		})
		return nil, err
	}

	logger.Info("User created successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
	})

	return user, nil
}

func (s *userService) UpdateUser(id uint, update UserUpdate) (*model.User, error) {
	logger.Info("Attempting user update", map[string]interface{}{
		"user_id": id,
	})

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User update failed: user not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to find user for update", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	if update.Email != nil && *update.Email != user.Email {
		existingUser, err := s.userRepo.FindByEmail(*update.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to check existing email", err, map[string]interface{}{
				"email": *update.Email,
			})
			return nil, err
		}
		if existingUser != nil {
			logger.Warn("User update failed: email already exists", map[string]interface{}{
				"user_id": id,
				"email":   *update.Email,
			})
			return nil, ErrEmailAlreadyExists
		}
		user.Email = *update.Email
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Age != nil {
		user.Age = *update.Age
	}
	if update.Address != nil {
		user.Address = *update.Address
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	if update.IsActive != nil {
		user.IsActive = *update.IsActive
	}
	if update.Hobbies != nil {
		user.Hobbies = update.Hobbies
	}

	// Only rehash when a new password was supplied
	if update.Password != nil {
		hashedPassword, err := util.HashPassword(*update.Password)
		if err != nil {
			logger.Error("Failed to hash new password", err, map[string]interface{}{
				"user_id": id,
			})
			return nil, err
		}
		user.PasswordHash = hashedPassword
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	logger.Info("User updated successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	return user, nil
}

func (s *userService) DeleteUser(id uint) error {
	logger.Info("Attempting user deletion", map[string]interface{}{
		"user_id": id,
	})

	// Fetch first so a missing user reports not found, not success
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User deletion failed: user not found", map[string]interface{}{
				"user_id": id,
			})
			return ErrUserNotFound
		}
		logger.Error("Failed to find user for deletion", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		logger.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	logger.Info("User deleted successfully", map[string]interface{}{
		"user_id": id,
	})
	return nil
}

func (s *userService) Authenticate(email, password string) (*model.User, error) {
	logger.Info("Authentication attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Authentication failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user for authentication", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Authentication failed: wrong password", map[string]interface{}{
			"email": email,
		})
		return nil, ErrInvalidCredentials
	}

	logger.Info("Authentication successful", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return user, nil
}
