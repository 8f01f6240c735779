package service

import (
	"testing"

	"github.com/rkarim/cartify-backend/internal/app/model"
	"github.com/rkarim/cartify-backend/internal/app/repository"
	"github.com/rkarim/cartify-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (CartService, *model.User, *model.Product, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	cartService := NewCartService(cartRepo)

	user := &model.User{
		Name:         "Test User",
		Email:        "cart@example.com",
		Age:          30,
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	product := &model.Product{
		Name:        "Test Product",
		Price:       10,
		Category:    "misc",
		Stock:       100,
		IsAvailable: true,
	}
	testDB.Create(product)

	return cartService, user, product, testDB
}

func TestCartService_CreateCart_DerivesTotal(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	cart, err := cartService.CreateCart(user.ID, []CartItemInput{
		{ProductID: product.ID, Quantity: 2, Price: 10},
		{ProductID: product.ID, Quantity: 1, Price: 5.5},
	})

	assert.NoError(t, err)
	assert.NotZero(t, cart.ID)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 25.5, cart.TotalPrice)
	assert.Equal(t, model.CartStatusActive, cart.Status)
}

func TestCartService_CreateCart_EmptyItems(t *testing.T) {
	cartService, user, _, _ := setupCartServiceTest(t)

	cart, err := cartService.CreateCart(user.ID, nil)

	assert.NoError(t, err)
	assert.Equal(t, float64(0), cart.TotalPrice)
	assert.Len(t, cart.Items, 0)
}

func TestCartService_CreateCart_DuplicateUser(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.CreateCart(user.ID, []CartItemInput{
		{ProductID: product.ID, Quantity: 1, Price: 10},
	})
	require.NoError(t, err)

	_, err = cartService.CreateCart(user.ID, []CartItemInput{
		{ProductID: product.ID, Quantity: 2, Price: 10},
	})

	assert.ErrorIs(t, err, ErrCartAlreadyExists)
}

func TestCartService_GetCartByUserID_NotFound(t *testing.T) {
	cartService, _, _, _ := setupCartServiceTest(t)

	_, err := cartService.GetCartByUserID(9999)

	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartService_UpdateCart_ReplacesItemsAndRecomputesTotal(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.CreateCart(user.ID, []CartItemInput{
		{ProductID: product.ID, Quantity: 2, Price: 10},
	})
	require.NoError(t, err)

	updated, err := cartService.UpdateCart(user.ID, CartUpdate{
		Items: []CartItemInput{
			{ProductID: product.ID, Quantity: 3, Price: 7},
		},
	})

	assert.NoError(t, err)
	assert.Len(t, updated.Items, 1)
	assert.Equal(t, float64(21), updated.TotalPrice)

	// Old item rows are gone, not orphaned
	reloaded, err := cartService.GetCartByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Items, 1)
	assert.Equal(t, 3, reloaded.Items[0].Quantity)
}

func TestCartService_UpdateCart_StatusOnlyKeepsItems(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.CreateCart(user.ID, []CartItemInput{
		{ProductID: product.ID, Quantity: 2, Price: 10},
	})
	require.NoError(t, err)

	status := model.CartStatusCancelled
	updated, err := cartService.UpdateCart(user.ID, CartUpdate{Status: &status})

	assert.NoError(t, err)
	assert.Equal(t, model.CartStatusCancelled, updated.Status)
	assert.Equal(t, float64(20), updated.TotalPrice)

	reloaded, err := cartService.GetCartByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Items, 1)
}

func TestCartService_UpdateCart_NotFound(t *testing.T) {
	cartService, _, _, _ := setupCartServiceTest(t)

	_, err := cartService.UpdateCart(9999, CartUpdate{})

	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartService_DeleteCart(t *testing.T) {
	cartService, user, product, testDB := setupCartServiceTest(t)

	_, err := cartService.CreateCart(user.ID, []CartItemInput{
		{ProductID: product.ID, Quantity: 2, Price: 10},
	})
	require.NoError(t, err)

	err = cartService.DeleteCart(user.ID)
	assert.NoError(t, err)

	_, err = cartService.GetCartByUserID(user.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	// Item rows go with the cart
	var count int64
	testDB.Model(&model.CartItem{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCartService_DeleteCart_NotFound(t *testing.T) {
	cartService, _, _, _ := setupCartServiceTest(t)

	err := cartService.DeleteCart(9999)

	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartService_DeleteThenRecreate(t *testing.T) {
	cartService, user, product, _ := setupCartServiceTest(t)

	_, err := cartService.CreateCart(user.ID, []CartItemInput{
		{ProductID: product.ID, Quantity: 1, Price: 10},
	})
	require.NoError(t, err)

	require.NoError(t, cartService.DeleteCart(user.ID))

	// A deleted cart frees the user slot
	cart, err := cartService.CreateCart(user.ID, []CartItemInput{
		{ProductID: product.ID, Quantity: 2, Price: 10},
	})
	assert.NoError(t, err)
	assert.Equal(t, float64(20), cart.TotalPrice)
}
