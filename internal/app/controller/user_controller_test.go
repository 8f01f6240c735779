package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rkarim/cartify-backend/internal/app/repository"
	"github.com/rkarim/cartify-backend/internal/app/service"
	"github.com/rkarim/cartify-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserControllerTest(t *testing.T) (*gin.Engine, service.UserService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	userService := service.NewUserService(userRepo)
	userController := NewUserController(userService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/users", userController.ListUsers)
	router.GET("/users/:id", userController.GetUser)
	router.POST("/users", userController.CreateUser)
	router.PUT("/users/:id", userController.UpdateUser)
	router.DELETE("/users/:id", userController.DeleteUser)

	return router, userService
}

func postJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validCreateUserBody() map[string]interface{} {
	return map[string]interface{}{
		"name":     "Rakib",
		"email":    "rakib@example.com",
		"age":      28,
		"password": "secret123",
		"address": map[string]string{
			"street":  "12 Lake Rd",
			"city":    "Dhaka",
			"country": "Bangladesh",
		},
		"hobbies": []string{"reading"},
	}
}

func TestUserController_CreateUser_Success(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	w := postJSON(t, router, http.MethodPost, "/users", validCreateUserBody())

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	user := response["user"].(map[string]interface{})
	assert.Equal(t, "rakib@example.com", user["email"])
	// Password hash never leaves the API
	_, exposed := user["password_hash"]
	assert.False(t, exposed)
	assert.NotContains(t, w.Body.String(), "secret123")
}

func TestUserController_CreateUser_CollectsValidationErrors(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	w := postJSON(t, router, http.MethodPost, "/users", map[string]interface{}{
		"name":     "R",
		"email":    "not-an-email",
		"password": "123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response struct {
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	// All failing fields reported at once
	assert.Len(t, response.Errors, 4)
	fields := make([]string, 0, len(response.Errors))
	for _, fieldErr := range response.Errors {
		fields = append(fields, fieldErr.Field)
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "age")
	assert.Contains(t, fields, "password")
}

func TestUserController_CreateUser_DuplicateEmail(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	w := postJSON(t, router, http.MethodPost, "/users", validCreateUserBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, http.MethodPost, "/users", validCreateUserBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestUserController_ListUsers_EmptyReturns200(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["count"])
}

func TestUserController_GetUser_NotFound(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/users/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}

func TestUserController_GetUser_InvalidID(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/users/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserController_UpdateUser_PartialBody(t *testing.T) {
	router, userService := setupUserControllerTest(t)

	w := postJSON(t, router, http.MethodPost, "/users", validCreateUserBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := uint(created["user"].(map[string]interface{})["id"].(float64))

	w = postJSON(t, router, http.MethodPut, "/users/1", map[string]interface{}{
		"name": "Renamed",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	user, err := userService.GetUserByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", user.Name)
	assert.Equal(t, "rakib@example.com", user.Email)
}

func TestUserController_UpdateUser_NotFound(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	w := postJSON(t, router, http.MethodPut, "/users/9999", map[string]interface{}{
		"name": "Nobody",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserController_DeleteUser(t *testing.T) {
	router, _ := setupUserControllerTest(t)

	w := postJSON(t, router, http.MethodPost, "/users", validCreateUserBody())
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodDelete, "/users/1", nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code)

	// Second delete reports not found
	req = httptest.NewRequest(http.MethodDelete, "/users/1", nil)
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, req)
	assert.Equal(t, http.StatusNotFound, w3.Code)
}
