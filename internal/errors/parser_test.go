package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestParseError_RecordNotFound(t *testing.T) {
	info := ParseError(gorm.ErrRecordNotFound, "get user")

	assert.Equal(t, ResourceNotFound, info.Code)
	assert.Equal(t, "User not found", info.Message)
}

func TestParseError_DuplicateEmail(t *testing.T) {
	err := errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`)

	info := ParseError(err, "create user")

	assert.Equal(t, UserEmailExists, info.Code)
}

func TestParseError_DuplicateCart(t *testing.T) {
	err := errors.New(`ERROR: duplicate key value violates unique constraint "idx_carts_user_id" (SQLSTATE 23505)`)

	info := ParseError(err, "create cart")

	assert.Equal(t, CartAlreadyExists, info.Code)
}

func TestParseError_ForeignKeyMissingUser(t *testing.T) {
	err := errors.New(`ERROR: insert or update on table "orders" violates foreign key constraint "fk_users_orders" (SQLSTATE 23503)`)

	info := ParseError(err, "create order")

	assert.Equal(t, UserNotFound, info.Code)
}

func TestParseError_NotNull(t *testing.T) {
	err := errors.New(`ERROR: null value in column "email" violates not-null constraint (SQLSTATE 23502)`)

	info := ParseError(err, "create user")

	assert.Equal(t, ValidationRequired, info.Code)
	assert.Equal(t, "Email is required", info.Message)
}

func TestParseError_UnknownFallsBackByContext(t *testing.T) {
	err := errors.New("something odd happened")

	info := ParseError(err, "update product")

	assert.Equal(t, InternalServerError, info.Code)
	assert.Equal(t, "Failed to update the record. Please try again later", info.Message)
}

func TestParseAndRespond_DuplicateCartAnswers400(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := errors.New(`ERROR: duplicate key value violates unique constraint "idx_carts_user_id" (SQLSTATE 23505)`)
	ParseAndRespond(c, err, "create cart")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CartAlreadyExists, body.Error)
	assert.Empty(t, body.Detail)
}

func TestParseAndRespond_RecordNotFoundAnswers404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ParseAndRespond(c, gorm.ErrRecordNotFound, "fetch order")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ResourceNotFound, body.Error)
	assert.Equal(t, "Order not found", body.Message)
}

func TestParseAndRespond_UnclassifiedKeeps500Detail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := errors.New("disk I/O error")
	ParseAndRespond(c, err, "update product")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, InternalServerError, body.Error)
	assert.Equal(t, "disk I/O error", body.Detail)
}
