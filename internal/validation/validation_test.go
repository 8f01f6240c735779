package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleAddress struct {
	Street string `json:"street" validate:"required"`
	City   string `json:"city" validate:"required"`
}

type sampleRequest struct {
	Name    string         `json:"name" validate:"required,min=2"`
	Email   string         `json:"email" validate:"required,email"`
	Age     int            `json:"age" validate:"required,gt=0"`
	Role    string         `json:"role" validate:"omitempty,oneof=user admin"`
	Address *sampleAddress `json:"address" validate:"omitempty"`
}

func TestValidate_ValidInput(t *testing.T) {
	input := sampleRequest{
		Name:  "Rakib",
		Email: "rakib@example.com",
		Age:   28,
		Role:  "user",
	}

	errs := Validate(input)

	assert.Nil(t, errs)
}

func TestValidate_CollectsAllFailures(t *testing.T) {
	input := sampleRequest{
		Name:  "R",
		Email: "not-an-email",
		Age:   0,
	}

	errs := Validate(input)

	assert.Len(t, errs, 3)

	fields := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		fields = append(fields, fieldErr.Field)
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "age")
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	input := sampleRequest{
		Email: "rakib@example.com",
		Age:   28,
	}

	errs := Validate(input)

	assert.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Field)
	assert.Equal(t, "name is required", errs[0].Message)
}

func TestValidate_NestedFieldPath(t *testing.T) {
	input := sampleRequest{
		Name:    "Rakib",
		Email:   "rakib@example.com",
		Age:     28,
		Address: &sampleAddress{Street: "12 Lake Rd"},
	}

	errs := Validate(input)

	assert.Len(t, errs, 1)
	assert.Equal(t, "address.city", errs[0].Field)
}

func TestValidate_OneOfMessage(t *testing.T) {
	input := sampleRequest{
		Name:  "Rakib",
		Email: "rakib@example.com",
		Age:   28,
		Role:  "superuser",
	}

	errs := Validate(input)

	assert.Len(t, errs, 1)
	assert.Equal(t, "role", errs[0].Field)
	assert.Equal(t, "role must be one of: user, admin", errs[0].Message)
}
