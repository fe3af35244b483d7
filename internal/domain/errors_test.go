package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidation(t *testing.T) {
	err := Validationf("quantity must be positive, got %d", -5)

	assert.True(t, IsValidation(err))
	assert.Equal(t, "quantity must be positive, got -5", err.Error())

	wrapped := fmt.Errorf("add holding: %w", err)
	assert.True(t, IsValidation(wrapped), "wrapped validation errors must still classify")

	assert.False(t, IsValidation(errors.New("disk full")))
	assert.False(t, IsValidation(nil))
}

func TestIsIntegrity(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: holdings.symbol")
	err := Integrity("add holding", cause)

	assert.True(t, IsIntegrity(err))
	assert.False(t, IsValidation(err))
	assert.ErrorIs(t, err, cause, "IntegrityError must unwrap to its cause")
	assert.Contains(t, err.Error(), "add holding")

	wrapped := fmt.Errorf("request failed: %w", err)
	assert.True(t, IsIntegrity(wrapped))
}
