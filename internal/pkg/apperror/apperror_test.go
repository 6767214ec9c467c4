package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_MapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{New(ErrNotFound, "booking not found"), http.StatusNotFound, "NOT_FOUND"},
		{New(ErrInvalidState, "already processed"), http.StatusBadRequest, "INVALID_STATE"},
		{New(ErrAlreadyExists, "duplicate"), http.StatusBadRequest, "ALREADY_EXISTS"},
		{New(ErrForbidden, "nope"), http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("wrapped: %w", New(ErrUnauthorized, "bad token")), http.StatusUnauthorized, "UNAUTHORIZED"},
		{errors.New("db down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		status, code := Status(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestValidationError_CollectsAllFields(t *testing.T) {
	v := NewValidation()
	assert.NoError(t, v.Err())

	v.Add("type", "is required")
	v.Add("price", "must be greater than 0")
	v.Add("type", "second message is ignored")

	err := v.Err()
	assert.ErrorIs(t, err, ErrValidation)
	assert.Len(t, v.Fields, 2)
	assert.Equal(t, "is required", v.Fields["type"])
	assert.Equal(t, "validation failed: price: must be greater than 0; type: is required", err.Error())
}
