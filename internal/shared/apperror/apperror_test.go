package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-leave/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and message", func(t *testing.T) {
		err := apperror.New(apperror.CodeConflict, "Leave request is not pending", http.StatusConflict)

		got := apperror.ToHTTP(fmt.Errorf("approve: %w", err))

		assert.Equal(t, http.StatusConflict, got.Status)
		assert.Equal(t, apperror.CodeConflict, got.Code)
		assert.Equal(t, "Leave request is not pending", got.Message)
	})

	t.Run("unknown error is internal", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.Equal(t, "Internal server error", got.Message)
	})
}

func TestWrap(t *testing.T) {
	cause := errors.New("duplicate key value")
	err := apperror.Wrap(cause, apperror.CodeConflict, "Username already taken", http.StatusConflict)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Username already taken: duplicate key value", err.Error())
	assert.Nil(t, apperror.Wrap(nil, apperror.CodeConflict, "x", http.StatusConflict))
}

func TestMapValidationError(t *testing.T) {
	type payload struct {
		StartDate string `validate:"required"`
		LeaveType string `validate:"oneof=annual sick"`
	}

	v := validator.New()

	t.Run("required", func(t *testing.T) {
		err := v.Struct(payload{LeaveType: "annual"})
		got := apperror.MapValidationError(err)

		assert.Equal(t, http.StatusBadRequest, got.HTTPStatus)
		assert.Equal(t, "Startdate is required", got.Message)
	})

	t.Run("other tag", func(t *testing.T) {
		err := v.Struct(payload{StartDate: "2025-03-10", LeaveType: "vacation"})
		got := apperror.MapValidationError(err)

		assert.Equal(t, "Leavetype is invalid", got.Message)
	})

	t.Run("non validator error", func(t *testing.T) {
		got := apperror.MapValidationError(errors.New("EOF"))
		assert.Equal(t, "Invalid input", got.Message)
	})
}
