package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteError(rec, "not found", http.StatusNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message": "not found"}`, rec.Body.String())
}

func TestWriteValidationError(t *testing.T) {
	type form struct {
		Email string `validate:"required,email"`
		Role  string `validate:"omitempty,oneof=consumer shop_owner"`
	}

	err := validator.New().Struct(form{Email: "nope", Role: "ghost"})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, WriteValidationError(rec, err))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid request", resp.Message)
	assert.Equal(t, "must be a valid email address", resp.Fields["Email"])
	assert.Equal(t, "must be one of: consumer shop_owner", resp.Fields["Role"])
}
