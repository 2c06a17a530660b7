package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorPreservesTypedErrors(t *testing.T) {
	typed := Clone(ErrValidation, "bad payload")
	wrapped := Wrap(typed, "OUTER", http.StatusTeapot, "outer")

	got := FromError(typed)
	assert.Same(t, typed, got)

	got = FromError(errors.New("boom"))
	require.NotNil(t, got)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)

	assert.True(t, errors.Is(wrapped, typed))
	assert.Nil(t, FromError(nil))
}

func TestWithDetailsCopies(t *testing.T) {
	details := map[string]string{"age": "Age is required"}
	got := WithDetails(ErrValidation, details)
	details["age"] = "changed"

	assert.Equal(t, "Age is required", got.Details["age"])
	assert.Empty(t, ErrValidation.Details)
	assert.Equal(t, "validation failed", got.Error())
}
