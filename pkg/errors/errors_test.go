package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_KeepsKindAndCause(t *testing.T) {
	kind := NewInternalError("message delivery failed")
	cause := errors.New("Bad Request: file is too big")

	err := Wrap(kind, cause)

	require.Error(t, err)
	assert.True(t, IsInternalError(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "message delivery failed: Bad Request: file is too big", err.Error())
}

func TestWrap_UntypedKindBecomesInternal(t *testing.T) {
	err := Wrap(errors.New("boom"), nil)
	assert.True(t, IsInternalError(err))
	assert.Equal(t, "boom", err.Error())
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"validation", NewValidationError("empty link"), ErrorTypeValidation},
		{"not found", NewNotFoundError("no media"), ErrorTypeNotFound},
		{"unavailable", NewUnavailableError("yt-dlp missing"), ErrorTypeUnavailable},
		{"internal", NewInternalError("x"), ErrorTypeInternal},
		{"wrapped with fmt", fmt.Errorf("handler: %w", NewValidationError("bad")), ErrorTypeValidation},
		{"plain", errors.New("plain"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "validation", ErrorTypeValidation.String())
	assert.Equal(t, "not_found", ErrorTypeNotFound.String())
	assert.Equal(t, "unavailable", ErrorTypeUnavailable.String())
	assert.Equal(t, "internal", ErrorTypeInternal.String())
}
