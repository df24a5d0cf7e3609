package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	err := New(ErrCodeValidation, "bad input")
	assert.Equal(t, "[VALIDATION_ERROR] bad input", err.Error())

	wrapped := Wrap(ErrCodeBackend, "read failed", io.ErrUnexpectedEOF)
	assert.Equal(t, "[BACKEND_ERROR] read failed: unexpected EOF", wrapped.Error())
	assert.ErrorIs(t, wrapped, io.ErrUnexpectedEOF)
}

func TestInvalidDate(t *testing.T) {
	err := InvalidDate("2024/01/05")
	assert.Equal(t, ErrCodeInvalidDate, err.Code)
	assert.Equal(t, "2024/01/05", err.Details["date"])
}

func TestIs_ThroughWrapping(t *testing.T) {
	base := BackendError("s3", "read", io.EOF)
	outer := fmt.Errorf("history query: %w", base)

	assert.True(t, Is(outer, ErrCodeBackend))
	assert.False(t, Is(outer, ErrCodeInvalidDate))
	assert.False(t, Is(io.EOF, ErrCodeBackend))
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"structured", InvalidDate(""), ErrCodeInvalidDate},
		{"wrapped", fmt.Errorf("x: %w", HostError("fetch", io.EOF)), ErrCodeHost},
		{"plain", io.EOF, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestWithDetail(t *testing.T) {
	err := ParseError("2024-01-05 Events.txt", io.ErrUnexpectedEOF).WithDetail("line", 12)
	require.NotNil(t, err.Details)
	assert.Equal(t, 12, err.Details["line"])
	assert.Equal(t, "2024-01-05 Events.txt", err.Details["file"])
}

func TestWithDetail_NilDetails(t *testing.T) {
	err := ValidationError("unknown host order", nil).WithDetail("host_order", "sideways")
	assert.Equal(t, "sideways", err.Details["host_order"])
	assert.True(t, Is(err, ErrCodeValidation))
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("route", "/nope")
	assert.Equal(t, `route "/nope" not found`, err.Message)
	assert.Equal(t, ErrCodeNotFound, CodeOf(err))
	assert.Equal(t, "/nope", err.Details["name"])
}
