package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewAppError("DB_OPEN", "failed to open sqlite index", cause)

	assert.Equal(t, "DB_OPEN: failed to open sqlite index: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewAppError("DB_CONFIG", "invalid dsn", nil)
	assert.Equal(t, "DB_CONFIG: invalid dsn", bare.Error())
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, "ignored"))

	wrapped := WrapError(ErrNoText, "ocr")
	assert.ErrorIs(t, wrapped, ErrNoText)
	assert.Equal(t, "ocr: no usable text", wrapped.Error())
}
