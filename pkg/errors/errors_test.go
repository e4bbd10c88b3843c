package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		msg      string
		expected string
	}{
		{name: "nil error stays nil", err: nil, msg: "context"},
		{name: "adds context", err: errors.New("original"), msg: "context", expected: "context: original"},
		{name: "empty message", err: errors.New("original"), msg: "", expected: ": original"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Wrap(tt.err, tt.msg)
			if tt.err == nil {
				assert.NoError(t, result)
				return
			}
			assert.EqualError(t, result, tt.expected)
			assert.ErrorIs(t, result, tt.err)
		})
	}
}

func TestWrapf(t *testing.T) {
	assert.NoError(t, Wrapf(nil, "term %s", "rust"))

	err := Wrapf(ErrUpstreamResponse, "term %s", "rust")
	assert.EqualError(t, err, "term rust: unexpected upstream response")
	assert.ErrorIs(t, err, ErrUpstreamResponse)
}

func TestConfigDetailErrors(t *testing.T) {
	assert.ErrorIs(t, ErrInvalidLogLevelWithDetails("loud"), ErrConfigValidation)
	assert.Contains(t, ErrInvalidLogLevelWithDetails("loud").Error(), `"loud"`)
	assert.ErrorIs(t, ErrInvalidLogFormatWithDetails("xml"), ErrConfigValidation)
}
