package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestIsTransient_StatusCodes(t *testing.T) {
	tests := []struct {
		code      int
		transient bool
	}{
		{429, true},
		{500, true},
		{502, true},
		{503, true},
		{504, true},
		{400, false},
		{401, false},
		{403, false},
		{404, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.code), func(t *testing.T) {
			err := fmt.Errorf("call failed: %w", &googleapi.Error{Code: tt.code, Message: "x"})
			assert.Equal(t, tt.transient, IsTransient(err))
		})
	}
}

func TestIsTransient_MessageFragments(t *testing.T) {
	assert.True(t, IsTransient(errors.New("provider says: rate limit exceeded")))
	assert.True(t, IsTransient(errors.New("the model is overloaded, try again later")))
	assert.True(t, IsTransient(errors.New("dial tcp: i/o timeout")))
	assert.False(t, IsTransient(errors.New("invalid API key")))
}

func TestIsTransient_ContextDeadline(t *testing.T) {
	assert.True(t, IsTransient(fmt.Errorf("generate: %w", context.DeadlineExceeded)))
}

func TestIsTransient_Nil(t *testing.T) {
	assert.False(t, IsTransient(nil))
}
