package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := NotFound("job not found")
		assert.Equal(t, "job not found", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := stderrors.New("connection refused")
		err := Wrap(cause, ErrCodeInternal, "save callback")
		assert.Equal(t, "save callback: connection refused", err.Error())
	})
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(cause, ErrCodeInternal, "wrapped")
	require.ErrorIs(t, err, cause)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "nothing"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "nothing %d", 1))
}

func TestCodeHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"not found", NotFound("x"), IsNotFound},
		{"conflict", Conflict("x"), IsConflict},
		{"validation", Validation("x"), IsValidation},
		{"wrapped not found", fmt.Errorf("outer: %w", NotFoundf("job %s", "abc")), IsNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
		})
	}

	assert.False(t, IsNotFound(stderrors.New("plain")))
	assert.False(t, IsConflict(NotFound("x")))
}

func TestGetCodeAndField(t *testing.T) {
	err := ValidationField("feature", "unknown feature")
	assert.Equal(t, ErrCodeValidation, GetCode(err))
	assert.Equal(t, "feature", GetField(err))

	assert.Equal(t, ErrorCode(""), GetCode(stderrors.New("plain")))
	assert.Equal(t, "", GetField(stderrors.New("plain")))
}
