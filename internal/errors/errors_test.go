package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errStore = New("store unavailable")

type codedError struct{ code int }

func (e *codedError) Error() string { return fmt.Sprintf("code %d", e.code) }

func TestWrapKeepsChain(t *testing.T) {
	wrapped := Wrap(errStore, "failed to load user")

	assert.EqualError(t, wrapped, "failed to load user: store unavailable")
	assert.True(t, Is(wrapped, errStore))
	assert.Contains(t, fmt.Sprintf("%+v", wrapped), "TestWrapKeepsChain")
}

func TestNilPassthrough(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))
	assert.NoError(t, WithStack(nil))
}

func TestAsThroughStack(t *testing.T) {
	err := WithStack(Wrap(&codedError{code: 7}, "outer"))

	var coded *codedError
	assert.True(t, As(err, &coded))
	assert.Equal(t, 7, coded.code)
}
