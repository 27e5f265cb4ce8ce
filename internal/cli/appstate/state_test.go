package appstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReset(t *testing.T) {
	s := New()
	s.SetUser(&User{Email: "taro@example.com"})
	s.SetLoading(true)
	s.AddError("could not retrieve data")

	s.Reset()

	assert.Nil(t, s.User())
	assert.False(t, s.Loading())
	assert.Empty(t, s.Errors())
}

func TestErrorsReturnsCopy(t *testing.T) {
	s := New()
	s.AddError("first")
	errs := s.Errors()
	errs[0] = "mutated"
	assert.Equal(t, []string{"first"}, s.Errors())
}

func TestContext(t *testing.T) {
	s := New()
	ctx := WithState(context.Background(), s)
	assert.Same(t, s, FromContext(ctx))

	other := FromContext(context.Background())
	assert.NotNil(t, other)
	assert.NotSame(t, s, other)
}
