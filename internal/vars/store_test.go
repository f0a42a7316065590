package vars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestStore(t *testing.T) {
	s := NewStore()

	_, ok := s.Get("x")
	assert.False(t, ok)

	s.Set("x", cty.NumberIntVal(1))
	s.Set("x", cty.NumberIntVal(2))

	v, ok := s.Get("x")
	require.True(t, ok)
	assert.True(t, v.RawEquals(cty.NumberIntVal(2)), "set replaces the previous value")
	assert.Equal(t, 1, s.Len())

	s.Reset()
	assert.Equal(t, 0, s.Len())
	_, ok = s.Get("x")
	assert.False(t, ok)
}
