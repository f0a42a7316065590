package typesys

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func vec(x, y, z float64) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"x": cty.NumberFloatVal(x),
		"y": cty.NumberFloatVal(y),
		"z": cty.NumberFloatVal(z),
	})
}

func TestCoerce(t *testing.T) {
	c := NewCatalog()

	t.Run("float truncates toward zero on int pins", func(t *testing.T) {
		dst := c.MustLookup(Int)
		got := Coerce(cty.NumberFloatVal(5.9), dst)
		assert.True(t, got.RawEquals(cty.NumberIntVal(5)))

		got = Coerce(cty.NumberFloatVal(-5.9), dst)
		assert.True(t, got.RawEquals(cty.NumberIntVal(-5)))
	})

	t.Run("values render onto string pins", func(t *testing.T) {
		dst := c.MustLookup(String)
		assert.True(t, Coerce(cty.NumberIntVal(42), dst).RawEquals(cty.StringVal("42")))
		assert.True(t, Coerce(cty.True, dst).RawEquals(cty.StringVal("true")))
		assert.True(t, Coerce(vec(1, 2, 3), dst).RawEquals(cty.StringVal("X=1.000 Y=2.000 Z=3.000")))
	})

	t.Run("matching types pass through", func(t *testing.T) {
		dst := c.MustLookup(Number)
		v := cty.NumberFloatVal(1.5)
		assert.True(t, Coerce(v, dst).RawEquals(v))
	})

	t.Run("wildcard and exec pins never coerce", func(t *testing.T) {
		v := cty.StringVal("anything")
		assert.True(t, Coerce(v, c.MustLookup(Wildcard)).RawEquals(v))
		assert.True(t, Coerce(v, c.MustLookup(Exec)).RawEquals(v))
	})

	t.Run("inconvertible values pass through unchanged", func(t *testing.T) {
		dst := c.MustLookup(Vector)
		v := cty.StringVal("not a vector")
		assert.True(t, Coerce(v, dst).RawEquals(v))
	})

	t.Run("nil values pass through", func(t *testing.T) {
		assert.Equal(t, cty.NilVal, Coerce(cty.NilVal, c.MustLookup(Number)))
	})
}

func TestFormatValue(t *testing.T) {
	cases := []struct {
		name string
		in   cty.Value
		want string
	}{
		{"integer", cty.NumberIntVal(7), "7"},
		{"negative integer", cty.NumberIntVal(-3), "-3"},
		{"float", cty.NumberFloatVal(2.5), "2.5"},
		{"bool true", cty.True, "true"},
		{"bool false", cty.False, "false"},
		{"string", cty.StringVal("hi"), "hi"},
		{"vector", vec(1, 2.5, -0.25), "X=1.000 Y=2.500 Z=-0.250"},
		{"nil", cty.NilVal, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatValue(tc.in))
		})
	}
}

func TestCatalogConversions(t *testing.T) {
	c := NewCatalog()
	c.RegisterConversion(Number, String, "To String")

	adapter, ok := c.AdapterFor(Number, String)
	require.True(t, ok)
	assert.Equal(t, "To String", adapter)

	// Direction matters.
	_, ok = c.AdapterFor(String, Number)
	assert.False(t, ok)
}

func TestCatalogLookup(t *testing.T) {
	c := NewCatalog()

	dt, ok := c.Lookup(Vector)
	require.True(t, ok)
	assert.True(t, dt.Cty.Equals(VectorType))

	_, ok = c.Lookup("no-such-type")
	assert.False(t, ok)

	assert.Panics(t, func() { c.MustLookup("no-such-type") })
}
