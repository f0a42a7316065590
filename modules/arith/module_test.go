package arith

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodewire/internal/behavior"
)

func num(f float64) cty.Value { return cty.NumberFloatVal(f) }

func vecVal(x, y, z float64) cty.Value {
	return vec(num(x), num(y), num(z))
}

func requireDomain(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	de, ok := behavior.IsDomain(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	assert.Equal(t, code, de.Code)
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("numbers", func(t *testing.T) {
		got, err := opAdd(ctx, []cty.Value{num(2), num(3)})
		require.NoError(t, err)
		assert.True(t, got.RawEquals(num(5)))
	})

	t.Run("vectors add component-wise", func(t *testing.T) {
		got, err := opAdd(ctx, []cty.Value{vecVal(1, 2, 3), vecVal(10, 20, 30)})
		require.NoError(t, err)
		assert.True(t, got.RawEquals(vecVal(11, 22, 33)))
	})

	t.Run("mixed shapes are rejected", func(t *testing.T) {
		_, err := opAdd(ctx, []cty.Value{num(1), vecVal(1, 2, 3)})
		requireDomain(t, err, "bad-operands")
	})

	t.Run("strings are rejected", func(t *testing.T) {
		_, err := opAdd(ctx, []cty.Value{cty.StringVal("a"), cty.StringVal("b")})
		requireDomain(t, err, "bad-operands")
	})
}

func TestSubtract(t *testing.T) {
	ctx := context.Background()
	got, err := opSubtract(ctx, []cty.Value{num(5), num(2)})
	require.NoError(t, err)
	assert.True(t, got.RawEquals(num(3)))

	got, err = opSubtract(ctx, []cty.Value{vecVal(5, 5, 5), vecVal(1, 2, 3)})
	require.NoError(t, err)
	assert.True(t, got.RawEquals(vecVal(4, 3, 2)))
}

func TestMultiply(t *testing.T) {
	ctx := context.Background()

	t.Run("numbers", func(t *testing.T) {
		got, err := opMultiply(ctx, []cty.Value{num(4), num(2.5)})
		require.NoError(t, err)
		assert.True(t, got.RawEquals(num(10)))
	})

	t.Run("vector scales by number on either side", func(t *testing.T) {
		want := vecVal(2, 4, 6)
		got, err := opMultiply(ctx, []cty.Value{vecVal(1, 2, 3), num(2)})
		require.NoError(t, err)
		assert.True(t, got.RawEquals(want))

		got, err = opMultiply(ctx, []cty.Value{num(2), vecVal(1, 2, 3)})
		require.NoError(t, err)
		assert.True(t, got.RawEquals(want))
	})

	t.Run("vector by vector is undefined", func(t *testing.T) {
		_, err := opMultiply(ctx, []cty.Value{vecVal(1, 0, 0), vecVal(0, 1, 0)})
		requireDomain(t, err, "bad-operands")
	})
}

func TestDivide(t *testing.T) {
	ctx := context.Background()

	t.Run("numbers", func(t *testing.T) {
		got, err := opDivide(ctx, []cty.Value{num(7), num(2)})
		require.NoError(t, err)
		assert.True(t, got.RawEquals(num(3.5)))
	})

	t.Run("vector by number", func(t *testing.T) {
		got, err := opDivide(ctx, []cty.Value{vecVal(2, 4, 6), num(2)})
		require.NoError(t, err)
		assert.True(t, got.RawEquals(vecVal(1, 2, 3)))
	})

	t.Run("division by zero", func(t *testing.T) {
		_, err := opDivide(ctx, []cty.Value{num(1), num(0)})
		requireDomain(t, err, "division-by-zero")

		_, err = opDivide(ctx, []cty.Value{vecVal(1, 1, 1), num(0)})
		requireDomain(t, err, "division-by-zero")
	})

	t.Run("number by vector is rejected", func(t *testing.T) {
		_, err := opDivide(ctx, []cty.Value{num(1), vecVal(1, 1, 1)})
		requireDomain(t, err, "bad-operands")
	})
}

func TestMakeVector(t *testing.T) {
	ctx := context.Background()

	got, err := opMakeVector(ctx, []cty.Value{num(1), num(2), num(3)})
	require.NoError(t, err)
	assert.True(t, got.RawEquals(vecVal(1, 2, 3)))

	_, err = opMakeVector(ctx, []cty.Value{num(1), cty.StringVal("2"), num(3)})
	requireDomain(t, err, "bad-operands")
}

func TestRegister(t *testing.T) {
	r := behavior.New()
	r.Install(&Module{})

	for _, id := range []string{"opAdd", "opSubtract", "opMultiply", "opDivide", "opMakeVector"} {
		_, ok := r.Lookup(id)
		assert.True(t, ok, "behavior %q must be registered", id)
	}
}
