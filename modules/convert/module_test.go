package convert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodewire/internal/behavior"
)

func requireBadConversion(t *testing.T, err error) {
	t.Helper()
	de, ok := behavior.IsDomain(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	assert.Equal(t, "bad-conversion", de.Code)
}

func TestToString(t *testing.T) {
	ctx := context.Background()

	got, err := opToString(ctx, []cty.Value{cty.NumberFloatVal(2.5)})
	require.NoError(t, err)
	assert.True(t, got.RawEquals(cty.StringVal("2.5")))

	got, err = opToString(ctx, []cty.Value{cty.False})
	require.NoError(t, err)
	assert.True(t, got.RawEquals(cty.StringVal("false")))
}

func TestToNumber(t *testing.T) {
	ctx := context.Background()

	got, err := opToNumber(ctx, []cty.Value{cty.StringVal("3.25")})
	require.NoError(t, err)
	assert.True(t, got.RawEquals(cty.NumberFloatVal(3.25)))

	_, err = opToNumber(ctx, []cty.Value{cty.StringVal("not a number")})
	requireBadConversion(t, err)

	_, err = opToNumber(ctx, []cty.Value{cty.NilVal})
	requireBadConversion(t, err)
}

func TestToInt(t *testing.T) {
	ctx := context.Background()

	got, err := opToInt(ctx, []cty.Value{cty.StringVal("7.9")})
	require.NoError(t, err)
	assert.True(t, got.RawEquals(cty.NumberIntVal(7)))
}

func TestToBoolean(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		in   cty.Value
		want bool
	}{
		{"bool passes through", cty.True, true},
		{"nonzero number", cty.NumberIntVal(5), true},
		{"zero number", cty.NumberIntVal(0), false},
		{"string true", cty.StringVal("true"), true},
		{"string false", cty.StringVal("false"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := opToBoolean(ctx, []cty.Value{tc.in})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.True())
		})
	}

	_, err := opToBoolean(ctx, []cty.Value{cty.StringVal("maybe")})
	requireBadConversion(t, err)
}
