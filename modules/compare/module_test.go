package compare

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodewire/internal/behavior"
)

func vecVal(x, y, z int64) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{
		"x": cty.NumberIntVal(x),
		"y": cty.NumberIntVal(y),
		"z": cty.NumberIntVal(z),
	})
}

func TestEquals(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		a, b cty.Value
		want bool
	}{
		{"equal numbers", cty.NumberIntVal(3), cty.NumberIntVal(3), true},
		{"unequal numbers", cty.NumberIntVal(3), cty.NumberIntVal(4), false},
		{"equal strings", cty.StringVal("a"), cty.StringVal("a"), true},
		{"equal vectors compare component-wise", vecVal(1, 2, 3), vecVal(1, 2, 3), true},
		{"unequal vectors", vecVal(1, 2, 3), vecVal(1, 2, 4), false},
		{"different types are unequal", cty.NumberIntVal(1), cty.StringVal("1"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := opEquals(ctx, []cty.Value{tc.a, tc.b})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.True())

			neg, err := opNotEquals(ctx, []cty.Value{tc.a, tc.b})
			require.NoError(t, err)
			assert.Equal(t, !tc.want, neg.True())
		})
	}
}

func TestOrdering(t *testing.T) {
	ctx := context.Background()
	two, three := cty.NumberIntVal(2), cty.NumberIntVal(3)

	got, err := opLess(ctx, []cty.Value{two, three})
	require.NoError(t, err)
	assert.True(t, got.True())

	got, err = opGreater(ctx, []cty.Value{two, three})
	require.NoError(t, err)
	assert.False(t, got.True())

	got, err = opLessOrEqual(ctx, []cty.Value{three, three})
	require.NoError(t, err)
	assert.True(t, got.True())

	got, err = opGreaterOrEqual(ctx, []cty.Value{three, three})
	require.NoError(t, err)
	assert.True(t, got.True())
}

func TestOrderingRejectsNonNumbers(t *testing.T) {
	_, err := opLess(context.Background(), []cty.Value{cty.StringVal("a"), cty.StringVal("b")})
	de, ok := behavior.IsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "bad-operands", de.Code)
}
