package logic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodewire/internal/behavior"
)

func TestBranchPassesConditionThrough(t *testing.T) {
	ctx := context.Background()

	got, err := opBranch(ctx, []cty.Value{cty.True})
	require.NoError(t, err)
	assert.True(t, got.True())

	_, err = opBranch(ctx, []cty.Value{cty.NumberIntVal(1)})
	de, ok := behavior.IsDomain(err)
	require.True(t, ok)
	assert.Equal(t, "bad-operands", de.Code)
}

func TestBooleanOperators(t *testing.T) {
	ctx := context.Background()

	got, err := opNot(ctx, []cty.Value{cty.True})
	require.NoError(t, err)
	assert.False(t, got.True())

	got, err = opAnd(ctx, []cty.Value{cty.True, cty.False})
	require.NoError(t, err)
	assert.False(t, got.True())

	got, err = opAnd(ctx, []cty.Value{cty.True, cty.True})
	require.NoError(t, err)
	assert.True(t, got.True())

	got, err = opOr(ctx, []cty.Value{cty.False, cty.True})
	require.NoError(t, err)
	assert.True(t, got.True())

	got, err = opOr(ctx, []cty.Value{cty.False, cty.False})
	require.NoError(t, err)
	assert.False(t, got.True())
}

func TestOperatorsRejectNonBooleans(t *testing.T) {
	ctx := context.Background()

	_, err := opNot(ctx, []cty.Value{cty.StringVal("true")})
	assert.Error(t, err)

	_, err = opAnd(ctx, []cty.Value{cty.True})
	assert.Error(t, err, "missing second operand")
}
