// Package logic implements the boolean behaviors, including the branch
// node's condition pass-through. The engine itself selects the exec
// successor from the boolean result; the behavior only evaluates it.
package logic

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodewire/internal/behavior"
)

// Module implements behavior.Module for this package.
type Module struct{}

func boolArg(args []cty.Value, i int) (cty.Value, error) {
	if i >= len(args) {
		return cty.NilVal, behavior.Domainf("bad-operands", "missing boolean operand")
	}
	v := args[i]
	if v == cty.NilVal || v.IsNull() || v.Type() != cty.Bool {
		return cty.NilVal, behavior.Domainf("bad-operands", "expected a boolean operand")
	}
	return v, nil
}

// opBranch evaluates the branch node's condition. The result drives which
// exec output the engine follows.
func opBranch(_ context.Context, args []cty.Value) (cty.Value, error) {
	return boolArg(args, 0)
}

func opNot(_ context.Context, args []cty.Value) (cty.Value, error) {
	v, err := boolArg(args, 0)
	if err != nil {
		return cty.NilVal, err
	}
	return cty.BoolVal(!v.True()), nil
}

func opAnd(_ context.Context, args []cty.Value) (cty.Value, error) {
	a, err := boolArg(args, 0)
	if err != nil {
		return cty.NilVal, err
	}
	b, err := boolArg(args, 1)
	if err != nil {
		return cty.NilVal, err
	}
	return cty.BoolVal(a.True() && b.True()), nil
}

func opOr(_ context.Context, args []cty.Value) (cty.Value, error) {
	a, err := boolArg(args, 0)
	if err != nil {
		return cty.NilVal, err
	}
	b, err := boolArg(args, 1)
	if err != nil {
		return cty.NilVal, err
	}
	return cty.BoolVal(a.True() || b.True()), nil
}

// Register registers the boolean behaviors with the engine.
func (m *Module) Register(r *behavior.Registry) {
	r.Register("opBranch", opBranch)
	r.Register("opNot", opNot)
	r.Register("opAnd", opAnd)
	r.Register("opOr", opOr)
}
