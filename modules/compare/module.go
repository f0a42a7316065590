// Package compare implements the comparison behaviors: deep equality over
// any value shape and numeric ordering.
package compare

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodewire/internal/behavior"
)

// Module implements behavior.Module for this package.
type Module struct{}

func arg(args []cty.Value, i int) cty.Value {
	if i < 0 || i >= len(args) {
		return cty.NilVal
	}
	return args[i]
}

func isNumber(v cty.Value) bool {
	return v != cty.NilVal && !v.IsNull() && v.Type() == cty.Number
}

// opEquals compares two values structurally. Values of different types are
// unequal; structured values (vectors) compare component by component.
func opEquals(_ context.Context, args []cty.Value) (cty.Value, error) {
	a, b := arg(args, 0), arg(args, 1)
	if a == cty.NilVal || b == cty.NilVal {
		return cty.BoolVal(a == b), nil
	}
	return cty.BoolVal(a.RawEquals(b)), nil
}

// opNotEquals is the negation of opEquals.
func opNotEquals(ctx context.Context, args []cty.Value) (cty.Value, error) {
	eq, err := opEquals(ctx, args)
	if err != nil {
		return cty.NilVal, err
	}
	return cty.BoolVal(!eq.True()), nil
}

func ordered(name string, args []cty.Value, cmp func(a, b cty.Value) cty.Value) (cty.Value, error) {
	a, b := arg(args, 0), arg(args, 1)
	if !isNumber(a) || !isNumber(b) {
		return cty.NilVal, behavior.Domainf("bad-operands", "%s compares numbers only", name)
	}
	return cmp(a, b), nil
}

func opLess(_ context.Context, args []cty.Value) (cty.Value, error) {
	return ordered("less", args, func(a, b cty.Value) cty.Value { return a.LessThan(b) })
}

func opLessOrEqual(_ context.Context, args []cty.Value) (cty.Value, error) {
	return ordered("less-or-equal", args, func(a, b cty.Value) cty.Value { return a.LessThanOrEqualTo(b) })
}

func opGreater(_ context.Context, args []cty.Value) (cty.Value, error) {
	return ordered("greater", args, func(a, b cty.Value) cty.Value { return a.GreaterThan(b) })
}

func opGreaterOrEqual(_ context.Context, args []cty.Value) (cty.Value, error) {
	return ordered("greater-or-equal", args, func(a, b cty.Value) cty.Value { return a.GreaterThanOrEqualTo(b) })
}

// Register registers the comparison behaviors with the engine.
func (m *Module) Register(r *behavior.Registry) {
	r.Register("opEquals", opEquals)
	r.Register("opNotEquals", opNotEquals)
	r.Register("opLess", opLess)
	r.Register("opLessOrEqual", opLessOrEqual)
	r.Register("opGreater", opGreater)
	r.Register("opGreaterOrEqual", opGreaterOrEqual)
}
