// Package arith implements the generic arithmetic behaviors. Operators
// match on the tagged value shapes (number, vector) exhaustively and
// reject everything else with a domain error instead of probing values
// duck-typed.
package arith

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodewire/internal/behavior"
	"github.com/vk/nodewire/internal/typesys"
)

// Module implements behavior.Module for this package.
type Module struct{}

func isNumber(v cty.Value) bool {
	return v != cty.NilVal && !v.IsNull() && v.Type() == cty.Number
}

func isVector(v cty.Value) bool {
	return v != cty.NilVal && !v.IsNull() && v.Type().Equals(typesys.VectorType)
}

func shapeName(v cty.Value) string {
	if v == cty.NilVal || v.IsNull() {
		return "nothing"
	}
	if isVector(v) {
		return "vector"
	}
	return v.Type().FriendlyName()
}

func vecComponents(v cty.Value) (x, y, z cty.Value) {
	return v.GetAttr("x"), v.GetAttr("y"), v.GetAttr("z")
}

func vec(x, y, z cty.Value) cty.Value {
	return cty.ObjectVal(map[string]cty.Value{"x": x, "y": y, "z": z})
}

func arg(args []cty.Value, i int) cty.Value {
	if i < 0 || i >= len(args) {
		return cty.NilVal
	}
	return args[i]
}

// opAdd adds two numbers or two vectors component-wise.
func opAdd(_ context.Context, args []cty.Value) (cty.Value, error) {
	a, b := arg(args, 0), arg(args, 1)
	switch {
	case isNumber(a) && isNumber(b):
		return a.Add(b), nil
	case isVector(a) && isVector(b):
		ax, ay, az := vecComponents(a)
		bx, by, bz := vecComponents(b)
		return vec(ax.Add(bx), ay.Add(by), az.Add(bz)), nil
	default:
		return cty.NilVal, behavior.Domainf("bad-operands", "cannot add %s and %s", shapeName(a), shapeName(b))
	}
}

// opSubtract subtracts two numbers or two vectors component-wise.
func opSubtract(_ context.Context, args []cty.Value) (cty.Value, error) {
	a, b := arg(args, 0), arg(args, 1)
	switch {
	case isNumber(a) && isNumber(b):
		return a.Subtract(b), nil
	case isVector(a) && isVector(b):
		ax, ay, az := vecComponents(a)
		bx, by, bz := vecComponents(b)
		return vec(ax.Subtract(bx), ay.Subtract(by), az.Subtract(bz)), nil
	default:
		return cty.NilVal, behavior.Domainf("bad-operands", "cannot subtract %s from %s", shapeName(b), shapeName(a))
	}
}

// opMultiply multiplies numbers, or scales a vector by a number. Two
// vectors have no single product; that shape is an explicit domain error.
func opMultiply(_ context.Context, args []cty.Value) (cty.Value, error) {
	a, b := arg(args, 0), arg(args, 1)
	switch {
	case isNumber(a) && isNumber(b):
		return a.Multiply(b), nil
	case isVector(a) && isNumber(b):
		x, y, z := vecComponents(a)
		return vec(x.Multiply(b), y.Multiply(b), z.Multiply(b)), nil
	case isNumber(a) && isVector(b):
		x, y, z := vecComponents(b)
		return vec(x.Multiply(a), y.Multiply(a), z.Multiply(a)), nil
	case isVector(a) && isVector(b):
		return cty.NilVal, behavior.Domainf("bad-operands", "vector by vector multiplication is not defined")
	default:
		return cty.NilVal, behavior.Domainf("bad-operands", "cannot multiply %s and %s", shapeName(a), shapeName(b))
	}
}

// opDivide divides numbers, or a vector by a number.
func opDivide(_ context.Context, args []cty.Value) (cty.Value, error) {
	a, b := arg(args, 0), arg(args, 1)
	if isNumber(b) && b.AsBigFloat().Sign() == 0 {
		return cty.NilVal, behavior.Domainf("division-by-zero", "division by zero")
	}
	switch {
	case isNumber(a) && isNumber(b):
		return a.Divide(b), nil
	case isVector(a) && isNumber(b):
		x, y, z := vecComponents(a)
		return vec(x.Divide(b), y.Divide(b), z.Divide(b)), nil
	default:
		return cty.NilVal, behavior.Domainf("bad-operands", "cannot divide %s by %s", shapeName(a), shapeName(b))
	}
}

// opMakeVector assembles a vector from its three number components.
func opMakeVector(_ context.Context, args []cty.Value) (cty.Value, error) {
	x, y, z := arg(args, 0), arg(args, 1), arg(args, 2)
	if !isNumber(x) || !isNumber(y) || !isNumber(z) {
		return cty.NilVal, behavior.Domainf("bad-operands", "vector components must be numbers")
	}
	return vec(x, y, z), nil
}

// Register registers the arithmetic behaviors with the engine.
func (m *Module) Register(r *behavior.Registry) {
	r.Register("opAdd", opAdd)
	r.Register("opSubtract", opSubtract)
	r.Register("opMultiply", opMultiply)
	r.Register("opDivide", opDivide)
	r.Register("opMakeVector", opMakeVector)
}
