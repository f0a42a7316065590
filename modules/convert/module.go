// Package convert implements the adapter-node behaviors backing the
// conversion table: the nodes the resolver splices in when a wire crosses
// a type boundary.
package convert

import (
	"context"

	"github.com/zclconf/go-cty/cty"
	ctyconvert "github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/nodewire/internal/behavior"
	"github.com/vk/nodewire/internal/typesys"
)

// Module implements behavior.Module for this package.
type Module struct{}

func arg(args []cty.Value, i int) cty.Value {
	if i < 0 || i >= len(args) {
		return cty.NilVal
	}
	return args[i]
}

// opToString renders any value in its display form.
func opToString(_ context.Context, args []cty.Value) (cty.Value, error) {
	return cty.StringVal(typesys.FormatValue(arg(args, 0))), nil
}

// opToNumber converts to a number; strings must parse.
func opToNumber(_ context.Context, args []cty.Value) (cty.Value, error) {
	v := arg(args, 0)
	if v == cty.NilVal || v.IsNull() {
		return cty.NilVal, behavior.Domainf("bad-conversion", "nothing to convert to a number")
	}
	converted, err := ctyconvert.Convert(v, cty.Number)
	if err != nil {
		return cty.NilVal, behavior.Domainf("bad-conversion", "cannot convert %s to a number", v.Type().FriendlyName())
	}
	return converted, nil
}

// opToInt converts to a number and truncates toward zero.
func opToInt(ctx context.Context, args []cty.Value) (cty.Value, error) {
	n, err := opToNumber(ctx, args)
	if err != nil {
		return cty.NilVal, err
	}
	i, _ := n.AsBigFloat().Int64()
	return cty.NumberIntVal(i), nil
}

// opToBoolean converts booleans, the strings "true"/"false", and numbers
// (non-zero is true).
func opToBoolean(_ context.Context, args []cty.Value) (cty.Value, error) {
	v := arg(args, 0)
	if v == cty.NilVal || v.IsNull() {
		return cty.NilVal, behavior.Domainf("bad-conversion", "nothing to convert to a boolean")
	}
	switch {
	case v.Type() == cty.Bool:
		return v, nil
	case v.Type() == cty.Number:
		return cty.BoolVal(v.AsBigFloat().Sign() != 0), nil
	case v.Type() == cty.String:
		converted, err := ctyconvert.Convert(v, cty.Bool)
		if err != nil {
			return cty.NilVal, behavior.Domainf("bad-conversion", "cannot convert %q to a boolean", v.AsString())
		}
		return converted, nil
	default:
		return cty.NilVal, behavior.Domainf("bad-conversion", "cannot convert %s to a boolean", v.Type().FriendlyName())
	}
}

// Register registers the conversion behaviors with the engine.
func (m *Module) Register(r *behavior.Registry) {
	r.Register("opToString", opToString)
	r.Register("opToNumber", opToNumber)
	r.Register("opToInt", opToInt)
	r.Register("opToBoolean", opToBoolean)
}
