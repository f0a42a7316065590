// Package variables implements the variable get/set behaviors against the
// run's variable store. Get Variable templates are declared volatile so a
// set-then-get sequence within one pass observes the latest value instead
// of a memoized one.
package variables

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodewire/internal/behavior"
	"github.com/vk/nodewire/internal/vars"
)

// Module implements behavior.Module for this package. It closes over the
// store it is constructed with.
type Module struct {
	Store *vars.Store
}

func nameArg(args []cty.Value) (string, error) {
	if len(args) == 0 {
		return "", behavior.Domainf("bad-variable", "variable name is missing")
	}
	v := args[0]
	if v == cty.NilVal || v.IsNull() || v.Type() != cty.String || v.AsString() == "" {
		return "", behavior.Domainf("bad-variable", "variable name must be a non-empty string")
	}
	return v.AsString(), nil
}

// opVarGet reads a variable. Reading a name that was never set is a
// user-visible domain error, not a silent default.
func (m *Module) opVarGet(_ context.Context, args []cty.Value) (cty.Value, error) {
	name, err := nameArg(args)
	if err != nil {
		return cty.NilVal, err
	}
	v, ok := m.Store.Get(name)
	if !ok {
		return cty.NilVal, behavior.Domainf("undefined-variable", "variable %q has not been set", name)
	}
	return v, nil
}

// opVarSet writes a variable and passes the value through as its result.
func (m *Module) opVarSet(_ context.Context, args []cty.Value) (cty.Value, error) {
	name, err := nameArg(args)
	if err != nil {
		return cty.NilVal, err
	}
	if len(args) < 2 {
		return cty.NilVal, behavior.Domainf("bad-variable", "no value to assign to %q", name)
	}
	m.Store.Set(name, args[1])
	return args[1], nil
}

// Register registers the variable behaviors with the engine.
func (m *Module) Register(r *behavior.Registry) {
	r.Register("opVarGet", m.opVarGet)
	r.Register("opVarSet", m.opVarSet)
}
