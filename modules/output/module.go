// Package output implements the behaviors that surface values to the
// user: the print node logs through the run's logger.
package output

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/nodewire/internal/behavior"
	"github.com/vk/nodewire/internal/ctxlog"
	"github.com/vk/nodewire/internal/typesys"
)

// Module implements behavior.Module for this package.
type Module struct{}

// opPrint logs its input in display form and passes it through, so a
// print node can sit in the middle of a data chain.
func opPrint(ctx context.Context, args []cty.Value) (cty.Value, error) {
	v := cty.NilVal
	if len(args) > 0 {
		v = args[0]
	}
	ctxlog.FromContext(ctx).Info("🖨️ " + typesys.FormatValue(v))
	return v, nil
}

// Register registers the output behaviors with the engine.
func (m *Module) Register(r *behavior.Registry) {
	r.Register("opPrint", opPrint)
}
