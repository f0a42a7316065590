package typesys

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Well-known type names. Everything the builtin manifests reference is
// registered by NewCatalog; embedders may add their own entries.
const (
	Exec     = "exec"
	Wildcard = "wildcard"
	Number   = "number"
	Int      = "int"
	Boolean  = "boolean"
	String   = "string"
	Vector   = "vector"
)

// VectorType is the cty representation of a three-component vector.
var VectorType = cty.Object(map[string]cty.Type{
	"x": cty.Number,
	"y": cty.Number,
	"z": cty.Number,
})

// DataType describes one entry in the catalog. Instances are immutable
// after registration; pins reference them by pointer.
type DataType struct {
	// Name is the stable identifier used in manifests, snapshots and the
	// conversion table.
	Name string
	// Cty is the value type carried by pins of this data type. It is
	// cty.NilType for exec and cty.DynamicPseudoType for wildcard.
	Cty cty.Type
	// Default is the literal value a freshly created input pin starts with.
	Default cty.Value
}

// IsExec reports whether the type is the control-flow marker.
func (t *DataType) IsExec() bool { return t.Name == Exec }

// IsWildcard reports whether the type is still unresolved.
func (t *DataType) IsWildcard() bool { return t.Name == Wildcard }

// Catalog is the process-wide registry of data types and conversions. It is
// constructed once and injected wherever type information is needed; there
// is deliberately no package-level instance.
type Catalog struct {
	types       map[string]*DataType
	conversions map[string]string
}

// NewCatalog returns a catalog pre-populated with the builtin types.
func NewCatalog() *Catalog {
	c := &Catalog{
		types:       make(map[string]*DataType),
		conversions: make(map[string]string),
	}

	zero := cty.NumberIntVal(0)
	c.Register(&DataType{Name: Exec, Cty: cty.NilType, Default: cty.NilVal})
	c.Register(&DataType{Name: Wildcard, Cty: cty.DynamicPseudoType, Default: cty.NilVal})
	c.Register(&DataType{Name: Number, Cty: cty.Number, Default: zero})
	c.Register(&DataType{Name: Int, Cty: cty.Number, Default: zero})
	c.Register(&DataType{Name: Boolean, Cty: cty.Bool, Default: cty.False})
	c.Register(&DataType{Name: String, Cty: cty.String, Default: cty.StringVal("")})
	c.Register(&DataType{Name: Vector, Cty: VectorType, Default: cty.ObjectVal(map[string]cty.Value{
		"x": zero, "y": zero, "z": zero,
	})})
	return c
}

// Register adds a data type to the catalog, replacing any previous entry
// with the same name.
func (c *Catalog) Register(t *DataType) {
	c.types[t.Name] = t
}

// Lookup returns the data type registered under name.
func (c *Catalog) Lookup(name string) (*DataType, bool) {
	t, ok := c.types[name]
	return t, ok
}

// MustLookup is Lookup for names that are guaranteed registered; it panics
// on a miss, which indicates a programmer error.
func (c *Catalog) MustLookup(name string) *DataType {
	t, ok := c.types[name]
	if !ok {
		panic(fmt.Sprintf("typesys: data type %q not registered", name))
	}
	return t
}

// conversionKey builds the table key for a source/target type pair.
func conversionKey(src, dst string) string {
	return src + "->-" + dst
}

// RegisterConversion records that connections from src-typed outputs to
// dst-typed inputs are bridged by instantiating the named adapter template.
func (c *Catalog) RegisterConversion(src, dst, adapterTemplate string) {
	c.conversions[conversionKey(src, dst)] = adapterTemplate
}

// AdapterFor returns the adapter template name registered for the given
// type pair, if any.
func (c *Catalog) AdapterFor(src, dst string) (string, bool) {
	name, ok := c.conversions[conversionKey(src, dst)]
	return name, ok
}
