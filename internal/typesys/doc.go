// Package typesys owns the catalog of pin data types, the conversion table
// that names adapter node templates for mismatched type pairs, and the
// coercion rules applied to every value as it crosses onto an input pin.
//
// Values themselves are cty.Value: numbers, booleans, strings and the
// three-component vector object type. The "exec" entry is a control-flow
// marker and never carries a value; the "wildcard" entry is the unresolved
// generic type narrowed by the connection resolver.
package typesys
