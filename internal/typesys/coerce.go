package typesys

import (
	"fmt"
	"strconv"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Coerce adapts a value to the data type of the pin that consumes it.
// Numbers truncate toward zero when landing on an int pin; numbers,
// booleans and vectors render to their display form on string pins;
// anything already matching, or for which no rule exists, passes through
// unchanged. Coercion never fails: a value that cannot be adapted is
// handed to the behavior as-is and rejected there with a domain error.
func Coerce(v cty.Value, dst *DataType) cty.Value {
	if v == cty.NilVal || v.IsNull() || dst == nil || dst.IsExec() || dst.IsWildcard() {
		return v
	}

	switch dst.Name {
	case Int:
		if v.Type() == cty.Number {
			i, _ := v.AsBigFloat().Int64()
			return cty.NumberIntVal(i)
		}
	case String:
		if v.Type() != cty.String {
			return cty.StringVal(FormatValue(v))
		}
	}

	if v.Type().Equals(dst.Cty) {
		return v
	}
	converted, err := convert.Convert(v, dst.Cty)
	if err != nil {
		return v
	}
	return converted
}

// FormatValue renders a value the way the interpreter displays it on wires
// and converts it onto string pins: integers without a fraction, floats in
// shortest form, booleans as true/false, vectors in the X/Y/Z layout.
func FormatValue(v cty.Value) string {
	if v == cty.NilVal || v.IsNull() {
		return ""
	}
	switch {
	case v.Type() == cty.String:
		return v.AsString()
	case v.Type() == cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	case v.Type() == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int64()
			return strconv.FormatInt(i, 10)
		}
		f, _ := bf.Float64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case v.Type().Equals(VectorType):
		x, _ := v.GetAttr("x").AsBigFloat().Float64()
		y, _ := v.GetAttr("y").AsBigFloat().Float64()
		z, _ := v.GetAttr("z").AsBigFloat().Float64()
		return fmt.Sprintf("X=%.3f Y=%.3f Z=%.3f", x, y, z)
	default:
		return v.GoString()
	}
}
