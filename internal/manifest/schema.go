// Package manifest loads node template definitions and the conversion
// table from HCL manifest files. Manifests are the editor's palette: each
// `node` block becomes one entry in the template registry, each
// `conversion` block one entry in the catalog's conversion table.
package manifest

import "github.com/zclconf/go-cty/cty"

// File is the top-level structure of one manifest file.
type File struct {
	Nodes       []*NodeBlock       `hcl:"node,block"`
	Conversions []*ConversionBlock `hcl:"conversion,block"`
}

// NodeBlock declares one node template.
type NodeBlock struct {
	Name        string         `hcl:"name,label"`
	Color       string         `hcl:"color,optional"`
	HideHeader  bool           `hcl:"hide_header,optional"`
	CenterLabel bool           `hcl:"center_label,optional"`
	FunctionID  string         `hcl:"function_id,optional"`
	Volatile    bool           `hcl:"volatile,optional"`
	Inputs      []*InputBlock  `hcl:"input,block"`
	Outputs     []*OutputBlock `hcl:"output,block"`
}

// InputBlock declares one input pin of a template.
type InputBlock struct {
	Name     string     `hcl:"name,label"`
	Type     string     `hcl:"type"`
	Default  *cty.Value `hcl:"default,optional"`
	Options  []string   `hcl:"options,optional"`
	Advanced bool       `hcl:"advanced,optional"`
}

// OutputBlock declares one output pin of a template.
type OutputBlock struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
}

// ConversionBlock registers an adapter template for a type pair.
type ConversionBlock struct {
	From    string `hcl:"from,label"`
	To      string `hcl:"to,label"`
	Adapter string `hcl:"adapter"`
}
