package manifest

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/nodewire/internal/ctxlog"
	"github.com/vk/nodewire/internal/fsutil"
	"github.com/vk/nodewire/internal/template"
	"github.com/vk/nodewire/internal/typesys"
)

// Load discovers every .hcl manifest under path and populates the template
// registry and the catalog's conversion table. Malformed files fail the
// load; individually broken blocks (unknown pin type, conversion between
// unregistered types) are skipped with a warning so one bad template does
// not take down the whole palette.
func Load(ctx context.Context, path string, catalog *typesys.Catalog, templates *template.Registry) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting manifest discovery.", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return fmt.Errorf("error finding manifests in %s: %w", path, err)
	}
	if len(files) == 0 {
		logger.Warn("No .hcl manifests found.", "path", path)
		return nil
	}

	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading manifest '%s': %w", file, err)
		}
		if err := LoadBytes(ctx, src, file, catalog, templates); err != nil {
			return fmt.Errorf("loading manifest '%s': %w", file, err)
		}
	}

	logger.Debug("Manifest discovery finished.", "files", len(files), "templates", templates.Len())
	return nil
}

// LoadBytes parses one manifest from memory. Split out so tests and
// embedders can define templates without touching the file system.
func LoadBytes(ctx context.Context, src []byte, filename string, catalog *typesys.Catalog, templates *template.Registry) error {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return diags
	}

	var file File
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
		return diags
	}

	for _, block := range file.Nodes {
		tmpl, err := buildTemplate(block, catalog)
		if err != nil {
			logger.Warn("Skipping node template.", "template", block.Name, "file", filename, "error", err)
			continue
		}
		logger.Debug("Discovered node template.", "template", tmpl.Name, "file", filename)
		templates.Register(tmpl)
	}

	for _, block := range file.Conversions {
		if _, ok := catalog.Lookup(block.From); !ok {
			logger.Warn("Conversion names unknown source type, skipping.", "from", block.From, "file", filename)
			continue
		}
		if _, ok := catalog.Lookup(block.To); !ok {
			logger.Warn("Conversion names unknown target type, skipping.", "to", block.To, "file", filename)
			continue
		}
		logger.Debug("Discovered conversion.", "from", block.From, "to", block.To, "adapter", block.Adapter)
		catalog.RegisterConversion(block.From, block.To, block.Adapter)
	}

	return nil
}

// buildTemplate validates a node block against the catalog and converts it
// into a registry entry.
func buildTemplate(block *NodeBlock, catalog *typesys.Catalog) (*template.Template, error) {
	tmpl := &template.Template{
		Name:        block.Name,
		Color:       block.Color,
		HideHeader:  block.HideHeader,
		CenterLabel: block.CenterLabel,
		FunctionID:  block.FunctionID,
		Volatile:    block.Volatile,
	}

	for _, in := range block.Inputs {
		dt, ok := catalog.Lookup(in.Type)
		if !ok {
			return nil, fmt.Errorf("input %q has unknown type %q", in.Name, in.Type)
		}
		def := cty.NilVal
		if in.Default != nil {
			converted, err := convert.Convert(*in.Default, dt.Cty)
			if err != nil {
				return nil, fmt.Errorf("input %q default does not fit type %q: %w", in.Name, in.Type, err)
			}
			def = converted
		}
		tmpl.Inputs = append(tmpl.Inputs, template.PinDef{
			Name:     in.Name,
			Type:     in.Type,
			Default:  def,
			Options:  in.Options,
			Advanced: in.Advanced,
		})
	}

	for _, out := range block.Outputs {
		if _, ok := catalog.Lookup(out.Type); !ok {
			return nil, fmt.Errorf("output %q has unknown type %q", out.Name, out.Type)
		}
		tmpl.Outputs = append(tmpl.Outputs, template.PinDef{Name: out.Name, Type: out.Type})
	}

	return tmpl, nil
}
