package hclconf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	hcljson "github.com/hashicorp/hcl/v2/json"
	"github.com/vkm/heatlamp/internal/config"
	"github.com/vkm/heatlamp/internal/ctxlog"
	"github.com/vkm/heatlamp/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL/JSON implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new document loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the experiment document at path, validates it, and translates
// it into the unified model. Validation failures are returned before any
// translation happens, so a pipeline never starts from a half-read config.
func (l *Loader) Load(ctx context.Context, path string) (*config.Experiment, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading experiment document.", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	doc, err := l.Parse(src, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	if err := schema.Validate(doc); err != nil {
		return nil, err
	}
	logger.Debug("Document passed schema validation.")

	exp := translate(doc)
	exp.ApplyDefaults()

	logger.Debug("Document translated into experiment model.",
		"dataset", exp.Dataset.Name, "explainer", exp.Explainer.Name, "model", exp.Model.Name)
	return exp, nil
}

// Parse turns raw document bytes into the cty value the validator walks.
// The filename's extension selects the syntax: .json documents go through
// the HCL JSON parser, everything else through native syntax.
func (l *Loader) Parse(src []byte, filename string) (cty.Value, error) {
	var file *hcl.File
	var diags hcl.Diagnostics

	if strings.EqualFold(filepath.Ext(filename), ".json") {
		file, diags = hcljson.Parse(src, filename)
	} else {
		file, diags = hclparse.NewParser().ParseHCL(src, filename)
	}
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("failed to parse %s: %w", filename, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("failed to decode %s: %w", filename, diags)
	}

	values := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return cty.NilVal, fmt.Errorf("failed to evaluate %s in %s: %w", name, filename, diags)
		}
		values[name] = val
	}
	if len(values) == 0 {
		return cty.EmptyObjectVal, nil
	}
	return cty.ObjectVal(values), nil
}
