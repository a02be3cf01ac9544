package hclconf

import (
	"fmt"

	"github.com/vkm/heatlamp/internal/config"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Marshal serializes an experiment back into a JSON document. Loading the
// result yields an experiment equal to the input: optional fields that were
// never set are omitted rather than written as zero values.
func (l *Loader) Marshal(e *config.Experiment) ([]byte, error) {
	doc := cty.ObjectVal(map[string]cty.Value{
		"path":          cty.StringVal(e.Path),
		"device":        cty.StringVal(e.Device),
		"dataset":       datasetVal(e.Dataset),
		"explainer":     explainerVal(e.Explainer),
		"model":         modelVal(e.Model),
		"visualization": visualizationVal(e.Visualization),
	})

	out, err := ctyjson.Marshal(doc, doc.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to serialize experiment: %w", err)
	}
	return out, nil
}

func datasetVal(ds *config.DatasetSpec) cty.Value {
	if ds == nil {
		return cty.NullVal(cty.EmptyObject)
	}
	vals := map[string]cty.Value{
		"name":       cty.StringVal(ds.Name),
		"split":      cty.StringVal(ds.Split),
		"text_field": strListVal(ds.TextFields),
		"columns":    strListVal(ds.Columns),
		"batch_size": cty.NumberIntVal(int64(ds.BatchSize)),
		"root_dir":   cty.StringVal(ds.RootDir),
	}
	if ds.Subset != "" {
		vals["subset"] = cty.StringVal(ds.Subset)
	}
	return cty.ObjectVal(vals)
}

func explainerVal(ex *config.ExplainerSpec) cty.Value {
	if ex == nil {
		return cty.NullVal(cty.EmptyObject)
	}
	vals := map[string]cty.Value{
		"name": cty.StringVal(ex.Name),
	}
	if ex.InternalBatchSize > 0 {
		vals["internal_batch_size"] = cty.NumberIntVal(int64(ex.InternalBatchSize))
	}
	return cty.ObjectVal(vals)
}

func modelVal(m *config.ModelSpec) cty.Value {
	if m == nil {
		return cty.NullVal(cty.EmptyObject)
	}
	vals := map[string]cty.Value{
		"name": cty.StringVal(m.Name),
		"mode": cty.StringVal(m.Mode),
	}
	if m.Path != "" {
		vals["path"] = cty.StringVal(m.Path)
	}
	if m.Tokenizer != nil {
		vals["tokenizer"] = cty.ObjectVal(map[string]cty.Value{
			"max_length":          cty.NumberIntVal(int64(m.Tokenizer.MaxLength)),
			"padding":             cty.StringVal(m.Tokenizer.Padding),
			"return_tensors":      cty.StringVal(m.Tokenizer.ReturnTensors),
			"truncation":          cty.BoolVal(m.Tokenizer.Truncation),
			"special_tokens_mask": cty.BoolVal(m.Tokenizer.SpecialTokensMask),
		})
	}
	return cty.ObjectVal(vals)
}

func visualizationVal(viz *config.VisualizationSpec) cty.Value {
	if viz == nil {
		return cty.NullVal(cty.EmptyObject)
	}
	vals := map[string]cty.Value{
		"columns":   strListVal(viz.Columns),
		"gamma":     cty.NumberFloatVal(viz.Gamma),
		"normalize": cty.BoolVal(viz.Normalize),
	}
	if viz.FlipAttributions >= 0 {
		vals["flip_attributions"] = cty.NumberIntVal(int64(viz.FlipAttributions))
	}
	return cty.ObjectVal(vals)
}

func strListVal(items []string) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(items))
	for n, item := range items {
		vals[n] = cty.StringVal(item)
	}
	return cty.ListVal(vals)
}
