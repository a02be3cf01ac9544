package hclconf

import (
	"github.com/vkm/heatlamp/internal/config"
	"github.com/zclconf/go-cty/cty"
)

// translate maps a validated document value onto the unified model. It
// assumes schema.Validate already passed, so lookups are permissive: an
// absent optional key just leaves the zero value in place.
func translate(doc cty.Value) *config.Experiment {
	exp := &config.Experiment{
		Path:   str(doc, "path"),
		Device: str(doc, "device"),
	}

	if ds, ok := section(doc, "dataset"); ok {
		exp.Dataset = &config.DatasetSpec{
			Name:       str(ds, "name"),
			Subset:     str(ds, "subset"),
			Split:      str(ds, "split"),
			TextFields: strOrStrings(ds, "text_field"),
			Columns:    strList(ds, "columns"),
			BatchSize:  integer(ds, "batch_size"),
			RootDir:    str(ds, "root_dir"),
		}
	}

	if ex, ok := section(doc, "explainer"); ok {
		exp.Explainer = &config.ExplainerSpec{
			Name:              str(ex, "name"),
			InternalBatchSize: integer(ex, "internal_batch_size"),
		}
	}

	if m, ok := section(doc, "model"); ok {
		exp.Model = &config.ModelSpec{
			Name: str(m, "name"),
			Mode: str(m, "mode"),
			Path: str(m, "path"),
		}
		if tok, ok := section(m, "tokenizer"); ok {
			exp.Model.Tokenizer = &config.TokenizerSpec{
				MaxLength:         integer(tok, "max_length"),
				Padding:           str(tok, "padding"),
				ReturnTensors:     str(tok, "return_tensors"),
				Truncation:        boolean(tok, "truncation"),
				SpecialTokensMask: boolean(tok, "special_tokens_mask"),
			}
		}
	}

	if viz, ok := section(doc, "visualization"); ok {
		exp.Visualization = &config.VisualizationSpec{
			Columns:          strList(viz, "columns"),
			Gamma:            number(viz, "gamma"),
			Normalize:        boolean(viz, "normalize"),
			FlipAttributions: -1,
		}
		if v, ok := lookup(viz, "flip_attributions"); ok {
			exp.Visualization.FlipAttributions = toInt(v)
		}
	}

	return exp
}

// --- permissive lookup helpers ---

func lookup(obj cty.Value, name string) (cty.Value, bool) {
	t := obj.Type()
	switch {
	case t.IsObjectType():
		if !t.HasAttribute(name) {
			return cty.NilVal, false
		}
		v := obj.GetAttr(name)
		if v.IsNull() {
			return cty.NilVal, false
		}
		return v, true
	case t.IsMapType():
		key := cty.StringVal(name)
		if obj.HasIndex(key).False() {
			return cty.NilVal, false
		}
		v := obj.Index(key)
		if v.IsNull() {
			return cty.NilVal, false
		}
		return v, true
	}
	return cty.NilVal, false
}

func section(obj cty.Value, name string) (cty.Value, bool) {
	v, ok := lookup(obj, name)
	if !ok || !(v.Type().IsObjectType() || v.Type().IsMapType()) {
		return cty.NilVal, false
	}
	return v, true
}

func str(obj cty.Value, name string) string {
	if v, ok := lookup(obj, name); ok && v.Type().Equals(cty.String) {
		return v.AsString()
	}
	return ""
}

func boolean(obj cty.Value, name string) bool {
	if v, ok := lookup(obj, name); ok && v.Type().Equals(cty.Bool) {
		return v.True()
	}
	return false
}

func number(obj cty.Value, name string) float64 {
	if v, ok := lookup(obj, name); ok && v.Type().Equals(cty.Number) {
		f, _ := v.AsBigFloat().Float64()
		return f
	}
	return 0
}

func integer(obj cty.Value, name string) int {
	if v, ok := lookup(obj, name); ok && v.Type().Equals(cty.Number) {
		return toInt(v)
	}
	return 0
}

func toInt(v cty.Value) int {
	if !v.Type().Equals(cty.Number) {
		return 0
	}
	i, _ := v.AsBigFloat().Int64()
	return int(i)
}

func strList(obj cty.Value, name string) []string {
	v, ok := lookup(obj, name)
	if !ok || !v.CanIterateElements() {
		return nil
	}
	var out []string
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		if ev.Type().Equals(cty.String) {
			out = append(out, ev.AsString())
		}
	}
	return out
}

// strOrStrings reads a field that may be a single string or a list of
// strings, normalizing to a slice.
func strOrStrings(obj cty.Value, name string) []string {
	if v, ok := lookup(obj, name); ok && v.Type().Equals(cty.String) {
		return []string{v.AsString()}
	}
	return strList(obj, name)
}
