package schema

import (
	"github.com/vkm/heatlamp/internal/catalog"
	"github.com/zclconf/go-cty/cty"
)

// Columns is the canonical ordered column list an experiment dataset must
// declare.
var Columns = []string{"input_ids", "attention_mask", "token_type_ids", "labels"}

// Field describes one expected key of a document section.
type Field struct {
	Name     string
	Required bool

	// Types lists the acceptable value types. Empty means the field is a
	// nested section described by Fields.
	Types []cty.Type

	// Positive and Integer constrain number-typed fields. A violation is
	// a TypeMismatch: positivity is part of the field's kind.
	Positive bool
	Integer  bool

	// OneOf restricts a string field to an allowed value set; violations
	// are UnknownValue.
	OneOf []string

	// Elems pins a string-list field to exact ordered contents.
	Elems []string

	Fields []Field
}

// Experiment returns the document schema: the six top-level sections and
// their fields. Allowed value sets come from the catalog.
func Experiment() []Field {
	str := []cty.Type{cty.String}
	num := []cty.Type{cty.Number}
	boolean := []cty.Type{cty.Bool}
	strList := []cty.Type{cty.List(cty.String)}

	return []Field{
		{Name: "path", Required: true, Types: str},
		{Name: "device", Required: true, Types: str, OneOf: catalog.Devices},
		{Name: "dataset", Required: true, Fields: []Field{
			{Name: "name", Required: true, Types: str},
			{Name: "subset", Types: str},
			{Name: "split", Types: str},
			{Name: "text_field", Required: true, Types: []cty.Type{cty.String, cty.List(cty.String)}},
			{Name: "columns", Required: true, Types: strList, Elems: Columns},
			{Name: "batch_size", Required: true, Types: num, Positive: true, Integer: true},
			{Name: "root_dir", Required: true, Types: str},
		}},
		{Name: "explainer", Required: true, Fields: []Field{
			{Name: "name", Required: true, Types: str, OneOf: catalog.Explainers()},
			{Name: "internal_batch_size", Types: num, Positive: true, Integer: true},
		}},
		{Name: "model", Required: true, Fields: []Field{
			{Name: "name", Required: true, Types: str},
			{Name: "mode", Required: true, Types: str, OneOf: catalog.LoadModes},
			{Name: "path", Types: str},
			{Name: "tokenizer", Required: true, Fields: []Field{
				{Name: "max_length", Required: true, Types: num, Positive: true, Integer: true},
				{Name: "padding", Types: str, OneOf: catalog.PaddingStrategies},
				{Name: "return_tensors", Types: str, OneOf: catalog.TensorFormats},
				{Name: "truncation", Types: boolean},
				{Name: "special_tokens_mask", Types: boolean},
			}},
		}},
		{Name: "visualization", Required: true, Fields: []Field{
			{Name: "columns", Required: true, Types: strList},
			{Name: "gamma", Required: true, Types: num, Positive: true},
			{Name: "normalize", Required: true, Types: boolean},
			{Name: "flip_attributions", Types: num, Integer: true},
		}},
	}
}
