package schema

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Validate checks a parsed document value against the experiment schema.
// It returns nil when the document is valid, otherwise an *Error holding
// every issue found.
func Validate(doc cty.Value) error {
	v := &validator{}

	if doc.IsNull() || !isMapping(doc.Type()) {
		v.add("", TypeMismatch, "document must be a mapping of sections to values")
		return &Error{Issues: v.issues}
	}

	v.walkFields("", doc, Experiment())
	v.checkModelPath(doc)

	if len(v.issues) > 0 {
		return &Error{Issues: v.issues}
	}
	return nil
}

type validator struct {
	issues []Issue
}

func (v *validator) add(path string, kind Kind, format string, args ...any) {
	if path == "" {
		path = "(document)"
	}
	v.issues = append(v.issues, Issue{Path: path, Kind: kind, Detail: fmt.Sprintf(format, args...)})
}

// walkFields validates one mapping level against its field set, then flags
// any keys the schema does not know about.
func (v *validator) walkFields(prefix string, obj cty.Value, fields []Field) {
	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f.Name] = struct{}{}
		v.checkField(joinPath(prefix, f.Name), obj, f)
	}

	if !obj.Type().IsObjectType() {
		return
	}
	for name := range obj.Type().AttributeTypes() {
		if _, ok := known[name]; !ok {
			v.add(joinPath(prefix, name), UnknownValue, "unsupported key")
		}
	}
}

func (v *validator) checkField(path string, obj cty.Value, f Field) {
	val, ok := attr(obj, f.Name)
	if !ok || val.IsNull() {
		if f.Required {
			v.add(path, MissingField, "required key is absent")
		}
		return
	}

	// Nested section.
	if len(f.Fields) > 0 {
		if !isMapping(val.Type()) {
			v.add(path, TypeMismatch, "expected a mapping, got %s", val.Type().FriendlyName())
			return
		}
		v.walkFields(path, val, f.Fields)
		return
	}

	if !v.checkType(path, val, f) {
		return
	}
	v.checkValue(path, val, f)
}

// checkType reports a TypeMismatch unless the value's type is acceptable
// for the field. Number constraints (integrality, positivity) count as part
// of the type.
func (v *validator) checkType(path string, val cty.Value, f Field) bool {
	matched := false
	for _, want := range f.Types {
		if accepts(want, val) {
			matched = true
			break
		}
	}
	if !matched {
		v.add(path, TypeMismatch, "expected %s, got %s", typeNames(f.Types), val.Type().FriendlyName())
		return false
	}

	if val.Type().Equals(cty.Number) {
		bf := val.AsBigFloat()
		if f.Integer && !bf.IsInt() {
			v.add(path, TypeMismatch, "expected a whole number, got %s", bf.Text('g', -1))
			return false
		}
		if f.Positive && bf.Sign() <= 0 {
			v.add(path, TypeMismatch, "expected a positive number, got %s", bf.Text('g', -1))
			return false
		}
	}
	return true
}

// checkValue applies the allowed-set constraints once the kind is right.
func (v *validator) checkValue(path string, val cty.Value, f Field) {
	if len(f.OneOf) > 0 && val.Type().Equals(cty.String) {
		got := val.AsString()
		for _, allowed := range f.OneOf {
			if got == allowed {
				return
			}
		}
		v.add(path, UnknownValue, "unsupported value %q (allowed: %s)", got, strings.Join(f.OneOf, ", "))
		return
	}

	if len(f.Elems) > 0 {
		var got []string
		for it := val.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			got = append(got, ev.AsString())
		}
		if len(got) != len(f.Elems) {
			v.add(path, UnknownValue, "expected exactly %d columns [%s], got %d", len(f.Elems), strings.Join(f.Elems, ", "), len(got))
			return
		}
		for n := range got {
			if got[n] != f.Elems[n] {
				v.add(path, UnknownValue, "expected column %q at position %d, got %q", f.Elems[n], n, got[n])
				return
			}
		}
	}
}

// checkModelPath enforces the one cross-field rule: model.mode "local"
// requires model.path.
func (v *validator) checkModelPath(doc cty.Value) {
	model, ok := attr(doc, "model")
	if !ok || model.IsNull() || !isMapping(model.Type()) {
		return
	}
	mode, ok := attr(model, "mode")
	if !ok || mode.IsNull() || !mode.Type().Equals(cty.String) || mode.AsString() != "local" {
		return
	}
	if p, ok := attr(model, "path"); !ok || p.IsNull() {
		v.add("model.path", MissingField, "required when model.mode is \"local\"")
	}
}

// --- value/type helpers ---

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func isMapping(t cty.Type) bool {
	return t.IsObjectType() || t.IsMapType()
}

// attr looks up a key on either an object or a map value.
func attr(obj cty.Value, name string) (cty.Value, bool) {
	t := obj.Type()
	switch {
	case t.IsObjectType():
		if !t.HasAttribute(name) {
			return cty.NilVal, false
		}
		return obj.GetAttr(name), true
	case t.IsMapType():
		key := cty.StringVal(name)
		if idx := obj.HasIndex(key); idx.False() {
			return cty.NilVal, false
		}
		return obj.Index(key), true
	default:
		return cty.NilVal, false
	}
}

// accepts reports whether a value satisfies a wanted type. JSON and native
// syntax both surface sequences as tuples, so a wanted list type also
// accepts any tuple whose elements all convert to the list's element type.
func accepts(want cty.Type, val cty.Value) bool {
	t := val.Type()
	if t.Equals(want) {
		return true
	}
	if want.IsListType() {
		if t.IsListType() && t.ElementType().Equals(want.ElementType()) {
			return true
		}
		if t.IsTupleType() {
			for _, et := range t.TupleElementTypes() {
				if !et.Equals(want.ElementType()) {
					return false
				}
			}
			return true
		}
	}
	return false
}

func typeNames(types []cty.Type) string {
	names := make([]string, len(types))
	for n, t := range types {
		names[n] = t.FriendlyName()
	}
	return strings.Join(names, " or ")
}
