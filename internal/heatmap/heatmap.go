package heatmap

import (
	"fmt"
	"strconv"

	"github.com/vkm/heatlamp/internal/attribution"
)

// Wordpiece and sentencepiece special tokens that never render.
var specialTokens = map[string]bool{
	"[CLS]": true, "[SEP]": true, "[PAD]": true, "[MASK]": true, "[UNK]": true,
	"<s>": true, "</s>": true, "<pad>": true, "<mask>": true, "<unk>": true,
}

// Separator tokens split the input into text fields (premise/hypothesis).
var separatorTokens = map[string]bool{
	"[SEP]": true, "</s>": true,
}

// ColorToken is one rendered token with its attribution and background.
type ColorToken struct {
	Token       string
	Attribution float64
	Color       string
}

// Field is the heatmap of one text field.
type Field struct {
	Name   string
	Tokens []ColorToken
}

// Label pairs a class index with its decoded name.
type Label struct {
	Index int
	Name  string
}

// Instance is the heatmap of one attribution record.
type Instance struct {
	Index     int
	True      Label
	Predicted Label
	Fields    []Field
}

// Options controls heatmap construction.
type Options struct {
	Gamma     float64
	Normalize bool
	// FlipAttributions negates scores when it equals the predicted label
	// index; -1 disables.
	FlipAttributions int
	FuseStrategy     FuseStrategy
	TextFields       []string
	LabelClasses     []string
}

// Build computes the heatmap for one record: normalize and flip the
// attribution vector, split the token stream into text fields at separator
// tokens, drop special tokens, fuse subwords, and color what remains.
func Build(rec *attribution.Record, opts Options) (*Instance, error) {
	tokens := rec.Tokens
	if len(tokens) == 0 {
		// Records without decoded tokens still render, keyed by id.
		tokens = make([]string, len(rec.InputIDs))
		for n, id := range rec.InputIDs {
			tokens[n] = strconv.Itoa(id)
		}
	}

	atts := rec.Attributions
	if opts.Normalize {
		atts = Normalize(atts)
	}
	predicted := rec.PredictedLabel()
	if opts.FlipAttributions >= 0 && opts.FlipAttributions == predicted {
		atts = Flip(atts)
	}

	inst := &Instance{
		Index:     rec.Index,
		True:      decodeLabel(rec.Label, opts.LabelClasses),
		Predicted: decodeLabel(predicted, opts.LabelClasses),
	}

	for g, group := range groupFields(tokens, atts) {
		fused, fusedAtts := FuseSubwords(group.tokens, group.atts, opts.FuseStrategy)
		field := Field{Name: fieldName(g, opts.TextFields)}
		for n, tok := range fused {
			field.Tokens = append(field.Tokens, ColorToken{
				Token:       tok,
				Attribution: fusedAtts[n],
				Color:       Color(fusedAtts[n], opts.Gamma),
			})
		}
		inst.Fields = append(inst.Fields, field)
	}

	if len(inst.Fields) == 0 {
		return nil, fmt.Errorf("instance %d: no renderable tokens", rec.Index)
	}
	return inst, nil
}

type tokenGroup struct {
	tokens []string
	atts   []float64
}

// groupFields splits the token stream at separator tokens and drops groups
// that hold nothing but special tokens (trailing padding).
func groupFields(tokens []string, atts []float64) []tokenGroup {
	var groups []tokenGroup
	current := tokenGroup{}

	closeGroup := func() {
		if len(current.tokens) > 0 {
			groups = append(groups, current)
		}
		current = tokenGroup{}
	}

	for n, tok := range tokens {
		if separatorTokens[tok] {
			closeGroup()
			continue
		}
		if specialTokens[tok] {
			continue
		}
		current.tokens = append(current.tokens, tok)
		current.atts = append(current.atts, atts[n])
	}
	closeGroup()

	return groups
}

func fieldName(n int, textFields []string) string {
	if n < len(textFields) {
		return textFields[n]
	}
	return fmt.Sprintf("field_%d", n)
}

func decodeLabel(index int, classes []string) Label {
	l := Label{Index: index}
	if index >= 0 && index < len(classes) {
		l.Name = classes[index]
	}
	return l
}
