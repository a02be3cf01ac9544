package config

// Defaults for optional fields, applied after translation and before
// validation of cross-field rules.
const (
	DefaultSplit   = "test"
	DefaultPadding = "max_length"
	DefaultTensors = "pt"
	DefaultGamma   = 1.0
)

// ApplyDefaults fills optional fields that the document left unset. Nil
// sections are left alone so that the validator reports them as missing
// instead of silently materializing them.
func (e *Experiment) ApplyDefaults() {
	if e.Dataset != nil && e.Dataset.Split == "" {
		e.Dataset.Split = DefaultSplit
	}
	if e.Model != nil && e.Model.Tokenizer != nil {
		tok := e.Model.Tokenizer
		if tok.Padding == "" {
			tok.Padding = DefaultPadding
		}
		if tok.ReturnTensors == "" {
			tok.ReturnTensors = DefaultTensors
		}
	}
	if e.Visualization != nil {
		if e.Visualization.Gamma == 0 {
			e.Visualization.Gamma = DefaultGamma
		}
	}
}
