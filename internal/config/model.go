package config

// Experiment is the unified representation of one experiment configuration
// document. Exactly six sections exist; all pipeline components read from
// this struct, never from the raw document.
type Experiment struct {
	// Path is the output directory for experiment artifacts.
	Path string

	// Device selects the compute target of the upstream explainer run
	// ("cpu" or "cuda"). This tool only records it.
	Device string

	Dataset       *DatasetSpec
	Explainer     *ExplainerSpec
	Model         *ModelSpec
	Visualization *VisualizationSpec
}

// DatasetSpec identifies the dataset slice the attributions were computed
// over.
type DatasetSpec struct {
	Name       string
	Subset     string
	Split      string
	TextFields []string
	Columns    []string
	BatchSize  int
	RootDir    string
}

// ExplainerSpec names the attribution algorithm and its batching parameter.
type ExplainerSpec struct {
	Name              string
	InternalBatchSize int
}

// ModelSpec identifies the probed classifier and how it was loaded.
type ModelSpec struct {
	Name string
	// Mode is "hf" (pulled from the hub) or "local" (Path points at a
	// checkpoint directory).
	Mode      string
	Path      string
	Tokenizer *TokenizerSpec
}

// TokenizerSpec mirrors the tokenizer settings of the upstream run. They
// matter here because record alignment depends on them.
type TokenizerSpec struct {
	MaxLength         int
	Padding           string
	ReturnTensors     string
	Truncation        bool
	SpecialTokensMask bool
}

// VisualizationSpec controls heatmap generation and rendering.
type VisualizationSpec struct {
	Columns   []string
	Gamma     float64
	Normalize bool
	// FlipAttributions holds a label index whose attributions are sign
	// flipped, or -1 when disabled.
	FlipAttributions int
}
