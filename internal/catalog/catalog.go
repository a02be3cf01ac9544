package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Entry describes one experiment coordinate: a dataset, the model probed
// on it, and the explainer that produced the attribution records.
type Entry struct {
	// Name is the coordinate string, e.g. "imdb-bert-lig".
	Name string

	Dataset      string
	TextFields   []string
	LabelClasses []string

	// ModelCode is the short model name used inside coordinates;
	// ModelID is the full hub identifier.
	ModelCode string
	ModelID   string

	// ExplainerCode is the short explainer name used inside coordinates;
	// Explainer is the algorithm class name.
	ExplainerCode string
	Explainer     string
}

// explainerClasses maps coordinate codes to algorithm class names.
var explainerClasses = map[string]string{
	"lgxa":     "LayerGradientXActivation",
	"lig":      "LayerIntegratedGradients",
	"dl":       "DeepLift",
	"lds":      "LayerDeepLiftShap",
	"lgs":      "LayerGradientShap",
	"iba":      "IBA",
	"lime":     "Lime",
	"limebase": "LimeBase",
	"occ":      "Occlusion",
	"svs":      "ShapleyValueSampling",
	"ks":       "KernelShap",
}

type datasetInfo struct {
	textFields   []string
	labelClasses []string
	models       map[string]string // code -> hub id
}

var datasetTable = map[string]datasetInfo{
	"imdb": {
		textFields:   []string{"text"},
		labelClasses: []string{"neg", "pos"},
		models: map[string]string{
			"albert":  "textattack/albert-base-v2-imdb",
			"bert":    "textattack/bert-base-uncased-imdb",
			"electra": "monologg/electra-small-finetuned-imdb",
			"roberta": "textattack/roberta-base-imdb",
			"xlnet":   "textattack/xlnet-base-cased-imdb",
		},
	},
	"agnews": {
		textFields:   []string{"text"},
		labelClasses: []string{"World", "Sports", "Business", "Sci/Tech"},
		models: map[string]string{
			"albert":  "textattack/albert-base-v2-ag-news",
			"bert":    "textattack/bert-base-uncased-ag-news",
			"roberta": "textattack/roberta-base-ag-news",
		},
	},
	"mnli": {
		textFields:   []string{"premise", "hypothesis"},
		labelClasses: []string{"entailment", "neutral", "contradiction"},
		models: map[string]string{
			"albert":  "prajjwal1/albert-base-v2-mnli",
			"bert":    "textattack/bert-base-uncased-MNLI",
			"electra": "howey/electra-base-mnli",
			"roberta": "textattack/roberta-base-MNLI",
			"xlnet":   "textattack/xlnet-base-cased-MNLI",
		},
	},
	"xnli": {
		textFields:   []string{"premise", "hypothesis"},
		labelClasses: []string{"entailment", "neutral", "contradiction"},
		models: map[string]string{
			"bert":    "textattack/bert-base-uncased-MNLI",
			"roberta": "textattack/roberta-base-MNLI",
		},
	},
}

// Catalog is an immutable set of entries indexed by coordinate name.
type Catalog struct {
	entries map[string]*Entry
	names   []string
}

// New builds the built-in catalog: the cross product of each dataset's
// models with every explainer.
func New() *Catalog {
	c := &Catalog{entries: make(map[string]*Entry)}
	for dsName, ds := range datasetTable {
		for modelCode, modelID := range ds.models {
			for expCode, expClass := range explainerClasses {
				e := &Entry{
					Name:          fmt.Sprintf("%s-%s-%s", dsName, modelCode, expCode),
					Dataset:       dsName,
					TextFields:    ds.textFields,
					LabelClasses:  ds.labelClasses,
					ModelCode:     modelCode,
					ModelID:       modelID,
					ExplainerCode: expCode,
					Explainer:     expClass,
				}
				c.entries[e.Name] = e
			}
		}
	}
	c.names = make([]string, 0, len(c.entries))
	for name := range c.entries {
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	return c
}

// List returns all coordinate names in sorted order.
func (c *Catalog) List() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Get returns the entry for an exact coordinate name.
func (c *Catalog) Get(name string) (*Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Resolve expands a coordinate query into entries. An exact name yields one
// entry; "dataset-model" yields all explainer subsets; "dataset-explainer"
// yields all model subsets.
func (c *Catalog) Resolve(query string) ([]*Entry, error) {
	if e, ok := c.entries[query]; ok {
		return []*Entry{e}, nil
	}

	parts := strings.SplitN(query, "-", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("unknown coordinate %q; run with -list-configs for available options", query)
	}
	dsName, rest := parts[0], parts[1]

	var matches []*Entry
	for _, name := range c.names {
		e := c.entries[name]
		if e.Dataset != dsName {
			continue
		}
		if e.ModelCode == rest || e.ExplainerCode == rest {
			matches = append(matches, e)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("unknown coordinate %q; run with -list-configs for available options", query)
	}
	return matches, nil
}

// Find locates the entry matching an experiment's dataset name, model hub
// id, and explainer class name.
func (c *Catalog) Find(dataset, modelID, explainer string) (*Entry, bool) {
	for _, name := range c.names {
		e := c.entries[name]
		if e.Dataset == dataset && e.ModelID == modelID && e.Explainer == explainer {
			return e, true
		}
	}
	return nil, false
}

// Explainers returns the sorted set of known explainer class names.
func Explainers() []string {
	out := make([]string, 0, len(explainerClasses))
	for _, class := range explainerClasses {
		out = append(out, class)
	}
	sort.Strings(out)
	return out
}

// ExplainerClass resolves a coordinate code ("lig") to its class name.
func ExplainerClass(code string) (string, bool) {
	class, ok := explainerClasses[code]
	return class, ok
}

// Datasets returns the sorted set of known dataset names.
func Datasets() []string {
	out := make([]string, 0, len(datasetTable))
	for name := range datasetTable {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Allowed value sets for scalar config fields.
var (
	Devices           = []string{"cpu", "cuda"}
	LoadModes         = []string{"hf", "local"}
	PaddingStrategies = []string{"max_length", "longest", "do_not_pad"}
	TensorFormats     = []string{"pt", "tf", "np"}
)
