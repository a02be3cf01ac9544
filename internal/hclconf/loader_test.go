package hclconf_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkm/heatlamp/internal/config"
	"github.com/vkm/heatlamp/internal/ctxlog"
	"github.com/vkm/heatlamp/internal/hclconf"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ctxlog.WithLogger(context.Background(), logger)
}

func TestParse(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("testdata", "imdb-bert-lig.json"))
	require.NoError(t, err)

	doc, parseErr := hclconf.NewLoader().Parse(src, "imdb-bert-lig.json")
	require.NoError(t, parseErr)

	t.Run("document has exactly the six sections", func(t *testing.T) {
		attrs := doc.Type().AttributeTypes()
		assert.Len(t, attrs, 6)
		for _, key := range []string{"path", "device", "dataset", "explainer", "model", "visualization"} {
			assert.Contains(t, attrs, key)
		}
	})

	t.Run("syntax errors are reported", func(t *testing.T) {
		_, err := hclconf.NewLoader().Parse([]byte(`{"path": `), "broken.json")
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	loader := hclconf.NewLoader()

	for _, ext := range []string{".json", ".hcl"} {
		t.Run("loads "+ext+" documents", func(t *testing.T) {
			exp, err := loader.Load(testContext(), filepath.Join("testdata", "imdb-bert-lig"+ext))
			require.NoError(t, err)

			assert.Equal(t, "./experiments/imdb-bert-lig", exp.Path)
			assert.Equal(t, "cpu", exp.Device)

			require.NotNil(t, exp.Dataset)
			assert.Equal(t, "imdb", exp.Dataset.Name)
			assert.Equal(t, "test", exp.Dataset.Split)
			assert.Equal(t, []string{"text"}, exp.Dataset.TextFields)
			assert.Equal(t, []string{"input_ids", "attention_mask", "token_type_ids", "labels"}, exp.Dataset.Columns)
			assert.Equal(t, 1, exp.Dataset.BatchSize)

			require.NotNil(t, exp.Explainer)
			assert.Equal(t, "LayerIntegratedGradients", exp.Explainer.Name)
			assert.Equal(t, 16, exp.Explainer.InternalBatchSize)

			require.NotNil(t, exp.Model)
			assert.Equal(t, "textattack/bert-base-uncased-imdb", exp.Model.Name)
			assert.Equal(t, "hf", exp.Model.Mode)
			require.NotNil(t, exp.Model.Tokenizer)
			assert.Equal(t, 512, exp.Model.Tokenizer.MaxLength)
			assert.Equal(t, "max_length", exp.Model.Tokenizer.Padding)
			assert.True(t, exp.Model.Tokenizer.Truncation)
			assert.True(t, exp.Model.Tokenizer.SpecialTokensMask)

			require.NotNil(t, exp.Visualization)
			assert.InDelta(t, 2.0, exp.Visualization.Gamma, 1e-9)
			assert.True(t, exp.Visualization.Normalize)
			assert.Equal(t, -1, exp.Visualization.FlipAttributions, "sign flipping defaults to disabled")
		})
	}

	t.Run("invalid document fails before translation", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"path": "./out"}`), 0o644))

		_, err := loader.Load(testContext(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MissingField")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(testContext(), filepath.Join("testdata", "nope.json"))
		assert.Error(t, err)
	})
}

func TestMarshalRoundTrip(t *testing.T) {
	loader := hclconf.NewLoader()

	exp, err := loader.Load(testContext(), filepath.Join("testdata", "imdb-bert-lig.json"))
	require.NoError(t, err)

	out, err := loader.Marshal(exp)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "roundtrip.json")
	require.NoError(t, os.WriteFile(path, out, 0o644))

	again, err := loader.Load(testContext(), path)
	require.NoError(t, err)
	assert.Equal(t, exp, again, "serialize+reparse must be idempotent")
}

func TestMarshalOmitsUnsetOptionals(t *testing.T) {
	exp := &config.Experiment{
		Path:   "./out",
		Device: "cpu",
		Dataset: &config.DatasetSpec{
			Name:       "imdb",
			Split:      "test",
			TextFields: []string{"text"},
			Columns:    []string{"input_ids", "attention_mask", "token_type_ids", "labels"},
			BatchSize:  1,
			RootDir:    "./records",
		},
		Explainer: &config.ExplainerSpec{Name: "Occlusion"},
		Model: &config.ModelSpec{
			Name:      "m",
			Mode:      "hf",
			Tokenizer: &config.TokenizerSpec{MaxLength: 512, Padding: "max_length", ReturnTensors: "pt"},
		},
		Visualization: &config.VisualizationSpec{
			Columns:          []string{"input_ids"},
			Gamma:            1.0,
			FlipAttributions: -1,
		},
	}

	out, err := hclconf.NewLoader().Marshal(exp)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "subset")
	assert.NotContains(t, string(out), "internal_batch_size")
	assert.NotContains(t, string(out), "flip_attributions")
}
