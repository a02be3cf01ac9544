package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vkm/heatlamp/internal/config"
)

func TestApplyDefaults(t *testing.T) {
	t.Run("fills optional fields", func(t *testing.T) {
		exp := &config.Experiment{
			Dataset:       &config.DatasetSpec{Name: "imdb"},
			Model:         &config.ModelSpec{Tokenizer: &config.TokenizerSpec{MaxLength: 512}},
			Visualization: &config.VisualizationSpec{},
		}
		exp.ApplyDefaults()

		assert.Equal(t, "test", exp.Dataset.Split)
		assert.Equal(t, "max_length", exp.Model.Tokenizer.Padding)
		assert.Equal(t, "pt", exp.Model.Tokenizer.ReturnTensors)
		assert.InDelta(t, 1.0, exp.Visualization.Gamma, 1e-9)
	})

	t.Run("does not override explicit values", func(t *testing.T) {
		exp := &config.Experiment{
			Dataset:       &config.DatasetSpec{Split: "validation"},
			Visualization: &config.VisualizationSpec{Gamma: 2.0},
		}
		exp.ApplyDefaults()

		assert.Equal(t, "validation", exp.Dataset.Split)
		assert.InDelta(t, 2.0, exp.Visualization.Gamma, 1e-9)
	})

	t.Run("leaves missing sections nil", func(t *testing.T) {
		exp := &config.Experiment{}
		exp.ApplyDefaults()
		assert.Nil(t, exp.Dataset)
		assert.Nil(t, exp.Model)
		assert.Nil(t, exp.Visualization)
	})
}
