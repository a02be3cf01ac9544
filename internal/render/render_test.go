package render_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkm/heatlamp/internal/heatmap"
	"github.com/vkm/heatlamp/internal/render"
)

func TestWriteInstance(t *testing.T) {
	inst := &heatmap.Instance{
		Index:     4,
		True:      heatmap.Label{Index: 1, Name: "pos"},
		Predicted: heatmap.Label{Index: 0, Name: "neg"},
		Fields: []heatmap.Field{
			{
				Name: "text",
				Tokens: []heatmap.ColorToken{
					{Token: "great", Attribution: 0.91234, Color: "#ff1414"},
					{Token: "movie", Attribution: -0.25, Color: "#bfbfff"},
				},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, render.WriteInstance(&buf, "imdb-bert-lig", inst))
	html := buf.String()

	assert.Contains(t, html, "imdb-bert-lig")
	assert.Contains(t, html, "instance 4")
	assert.Contains(t, html, "pos (#1)")
	assert.Contains(t, html, "neg (#0)")
	assert.Contains(t, html, `background: #ff1414`)
	assert.Contains(t, html, ">great</mark>")
	assert.Contains(t, html, `title="0.9123"`)
}

func TestWriteInstanceEscapesTokens(t *testing.T) {
	inst := &heatmap.Instance{
		Index: 0,
		Fields: []heatmap.Field{
			{Name: "text", Tokens: []heatmap.ColorToken{
				{Token: "<script>", Color: "#ffffff"},
			}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, render.WriteInstance(&buf, "x", inst))
	assert.NotContains(t, buf.String(), "<script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

func TestWriteIndex(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render.WriteIndex(&buf, "imdb-bert-lig", []string{
		"heatmap_00000.html", "heatmap_00001.html",
	}))
	html := buf.String()

	assert.Contains(t, html, `href="heatmap_00000.html"`)
	assert.Contains(t, html, `href="heatmap_00001.html"`)
}

func TestWriteInstanceUnnamedLabels(t *testing.T) {
	inst := &heatmap.Instance{
		Index:     0,
		True:      heatmap.Label{Index: 2},
		Predicted: heatmap.Label{Index: 2},
		Fields: []heatmap.Field{
			{Name: "text", Tokens: []heatmap.ColorToken{{Token: "x", Color: "#ffffff"}}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, render.WriteInstance(&buf, "x", inst))
	assert.Contains(t, buf.String(), "true: #2")
}
