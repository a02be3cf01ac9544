package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkm/heatlamp/internal/app"
	"github.com/vkm/heatlamp/internal/hclconf"
)

// previewApp runs the full pipeline once and returns the app plus its output
// directory, ready to build a preview router against.
func previewApp(t *testing.T) (*app.App, string) {
	t.Helper()
	base := t.TempDir()
	outputDir := filepath.Join(base, "out")
	recordsDir := filepath.Join(base, "records")
	writeRecords(t, recordsDir)
	configPath := writeExperiment(t, outputDir, recordsDir)

	var out bytes.Buffer
	cfg, err := app.NewConfig(app.Config{ConfigPath: configPath, LogLevel: "error", LogFormat: "text"})
	require.NoError(t, err)

	a := app.NewApp(&out, cfg, hclconf.NewLoader())
	require.NoError(t, a.Run(context.Background()))
	return a, outputDir
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestPreviewHealth(t *testing.T) {
	a, outputDir := previewApp(t)
	resp := get(t, a.PreviewRouter(outputDir), "/health")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "OK", resp.Body.String())
}

func TestPreviewRootRedirectsToIndex(t *testing.T) {
	a, outputDir := previewApp(t)
	resp := get(t, a.PreviewRouter(outputDir), "/")
	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/heatmaps/index.html", resp.Header().Get("Location"))
}

func TestPreviewServesHeatmaps(t *testing.T) {
	a, outputDir := previewApp(t)
	router := a.PreviewRouter(outputDir)

	index := get(t, router, "/heatmaps/index.html")
	assert.Equal(t, http.StatusOK, index.Code)
	assert.Contains(t, index.Body.String(), "heatmap_00000.html")

	page := get(t, router, "/heatmaps/heatmap_00000.html")
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), ">great</mark>")

	missing := get(t, router, "/heatmaps/nope.html")
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestPreviewRejectsPathTraversal(t *testing.T) {
	a, outputDir := previewApp(t)
	secret := filepath.Join(filepath.Dir(outputDir), "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("do not serve"), 0o644))

	router := a.PreviewRouter(outputDir)
	for _, target := range []string{
		"/heatmaps/..%2Fsecret.txt",
		"/heatmaps/%2e%2e%2fsecret.txt",
	} {
		resp := get(t, router, target)
		assert.NotEqual(t, http.StatusOK, resp.Code, "target %s", target)
		assert.NotContains(t, resp.Body.String(), "do not serve", "target %s", target)
	}
}

func TestPreviewListsRuns(t *testing.T) {
	a, outputDir := previewApp(t)
	resp := get(t, a.PreviewRouter(outputDir), "/runs")
	require.Equal(t, http.StatusOK, resp.Code)

	var runs []map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "imdb-bert-lig", runs[0]["coordinate"])
	assert.EqualValues(t, 2, runs[0]["records"])
	assert.NotEmpty(t, runs[0]["run_id"])
}
