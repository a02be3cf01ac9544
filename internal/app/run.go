package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vkm/heatlamp/internal/attribution"
	"github.com/vkm/heatlamp/internal/ctxlog"
	"github.com/vkm/heatlamp/internal/executor"
	"github.com/vkm/heatlamp/internal/fsutil"
	"github.com/vkm/heatlamp/internal/heatmap"
	"github.com/vkm/heatlamp/internal/render"
	"github.com/vkm/heatlamp/internal/stats"
	"github.com/vkm/heatlamp/internal/store"
)

// Run executes the pipeline selected by the CLI configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.ListConfigs {
		for _, name := range a.catalog.List() {
			fmt.Fprintln(a.outW, name)
		}
		return nil
	}

	if a.config.ValidateOnly {
		// Validation already ran at load time; reaching this point means
		// the document is sound.
		a.logger.Info("Configuration is valid.", "path", a.config.ConfigPath)
		return nil
	}

	started := time.Now()

	recordsPath, err := a.resolveRecordsPath()
	if err != nil {
		return err
	}
	records, err := attribution.ReadFile(ctx, recordsPath)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no attribution records in %s", recordsPath)
	}
	a.logger.Info("Attribution records loaded.", "path", recordsPath, "count", len(records))

	outputDir := a.config.OutputDir
	if outputDir == "" {
		outputDir = a.experiment.Path
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir %s: %w", outputDir, err)
	}

	files, err := a.renderHeatmaps(ctx, records, outputDir)
	if err != nil {
		return err
	}

	if a.config.Stats {
		a.reportStats(records)
	}
	if len(a.config.Compare) > 0 {
		if err := a.reportAgreement(ctx, records); err != nil {
			return err
		}
	}

	runID, err := a.recordRun(outputDir, started, len(records))
	if err != nil {
		return err
	}
	a.logger.Info("🏁 Run complete.",
		"run_id", runID, "output_dir", outputDir, "instances", len(files),
		"duration", time.Since(started).Round(time.Millisecond))

	if a.config.ServePort > 0 {
		return a.servePreview(ctx, outputDir)
	}
	return nil
}

// resolveRecordsPath finds the JSON-lines record file: an explicit -records
// flag wins, otherwise <root_dir>/<coordinate>.jsonl, otherwise a lone
// .jsonl file anywhere under root_dir.
func (a *App) resolveRecordsPath() (string, error) {
	if a.config.RecordsPath != "" {
		return a.config.RecordsPath, nil
	}

	rootDir := a.experiment.Dataset.RootDir
	canonical := filepath.Join(rootDir, a.coordinate()+".jsonl")
	if _, err := os.Stat(canonical); err == nil {
		return canonical, nil
	}

	found, err := fsutil.FindFilesByExtension(rootDir, ".jsonl")
	if err != nil {
		return "", fmt.Errorf("failed to search %s for record files: %w", rootDir, err)
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no record files under %s; expected %s", rootDir, canonical)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%d record files under %s; pass -records to pick one", len(found), rootDir)
	}
}

// renderHeatmaps builds and writes one HTML page per record plus an index,
// using the worker pool. Output file order follows record order.
func (a *App) renderHeatmaps(ctx context.Context, records []attribution.Record, outputDir string) ([]string, error) {
	opts := heatmap.Options{
		Gamma:            a.experiment.Visualization.Gamma,
		Normalize:        a.experiment.Visualization.Normalize,
		FlipAttributions: a.experiment.Visualization.FlipAttributions,
		FuseStrategy:     heatmap.FuseSalient,
		TextFields:       a.experiment.Dataset.TextFields,
	}
	if a.entry != nil {
		opts.LabelClasses = a.entry.LabelClasses
	}

	coordinate := a.coordinate()
	files := make([]string, len(records))
	var mu sync.Mutex

	pool := executor.New(a.config.Workers)
	err := pool.Run(ctx, len(records), func(ctx context.Context, i int) error {
		inst, err := heatmap.Build(&records[i], opts)
		if err != nil {
			return err
		}

		name := fmt.Sprintf("heatmap_%05d.html", records[i].Index)
		f, err := os.Create(filepath.Join(outputDir, name))
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", name, err)
		}
		if err := render.WriteInstance(f, coordinate, inst); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		mu.Lock()
		files[i] = name
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("heatmap rendering failed: %w", err)
	}

	indexFile, err := os.Create(filepath.Join(outputDir, "index.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}
	defer indexFile.Close()
	if err := render.WriteIndex(indexFile, coordinate, files); err != nil {
		return nil, err
	}

	a.logger.Info("Heatmaps rendered.", "count", len(files), "output_dir", outputDir)
	return files, nil
}

// topK bounds every printed token ranking.
const topK = 15

// reportStats prints the most positively and negatively attributed tokens.
func (a *App) reportStats(records []attribution.Record) {
	tokenStats := stats.AverageAttribution(records)

	fmt.Fprintln(a.outW, "top tokens by average attribution:")
	for n, ts := range tokenStats {
		if n >= topK {
			break
		}
		fmt.Fprintf(a.outW, "  %-20s %+.5f (%d occurrences)\n", ts.Token, ts.Average, ts.Count)
	}
	if len(tokenStats) > topK {
		fmt.Fprintln(a.outW, "bottom tokens by average attribution:")
		start := len(tokenStats) - topK
		for _, ts := range tokenStats[start:] {
			fmt.Fprintf(a.outW, "  %-20s %+.5f (%d occurrences)\n", ts.Token, ts.Average, ts.Count)
		}
	}
}

// reportAgreement loads the -compare record sets and prints the token
// positions the explainers disagree on most. The primary set is named after
// the document's explainer; compare sets take their file's base name.
func (a *App) reportAgreement(ctx context.Context, records []attribution.Record) error {
	sets := map[string][]attribution.Record{a.experiment.Explainer.Name: records}
	for _, path := range a.config.Compare {
		recs, err := attribution.ReadFile(ctx, path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		sets[name] = recs
	}

	disagreements, err := stats.ExplainerAgreement(sets)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.outW, "largest explainer disagreements:")
	for n, d := range disagreements {
		if n >= topK {
			break
		}
		fmt.Fprintf(a.outW, "  %-20s instance %d position %d spread %.5f\n", d.Token, d.Instance, d.Position, d.Spread)
	}
	return nil
}

// recordRun persists run metadata next to the rendered output.
func (a *App) recordRun(outputDir string, started time.Time, recordCount int) (string, error) {
	configJSON, err := a.loader.Marshal(a.experiment)
	if err != nil {
		return "", err
	}

	runStore, err := store.Open(filepath.Join(outputDir, "runs.db"))
	if err != nil {
		return "", err
	}
	defer runStore.Close()

	return runStore.Save(store.Run{
		Coordinate: a.coordinate(),
		ConfigJSON: string(configJSON),
		Records:    recordCount,
		OutputDir:  outputDir,
		StartedAt:  started,
		Duration:   time.Since(started),
	})
}
