package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vkm/heatlamp/internal/store"
)

// servePreview blocks serving the rendered output directory and run
// metadata until the context is canceled.
func (a *App) servePreview(ctx context.Context, outputDir string) error {
	addr := fmt.Sprintf(":%d", a.config.ServePort)
	srv := &http.Server{Addr: addr, Handler: a.PreviewRouter(outputDir)}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("🔍 Preview server starting.", "address", fmt.Sprintf("http://localhost%s/", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("preview server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.logger.Info("Shutting down preview server...")
	return srv.Shutdown(shutdownCtx)
}

// PreviewRouter builds the gin engine serving the rendered output directory
// and run metadata.
func (a *App) PreviewRouter(outputDir string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/heatmaps/index.html")
	})

	router.GET("/heatmaps/:name", func(c *gin.Context) {
		name := filepath.Base(c.Param("name")) // no path traversal
		c.File(filepath.Join(outputDir, name))
	})

	router.GET("/runs", func(c *gin.Context) {
		runStore, err := store.Open(filepath.Join(outputDir, "runs.db"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer runStore.Close()

		runs, err := runStore.List()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out := make([]gin.H, 0, len(runs))
		for _, run := range runs {
			out = append(out, gin.H{
				"run_id":      run.ID,
				"coordinate":  run.Coordinate,
				"records":     run.Records,
				"output_dir":  run.OutputDir,
				"started_at":  run.StartedAt,
				"duration_ms": run.Duration.Milliseconds(),
			})
		}
		c.JSON(http.StatusOK, out)
	})

	return router
}
