// Package render writes heatmaps out as self-contained HTML pages.
package render
