// Package catalog holds the built-in table of experiment coordinates
// (dataset-model-explainer combinations with published attribution records)
// and the allowed value sets consulted during config validation.
package catalog
