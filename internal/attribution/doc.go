// Package attribution models the per-instance output of an upstream
// explainer run and reads it back from JSON-lines record files.
package attribution
