// Package stats computes corpus-level statistics over attribution records:
// per-token average attribution and cross-explainer agreement.
package stats
