// Package heatmap turns attribution records into colored token sequences:
// normalization, sign flipping, subword fusing, special-token handling, and
// the attribution-to-color mapping with gamma correction.
package heatmap
