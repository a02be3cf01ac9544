package heatmap

import "math"

// Normalize scales attributions into [-1, 1] by the maximum absolute
// value. All-zero vectors are returned unchanged.
func Normalize(atts []float64) []float64 {
	maxAbs := 0.0
	for _, a := range atts {
		if abs := math.Abs(a); abs > maxAbs {
			maxAbs = abs
		}
	}

	out := make([]float64, len(atts))
	if maxAbs == 0 {
		copy(out, atts)
		return out
	}
	for n, a := range atts {
		out[n] = a / maxAbs
	}
	return out
}

// Flip negates every attribution. Used when the rendered polarity should
// follow a specific label instead of the predicted one.
func Flip(atts []float64) []float64 {
	out := make([]float64, len(atts))
	for n, a := range atts {
		out[n] = -a
	}
	return out
}
