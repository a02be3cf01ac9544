package heatmap

import (
	"math"
	"strings"
)

// FuseStrategy selects how subword attributions combine into one word.
type FuseStrategy string

const (
	// FuseSalient keeps the component with the largest magnitude.
	FuseSalient FuseStrategy = "salient"
	// FuseAverage takes the mean of the components.
	FuseAverage FuseStrategy = "average"
	// FuseNone leaves wordpieces as-is.
	FuseNone FuseStrategy = ""
)

// FuseSubwords merges wordpiece continuation tokens ("##ing") into the
// preceding token, combining attributions per the strategy. Tokens and
// attributions must align.
func FuseSubwords(tokens []string, atts []float64, strategy FuseStrategy) ([]string, []float64) {
	if strategy == FuseNone {
		return tokens, atts
	}

	var outTokens []string
	var outAtts []float64
	var parts []float64

	flush := func() {
		if len(parts) == 0 {
			return
		}
		outAtts = append(outAtts, combine(parts, strategy))
		parts = nil
	}

	for n, tok := range tokens {
		if strings.HasPrefix(tok, "##") && len(outTokens) > 0 {
			outTokens[len(outTokens)-1] += strings.TrimPrefix(tok, "##")
			parts = append(parts, atts[n])
			continue
		}
		flush()
		outTokens = append(outTokens, tok)
		parts = []float64{atts[n]}
	}
	flush()

	return outTokens, outAtts
}

func combine(parts []float64, strategy FuseStrategy) float64 {
	switch strategy {
	case FuseAverage:
		sum := 0.0
		for _, p := range parts {
			sum += p
		}
		return sum / float64(len(parts))
	default: // FuseSalient
		best := parts[0]
		for _, p := range parts[1:] {
			if math.Abs(p) > math.Abs(best) {
				best = p
			}
		}
		return best
	}
}
