package stats

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/vkm/heatlamp/internal/attribution"
)

// TokenStat is a token's average attribution across the corpus.
type TokenStat struct {
	Token   string
	Average float64
	Count   int
}

// AverageAttribution aggregates attribution per token across all records.
// Scores for label-0 instances are negated so that the sign consistently
// points towards the positive class.
func AverageAttribution(records []attribution.Record) []TokenStat {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, rec := range records {
		for n := range rec.InputIDs {
			tok := tokenAt(&rec, n)
			score := rec.Attributions[n]
			if rec.Label == 0 {
				score = -score
			}
			sums[tok] += score
			counts[tok]++
		}
	}

	out := make([]TokenStat, 0, len(sums))
	for tok, sum := range sums {
		out = append(out, TokenStat{Token: tok, Average: sum / float64(counts[tok]), Count: counts[tok]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Average != out[j].Average {
			return out[i].Average > out[j].Average
		}
		return out[i].Token < out[j].Token
	})
	return out
}

// Disagreement is the attribution spread for one token position across
// several explainers' record sets.
type Disagreement struct {
	Token    string
	Instance int
	Position int
	// Spread is the max-minus-min attribution across explainers.
	Spread float64
	// Scores maps explainer name to its attribution for this position.
	Scores map[string]float64
}

// ExplainerAgreement ranks token positions by how much the given explainers
// disagree about them. All record sets must cover the same instances in the
// same order.
func ExplainerAgreement(recordSets map[string][]attribution.Record) ([]Disagreement, error) {
	if len(recordSets) < 2 {
		return nil, fmt.Errorf("explainer agreement needs at least 2 record sets, got %d", len(recordSets))
	}

	names := make([]string, 0, len(recordSets))
	for name := range recordSets {
		names = append(names, name)
	}
	sort.Strings(names)

	base := recordSets[names[0]]
	for _, name := range names[1:] {
		if len(recordSets[name]) != len(base) {
			return nil, fmt.Errorf("record sets disagree on corpus size: %s has %d records, %s has %d",
				names[0], len(base), name, len(recordSets[name]))
		}
	}

	var out []Disagreement
	for i := range base {
		for pos := range base[i].InputIDs {
			scores := make(map[string]float64, len(names))
			min, max := 0.0, 0.0
			for n, name := range names {
				rec := recordSets[name][i]
				if pos >= len(rec.Attributions) {
					return nil, fmt.Errorf("explainer %s: instance %d shorter than %s", name, rec.Index, names[0])
				}
				s := rec.Attributions[pos]
				scores[name] = s
				if n == 0 || s < min {
					min = s
				}
				if n == 0 || s > max {
					max = s
				}
			}
			out = append(out, Disagreement{
				Token:    tokenAt(&base[i], pos),
				Instance: base[i].Index,
				Position: pos,
				Spread:   max - min,
				Scores:   scores,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Spread > out[j].Spread })
	return out, nil
}

func tokenAt(rec *attribution.Record, n int) string {
	if n < len(rec.Tokens) {
		return rec.Tokens[n]
	}
	return strconv.Itoa(rec.InputIDs[n])
}
