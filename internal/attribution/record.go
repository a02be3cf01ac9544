package attribution

// Record is one explained instance: the tokenized input, the attribution
// score per input position, and the classifier's output distribution.
type Record struct {
	Index        int       `json:"idx"`
	InputIDs     []int     `json:"input_ids"`
	Tokens       []string  `json:"tokens"`
	Attributions []float64 `json:"attributions"`
	Predictions  []float64 `json:"predictions"`
	Label        int       `json:"label"`
}

// PredictedLabel returns the index of the highest-scoring class, or -1 for
// an empty distribution.
func (r *Record) PredictedLabel() int {
	best := -1
	for n, p := range r.Predictions {
		if best < 0 || p > r.Predictions[best] {
			best = n
		}
	}
	return best
}
