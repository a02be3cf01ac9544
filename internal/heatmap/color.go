package heatmap

import (
	"fmt"
	"math"
)

// Color maps an attribution in [-1, 1] to a background hex color. Positive
// attributions blend white towards red, negative towards blue. Gamma
// correction shapes the intensity curve: gamma > 1 lifts faint scores into
// visibility.
func Color(att, gamma float64) string {
	if gamma <= 0 {
		gamma = 1
	}
	intensity := math.Pow(math.Min(math.Abs(att), 1), 1/gamma)
	fade := uint8(math.Round(255 * (1 - intensity)))

	if att >= 0 {
		return fmt.Sprintf("#ff%02x%02x", fade, fade)
	}
	return fmt.Sprintf("#%02x%02xff", fade, fade)
}
