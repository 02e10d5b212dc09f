// Package confidence contains the shared scoring arithmetic used by the
// extraction engines. Scores are always clamped to [0,1] at the boundary so
// downstream consumers never see out-of-range values.
package confidence

// Clamp bounds a score to the [0,1] interval.
func Clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// HeaderScore combines a stage's base confidence with spatial proximity and
// field completeness multipliers. Values shorter than two characters are
// penalized because they are almost always OCR fragments.
func HeaderScore(base float64, value string, proximity, completeness float64) float64 {
	score := base * proximity * completeness
	if len(value) < 2 {
		score *= 0.5
	}
	return Clamp(score)
}

// TableScore derives a row confidence from its cell confidences, the
// fraction of cells passing type validation, and a row quality multiplier.
func TableScore(cellConfidences []float64, passRate, rowQuality float64) float64 {
	if len(cellConfidences) == 0 {
		return 0
	}
	return Clamp(Mean(cellConfidences) * passRate * rowQuality)
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Range returns max minus min of values, or 0 for an empty slice.
func Range(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return hi - lo
}
