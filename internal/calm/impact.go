package calm

import (
	"math"
	"sort"
)

const (
	minScore = 0.0
	maxScore = 100.0
)

// Impact returns the score deduction of a noise source at distance meters.
// Weight is treated as a magnitude: the impact equals |weight| at distance 0 and
// half of it at decayRadius. A non-positive decayRadius yields no impact.
func Impact(distance, weight, decayRadius float64) float64 {
	if decayRadius <= 0 {
		return 0
	}
	return math.Abs(weight) * math.Exp(-math.Ln2*distance/decayRadius)
}

// Clamp bounds score to [0,100].
func Clamp(score float64) float64 {
	return math.Max(minScore, math.Min(maxScore, score))
}

// LevelFor maps a score to its label. Bands are closed below:
// [80,100] very calm, [60,80) calm, [40,60) fairly noisy, [0,40) very noisy.
func LevelFor(score float64) string {
	switch {
	case score > maxScore || score < minScore || math.IsNaN(score):
		return LevelUndefined
	case score >= 80:
		return LevelVeryCalm
	case score >= 60:
		return LevelCalm
	case score >= 40:
		return LevelFairlyNoisy
	default:
		return LevelVeryNoisy
	}
}

// Aggregate builds a Result from the summed impact and per-feature details.
// detected is the number of features the locator returned, skipped ones included.
func Aggregate(baseScore, totalImpact float64, details []ImpactDetail, detected int) Result {
	final := round(Clamp(baseScore-totalImpact), 1)

	sorted := make([]ImpactDetail, len(details))
	copy(sorted, details)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Impact < sorted[j].Impact })

	return Result{
		FinalScore:    final,
		Level:         LevelFor(final),
		BaseScore:     baseScore,
		TotalImpact:   round(totalImpact, 1),
		Impacts:       sorted,
		DetectedCount: detected,
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
