// Package calm computes a place's calm score from nearby noise sources.
//
// A score starts from a base value chosen by place type and loses points for
// every noise source found around the place. Each source contributes
// weight × exp(-ln2 × distance / decayRadius), so its impact halves every
// decayRadius meters. The result is clamped to [0,100] and labelled.
package calm

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

// CategoryConfig holds the scoring parameters of a noise category.
type CategoryConfig struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"`
	DecayRadius float64 `json:"decay_radius"`
}

// NoiseFeature is a noise source detected around a place.
type NoiseFeature struct {
	CategoryID int     `json:"category_id"`
	Category   string  `json:"category"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Name       string  `json:"name,omitempty"`
}

// ImpactDetail is the contribution of one feature to a score.
type ImpactDetail struct {
	Category    string  `json:"category"`
	Name        string  `json:"name,omitempty"`
	Distance    float64 `json:"distance"`
	Impact      float64 `json:"impact"`
	Weight      float64 `json:"weight"`
	DecayRadius float64 `json:"decay_radius"`
}

// Result is the outcome of a calm score calculation.
type Result struct {
	FinalScore    float64        `json:"final_score"`
	Level         string         `json:"level"`
	BaseScore     float64        `json:"base_score"`
	TotalImpact   float64        `json:"total_impact"`
	Impacts       []ImpactDetail `json:"impacts"`
	DetectedCount int            `json:"detected_count"`
}

// Request describes one calculation. A nil Features slice asks the calculator
// to locate noise sources itself; a non-nil slice, even empty, is used as is.
type Request struct {
	Latitude  float64
	Longitude float64
	BaseScore float64
	Features  []NoiseFeature
	Radius    float64 // meters, defaults to the calculator's radius
}

const (
	LevelVeryCalm    = "Very calm"
	LevelCalm        = "Calm"
	LevelFairlyNoisy = "Fairly noisy"
	LevelVeryNoisy   = "Very noisy"
	LevelUndefined   = "undefined"
)

// Levels lists the defined levels from calmest to noisiest.
var Levels = []string{LevelVeryCalm, LevelCalm, LevelFairlyNoisy, LevelVeryNoisy}
