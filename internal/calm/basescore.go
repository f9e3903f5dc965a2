package calm

import "calmspot/internal/domain"

// DefaultBaseScore applies to place types without a dedicated entry.
const DefaultBaseScore = 70.0

var baseScores = map[int]float64{
	domain.PlaceTypeLibrary:   90,
	domain.PlaceTypeCafe:      70,
	domain.PlaceTypeCoworking: 80,
	domain.PlaceTypeStudyRoom: 85,
}

// BaseScore returns the starting calm score of a place type.
func BaseScore(placeTypeID int) float64 {
	if s, ok := baseScores[placeTypeID]; ok {
		return s
	}
	return DefaultBaseScore
}
