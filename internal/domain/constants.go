package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Place type identifiers as seeded in place_types.
const (
	PlaceTypeLibrary   = 1
	PlaceTypeCafe      = 2
	PlaceTypeCoworking = 3
	PlaceTypeStudyRoom = 4
)

// PlaceTypeLabels maps place type codes to display labels.
var PlaceTypeLabels = map[string]string{
	"LIBRARY":    "Library",
	"CAFE":       "Café",
	"COWORKING":  "Coworking",
	"STUDY_ROOM": "Study room",
}

const (
	MinRating = 1
	MaxRating = 5
)
