package calm

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"calmspot/pkg/overpass"
)

// Noise category identifiers, matching the seeded noise_categories rows.
const (
	CategorySchool         = 1
	CategoryMosque         = 2
	CategoryMainRoad       = 3
	CategoryCarpentry      = 4
	CategoryCafe           = 5
	CategoryStadium        = 6
	CategoryConstruction   = 7
	CategoryShoppingCenter = 8
	CategoryStation        = 9
)

// TagPredicate reports whether an OSM tag set belongs to a category.
type TagPredicate func(tags map[string]string) bool

// Rule classifies OSM elements into a noise category.
type Rule struct {
	CategoryID int
	Category   string
	Match      TagPredicate
}

func tagIn(key string, values ...string) TagPredicate {
	return func(tags map[string]string) bool {
		v, ok := tags[key]
		return ok && slices.Contains(values, v)
	}
}

func allOf(preds ...TagPredicate) TagPredicate {
	return func(tags map[string]string) bool {
		for _, p := range preds {
			if !p(tags) {
				return false
			}
		}
		return true
	}
}

func anyOf(preds ...TagPredicate) TagPredicate {
	return func(tags map[string]string) bool {
		for _, p := range preds {
			if p(tags) {
				return true
			}
		}
		return false
	}
}

// DefaultRules is evaluated in order; the first matching rule wins.
var DefaultRules = []Rule{
	{CategorySchool, "SCHOOL", tagIn("amenity", "school", "college", "university")},
	{CategoryMosque, "MOSQUE", allOf(tagIn("amenity", "place_of_worship"), tagIn("religion", "muslim"))},
	{CategoryMainRoad, "MAIN_ROAD", tagIn("highway", "trunk", "primary")},
	{CategoryCarpentry, "CARPENTRY", anyOf(tagIn("craft", "carpenter"), tagIn("shop", "hardware"))},
	{CategoryCafe, "CAFE", tagIn("amenity", "cafe", "fast_food")},
	{CategoryStadium, "STADIUM", tagIn("leisure", "stadium", "sports_centre", "pitch")},
	{CategoryConstruction, "CONSTRUCTION", anyOf(tagIn("landuse", "construction"), tagIn("construction", "yes"))},
	{CategoryShoppingCenter, "SHOPPING_CENTER", anyOf(tagIn("shop", "mall", "supermarket"), tagIn("amenity", "marketplace"))},
	{CategoryStation, "STATION", anyOf(tagIn("railway", "station"), tagIn("public_transport", "station"))},
}

// Classify returns the first rule matching tags.
func Classify(rules []Rule, tags map[string]string) (Rule, bool) {
	if len(tags) == 0 {
		return Rule{}, false
	}
	for _, r := range rules {
		if r.Match(tags) {
			return r, true
		}
	}
	return Rule{}, false
}

// FeaturesFromElements keeps the elements that have a position and match a rule.
func FeaturesFromElements(rules []Rule, elements []overpass.Element) []NoiseFeature {
	out := make([]NoiseFeature, 0, len(elements))
	for _, el := range elements {
		lat, lon, ok := el.Position()
		if !ok {
			continue
		}
		rule, ok := Classify(rules, el.Tags)
		if !ok {
			continue
		}
		out = append(out, NoiseFeature{
			CategoryID: rule.CategoryID,
			Category:   rule.Category,
			Latitude:   lat,
			Longitude:  lon,
			Name:       displayName(el.Tags),
		})
	}
	return out
}

func displayName(tags map[string]string) string {
	for _, k := range []string{"name", "name:fr", "name:ar"} {
		if v := tags[k]; v != "" {
			return v
		}
	}
	return ""
}

// noiseSelectors restricts the Overpass query to the tags the rules recognise.
var noiseSelectors = []string{
	`node["amenity"~"^(school|college|university)$"]`,
	`way["amenity"~"^(school|college|university)$"]`,
	`node["amenity"="place_of_worship"]["religion"="muslim"]`,
	`way["amenity"="place_of_worship"]["religion"="muslim"]`,
	`way["highway"~"^(trunk|primary)$"]`,
	`node["craft"="carpenter"]`,
	`way["craft"="carpenter"]`,
	`node["shop"="hardware"]`,
	`node["amenity"~"^(cafe|fast_food)$"]`,
	`way["amenity"~"^(cafe|fast_food)$"]`,
	`node["leisure"~"^(stadium|sports_centre|pitch)$"]`,
	`way["leisure"~"^(stadium|sports_centre|pitch)$"]`,
	`way["landuse"="construction"]`,
	`node["construction"="yes"]`,
	`way["construction"="yes"]`,
	`node["shop"~"^(mall|supermarket)$"]`,
	`way["shop"~"^(mall|supermarket)$"]`,
	`node["amenity"="marketplace"]`,
	`way["amenity"="marketplace"]`,
	`node["railway"="station"]`,
	`node["public_transport"="station"]`,
	`way["railway"="station"]`,
}

// BuildQuery returns the Overpass QL query for noise sources within radius
// meters of (lat, lon). Ways are returned with their center.
func BuildQuery(lat, lon, radius float64, timeoutSeconds int) string {
	around := fmt.Sprintf("(around:%s,%s,%s);",
		strconv.FormatFloat(radius, 'f', -1, 64),
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lon, 'f', -1, 64))

	var b strings.Builder
	fmt.Fprintf(&b, "[out:json][timeout:%d];\n(\n", timeoutSeconds)
	for _, sel := range noiseSelectors {
		b.WriteString("  ")
		b.WriteString(sel)
		b.WriteString(around)
		b.WriteByte('\n')
	}
	b.WriteString(");\nout center;")
	return b.String()
}
