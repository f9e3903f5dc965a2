package calm

import (
	"strings"
	"testing"

	"calmspot/pkg/overpass"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		tags map[string]string
		want string
	}{
		{"school", map[string]string{"amenity": "school"}, "SCHOOL"},
		{"university", map[string]string{"amenity": "university"}, "SCHOOL"},
		{"mosque", map[string]string{"amenity": "place_of_worship", "religion": "muslim"}, "MOSQUE"},
		{"primary road", map[string]string{"highway": "primary"}, "MAIN_ROAD"},
		{"trunk road", map[string]string{"highway": "trunk"}, "MAIN_ROAD"},
		{"carpenter", map[string]string{"craft": "carpenter"}, "CARPENTRY"},
		{"hardware shop", map[string]string{"shop": "hardware"}, "CARPENTRY"},
		{"fast food", map[string]string{"amenity": "fast_food"}, "CAFE"},
		{"pitch", map[string]string{"leisure": "pitch"}, "STADIUM"},
		{"construction landuse", map[string]string{"landuse": "construction"}, "CONSTRUCTION"},
		{"construction flag", map[string]string{"construction": "yes"}, "CONSTRUCTION"},
		{"supermarket", map[string]string{"shop": "supermarket"}, "SHOPPING_CENTER"},
		{"marketplace", map[string]string{"amenity": "marketplace"}, "SHOPPING_CENTER"},
		{"railway station", map[string]string{"railway": "station"}, "STATION"},
		{"bus station", map[string]string{"public_transport": "station"}, "STATION"},
		{"first rule wins", map[string]string{"amenity": "school", "highway": "primary"}, "SCHOOL"},
		{"road before cafe", map[string]string{"amenity": "cafe", "highway": "trunk"}, "MAIN_ROAD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := Classify(DefaultRules, tt.tags)
			require.True(t, ok)
			assert.Equal(t, tt.want, rule.Category)
		})
	}
}

func TestClassify_NoMatch(t *testing.T) {
	for _, tags := range []map[string]string{
		nil,
		{},
		{"amenity": "place_of_worship", "religion": "christian"},
		{"highway": "residential"},
		{"amenity": "library"},
	} {
		_, ok := Classify(DefaultRules, tags)
		assert.False(t, ok, "%v", tags)
	}
}

func TestDefaultRules_IDsMatchOrder(t *testing.T) {
	for i, r := range DefaultRules {
		assert.Equal(t, i+1, r.CategoryID, r.Category)
	}
}

func ptr(v float64) *float64 { return &v }

func TestFeaturesFromElements(t *testing.T) {
	elements := []overpass.Element{
		{Type: "node", ID: 1, Lat: ptr(34.02), Lon: ptr(-6.84), Tags: map[string]string{"amenity": "cafe", "name": "Café Maure"}},
		{Type: "way", ID: 2, Center: &overpass.LatLon{Lat: 34.03, Lon: -6.83}, Tags: map[string]string{"highway": "primary", "name:fr": "Avenue Mohammed V"}},
		{Type: "way", ID: 3, Tags: map[string]string{"highway": "trunk"}},
		{Type: "node", ID: 4, Lat: ptr(34.01), Lon: ptr(-6.85), Tags: map[string]string{"amenity": "bench"}},
		{Type: "node", ID: 5, Lat: ptr(34.00), Lon: ptr(-6.86), Tags: map[string]string{"railway": "station", "name:ar": "محطة"}},
	}

	got := FeaturesFromElements(DefaultRules, elements)

	require.Len(t, got, 3)
	assert.Equal(t, NoiseFeature{CategoryID: CategoryCafe, Category: "CAFE", Latitude: 34.02, Longitude: -6.84, Name: "Café Maure"}, got[0])
	assert.Equal(t, NoiseFeature{CategoryID: CategoryMainRoad, Category: "MAIN_ROAD", Latitude: 34.03, Longitude: -6.83, Name: "Avenue Mohammed V"}, got[1])
	assert.Equal(t, "محطة", got[2].Name)
	assert.Equal(t, CategoryStation, got[2].CategoryID)
}

func TestBuildQuery(t *testing.T) {
	q := BuildQuery(34.02, -6.84, 200, 25)

	assert.True(t, strings.HasPrefix(q, "[out:json][timeout:25];"))
	assert.True(t, strings.HasSuffix(q, "out center;"))
	assert.Contains(t, q, `way["highway"~"^(trunk|primary)$"](around:200,34.02,-6.84);`)
	assert.Contains(t, q, `node["amenity"="place_of_worship"]["religion"="muslim"](around:200,34.02,-6.84);`)
	assert.Equal(t, len(noiseSelectors), strings.Count(q, "(around:"))
}
