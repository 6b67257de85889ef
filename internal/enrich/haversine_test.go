package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine_OneDegreeLatitude(t *testing.T) {
	assert.InDelta(t, 111195, Haversine(0, 0, 1, 0), 1.0)
}

func TestHaversine_ZeroDistance(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(51.5, -0.1, 51.5, -0.1))
}

func TestHaversine_Symmetric(t *testing.T) {
	a := Haversine(51.5, -0.1, 52.2, 0.12)
	b := Haversine(52.2, 0.12, 51.5, -0.1)
	assert.InDelta(t, a, b, 1e-9)
}

func TestHaversine_KnownDistance(t *testing.T) {
	// London (51.5074, -0.1278) to Paris (48.8566, 2.3522) is roughly 344 km.
	d := Haversine(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, 344000, d, 2000)
}
