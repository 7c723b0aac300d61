package websockets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNearby(t *testing.T) {
	hazardLat, hazardLon := 35.185566, 33.382275

	testCases := []struct {
		name     string
		userLat  float64
		userLon  float64
		radius   float64
		expected bool
	}{
		{"same point", hazardLat, hazardLon, 0.5, true},
		{"just inside", hazardLat + 0.3, hazardLon, 0.5, true},
		{"on the boundary", hazardLat + 0.5, hazardLon, 0.5, true},
		{"outside", hazardLat + 0.6, hazardLon, 0.5, false},
		{"diagonal outside", hazardLat + 0.4, hazardLon + 0.4, 0.5, false},
		{"unsubscribed default position", 0, 0, 0.5, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected,
				isNearby(tc.userLat, tc.userLon, hazardLat, hazardLon, tc.radius))
		})
	}
}
