package utils_test

import (
	"testing"

	"baequest_server/utils"

	"github.com/stretchr/testify/assert"
)

// Downtown DC and two reference points: one a few blocks away, one out past
// Gaithersburg.
const (
	dcLat = 38.9072
	dcLng = -77.0369

	nearbyLat = 38.9100
	nearbyLng = -77.0395

	farLat = 39.1
	farLng = -77.0
)

func TestCalculateDistanceZeroForSamePoint(t *testing.T) {
	assert.InDelta(t, 0, utils.CalculateDistance(dcLat, dcLng, dcLat, dcLng), 1e-9)
}

func TestCalculateDistanceNearby(t *testing.T) {
	d := utils.CalculateDistance(dcLat, dcLng, nearbyLat, nearbyLng)
	assert.InDelta(t, 0.38, d, 0.05)
}

func TestCalculateDistanceFar(t *testing.T) {
	d := utils.CalculateDistance(dcLat, dcLng, farLat, farLng)
	assert.InDelta(t, 21.6, d, 1.0)
}

func TestCalculateDistanceSymmetric(t *testing.T) {
	there := utils.CalculateDistance(dcLat, dcLng, farLat, farLng)
	back := utils.CalculateDistance(farLat, farLng, dcLat, dcLng)
	assert.InDelta(t, there, back, 1e-9)
}

func TestKilometersToMiles(t *testing.T) {
	assert.InDelta(t, 1.0, utils.KilometersToMiles(1.60934), 1e-6)
	assert.InDelta(t, 0, utils.KilometersToMiles(0), 1e-9)
}
