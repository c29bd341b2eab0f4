package routing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceIdentity(t *testing.T) {
	dir := NewDirectory()
	for _, code := range dir.Codes() {
		assert.Equal(t, 0.0, dir.Distance(code, code), "distance(%s, %s) should be 0", code, code)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	dir := NewDirectory()
	codes := dir.Codes()
	for _, a := range codes {
		for _, b := range codes {
			assert.InDelta(t, dir.Distance(a, b), dir.Distance(b, a), 1e-6,
				"distance(%s, %s) should equal distance(%s, %s)", a, b, b, a)
		}
	}
}

func TestDistanceUSToUS(t *testing.T) {
	dir := NewDirectory()
	assert.Equal(t, 0.0, dir.Distance("US", "US"))
}

func TestDistanceUSToCanada(t *testing.T) {
	dir := NewDirectory()
	d := dir.Distance("US", "CA")
	require.False(t, math.IsInf(d, 1))
	assert.Greater(t, d, 0.0)
	assert.Less(t, d, 5000.0, "neighboring North American countries should be under 5000 km apart")
}

func TestDistanceUnknownCountry(t *testing.T) {
	dir := NewDirectory()
	assert.True(t, math.IsInf(dir.Distance("US", "XX"), 1))
	assert.True(t, math.IsInf(dir.Distance("XX", "US"), 1))
	assert.True(t, math.IsInf(dir.Distance("XX", "YY"), 1))
}

func TestDistanceCaseInsensitive(t *testing.T) {
	dir := NewDirectory()
	assert.Equal(t, dir.Distance("US", "GB"), dir.Distance("us", "gb"))
}
