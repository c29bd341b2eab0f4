package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceDatasetBounds(t *testing.T) {
	dir := NewDirectory()
	for _, code := range dir.Codes() {
		info, ok := dir.Lookup(code)
		require.True(t, ok)
		assert.Equal(t, code, info.Code)
		assert.NotEmpty(t, info.Name)
		assert.NotEmpty(t, info.Continent)
		assert.NotEmpty(t, info.Currency)
		assert.GreaterOrEqual(t, info.Latitude, -90.0)
		assert.LessOrEqual(t, info.Latitude, 90.0)
		assert.GreaterOrEqual(t, info.Longitude, -180.0)
		assert.LessOrEqual(t, info.Longitude, 180.0)
		assert.True(t, len(info.CallingCode) >= 2 && info.CallingCode[0] == '+',
			"calling code %q for %s should start with '+'", info.CallingCode, code)
	}
}

func TestLookupUnknown(t *testing.T) {
	dir := NewDirectory()
	_, ok := dir.Lookup("XX")
	assert.False(t, ok)
}

func TestLookupLowercase(t *testing.T) {
	dir := NewDirectory()
	info, ok := dir.Lookup("gb")
	require.True(t, ok)
	assert.Equal(t, "United Kingdom", info.Name)
}

func TestResolveCountry(t *testing.T) {
	dir := NewDirectory()

	country, err := dir.ResolveCountry("+447700900123")
	require.NoError(t, err)
	assert.Equal(t, "GB", country)

	country, err = dir.ResolveCountry("+14155552671")
	require.NoError(t, err)
	assert.Equal(t, "US", country)

	country, err = dir.ResolveCountry("+33612345678")
	require.NoError(t, err)
	assert.Equal(t, "FR", country)
}

func TestResolveCountryInvalidFormat(t *testing.T) {
	dir := NewDirectory()
	_, err := dir.ResolveCountry("not-a-number")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidNumberFormat)
}

func TestResolveCountryUnknownRegion(t *testing.T) {
	// A directory with only the US cannot resolve a British number even
	// though it parses.
	dir := NewDirectoryFrom([]CountryInfo{
		{Code: "US", Name: "United States", Continent: "North America", Latitude: 39.8, Longitude: -98.6, CallingCode: "+1", Currency: "USD"},
	})
	_, err := dir.ResolveCountry("+447700900123")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCountry)
}

func TestClosestOrderingAndLimit(t *testing.T) {
	dir := NewDirectory()

	neighbors := dir.Closest("GB", 5)
	require.Len(t, neighbors, 5)
	for i := 1; i < len(neighbors); i++ {
		assert.LessOrEqual(t, neighbors[i-1].DistanceKm, neighbors[i].DistanceKm,
			"neighbors should be sorted ascending by distance")
	}
	// Ireland is the closest country to the UK in the dataset.
	assert.Equal(t, "IE", neighbors[0].Code)

	for _, n := range neighbors {
		assert.NotEqual(t, "GB", n.Code)
	}
}

func TestClosestUnlimited(t *testing.T) {
	dir := NewDirectory()
	neighbors := dir.Closest("US", 0)
	assert.Len(t, neighbors, len(dir.Codes())-1)
}

func TestClosestUnknownCountry(t *testing.T) {
	dir := NewDirectory()
	assert.Empty(t, dir.Closest("XX", 3))
}
