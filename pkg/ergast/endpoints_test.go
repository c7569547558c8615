package ergast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListURL(t *testing.T) {
	assert.Equal(t, "https://api.jolpi.ca/ergast/f1/seasons.json",
		ListURL(DefaultBaseURL, FlatSeasons))
	assert.Equal(t, "https://api.jolpi.ca/ergast/f1/drivers.json",
		ListURL("https://api.jolpi.ca/ergast/f1/", FlatDrivers))
}

func TestSeasonURL(t *testing.T) {
	assert.Equal(t, "https://api.jolpi.ca/ergast/f1/2024.json",
		SeasonURL(DefaultBaseURL, 2024))
}

func TestRoundURL(t *testing.T) {
	tests := []struct {
		kind     DatasetKind
		expected string
	}{
		{DatasetResults, "https://api.jolpi.ca/ergast/f1/2024/3/results.json"},
		{DatasetQualifying, "https://api.jolpi.ca/ergast/f1/2024/3/qualifying.json"},
		{DatasetSprint, "https://api.jolpi.ca/ergast/f1/2024/3/sprint.json"},
		{DatasetDriverStandings, "https://api.jolpi.ca/ergast/f1/2024/3/driverStandings.json"},
		{DatasetConstructorStandings, "https://api.jolpi.ca/ergast/f1/2024/3/constructorStandings.json"},
		{DatasetPitStops, "https://api.jolpi.ca/ergast/f1/2024/3/pitstops.json"},
		{DatasetLaps, "https://api.jolpi.ca/ergast/f1/2024/3/laps.json"},
	}

	for _, test := range tests {
		t.Run(string(test.kind), func(t *testing.T) {
			assert.Equal(t, test.expected, RoundURL(DefaultBaseURL, 2024, "3", test.kind))
		})
	}
}

func TestPagedURL(t *testing.T) {
	assert.Equal(t, "http://x/seasons.json?limit=1000&offset=0",
		PagedURL("http://x/seasons.json", 1000, 0))
	assert.Equal(t, "http://x/seasons.json?foo=1&limit=30&offset=60",
		PagedURL("http://x/seasons.json?foo=1", 30, 60))
}

func TestIsStandings(t *testing.T) {
	assert.True(t, DatasetDriverStandings.IsStandings())
	assert.True(t, DatasetConstructorStandings.IsStandings())
	assert.False(t, DatasetResults.IsStandings())
	assert.False(t, DatasetLaps.IsStandings())
}
