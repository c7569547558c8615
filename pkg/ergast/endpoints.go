package ergast

import (
	"fmt"
	"strings"
)

// DefaultBaseURL is the public Ergast-compatible mirror serving F1
// historical data.
const DefaultBaseURL = "https://api.jolpi.ca/ergast/f1"

// FlatKind identifies a paginated flat-list endpoint.
type FlatKind string

const (
	FlatSeasons      FlatKind = "seasons"
	FlatDrivers      FlatKind = "drivers"
	FlatConstructors FlatKind = "constructors"
	FlatCircuits     FlatKind = "circuits"
)

// DatasetKind identifies a round-scoped dataset endpoint.
type DatasetKind string

const (
	DatasetResults              DatasetKind = "results"
	DatasetQualifying           DatasetKind = "qualifying"
	DatasetSprint               DatasetKind = "sprint"
	DatasetDriverStandings      DatasetKind = "driverStandings"
	DatasetConstructorStandings DatasetKind = "constructorStandings"
	DatasetPitStops             DatasetKind = "pitstops"
	DatasetLaps                 DatasetKind = "laps"
)

// IsStandings reports whether the kind uses the standings response
// shape (a list of standings-lists per round) instead of the race
// results shape.
func (k DatasetKind) IsStandings() bool {
	return k == DatasetDriverStandings || k == DatasetConstructorStandings
}

// ListURL builds the URL for a flat-list endpoint, e.g. /seasons.json.
func ListURL(base string, kind FlatKind) string {
	return fmt.Sprintf("%s/%s.json", strings.TrimSuffix(base, "/"), kind)
}

// SeasonURL builds the URL for a season's race calendar.
func SeasonURL(base string, year int) string {
	return fmt.Sprintf("%s/%d.json", strings.TrimSuffix(base, "/"), year)
}

// RoundURL builds the URL for one round-scoped dataset.
func RoundURL(base string, year int, round string, kind DatasetKind) string {
	return fmt.Sprintf("%s/%d/%s/%s.json", strings.TrimSuffix(base, "/"), year, round, kind)
}

// PagedURL appends limit/offset pagination parameters, using "&" when
// the URL already carries a query string.
func PagedURL(url string, limit, offset int) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%slimit=%d&offset=%d", url, sep, limit, offset)
}
