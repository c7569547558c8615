package ergast

import (
	errs "f1scraper/pkg/errors"
)

// Item is one raw entry from an API list. Row columns are open-ended
// across seasons, so items stay as decoded maps and are flattened
// generically downstream.
type Item = map[string]any

// Envelope is the top-level response wrapper.
type Envelope struct {
	MRData *MRData `json:"MRData"`
}

// MRData carries exactly one resource table per response, plus
// pagination bookkeeping.
type MRData struct {
	Series string `json:"series"`
	Limit  string `json:"limit"`
	Offset string `json:"offset"`
	Total  string `json:"total"`

	SeasonTable      *SeasonTable      `json:"SeasonTable,omitempty"`
	DriverTable      *DriverTable      `json:"DriverTable,omitempty"`
	ConstructorTable *ConstructorTable `json:"ConstructorTable,omitempty"`
	CircuitTable     *CircuitTable     `json:"CircuitTable,omitempty"`
	RaceTable        *RaceTable        `json:"RaceTable,omitempty"`
	StandingsTable   *StandingsTable   `json:"StandingsTable,omitempty"`
}

// SeasonTable wraps the seasons list.
type SeasonTable struct {
	Seasons []Item `json:"Seasons"`
}

// DriverTable wraps the drivers list.
type DriverTable struct {
	Drivers []Item `json:"Drivers"`
}

// ConstructorTable wraps the constructors list.
type ConstructorTable struct {
	Constructors []Item `json:"Constructors"`
}

// CircuitTable wraps the circuits list.
type CircuitTable struct {
	Circuits []Item `json:"Circuits"`
}

// RaceTable wraps the race list for calendar and round-scoped responses.
type RaceTable struct {
	Season string `json:"season"`
	Round  string `json:"round"`
	Races  []Race `json:"Races"`
}

// Race is one race event. Calendar responses carry only the metadata;
// round-scoped responses additionally carry one of the nested result
// lists.
type Race struct {
	Season   string  `json:"season"`
	Round    string  `json:"round"`
	URL      string  `json:"url"`
	RaceName string  `json:"raceName"`
	Circuit  Circuit `json:"Circuit"`
	Date     string  `json:"date"`
	Time     string  `json:"time,omitempty"`

	Results           []Item `json:"Results,omitempty"`
	QualifyingResults []Item `json:"QualifyingResults,omitempty"`
	SprintResults     []Item `json:"SprintResults,omitempty"`
	PitStops          []Item `json:"PitStops,omitempty"`
	Laps              []Item `json:"Laps,omitempty"`
}

// Circuit is a race venue.
type Circuit struct {
	CircuitID   string   `json:"circuitId"`
	URL         string   `json:"url"`
	CircuitName string   `json:"circuitName"`
	Location    Location `json:"Location"`
}

// Location is a circuit's geographic location.
type Location struct {
	Lat      string `json:"lat"`
	Long     string `json:"long"`
	Locality string `json:"locality"`
	Country  string `json:"country"`
}

// StandingsTable wraps the standings lists.
type StandingsTable struct {
	Season         string          `json:"season"`
	StandingsLists []StandingsList `json:"StandingsLists"`
}

// StandingsList is the cumulative standings snapshot after one round.
type StandingsList struct {
	Season string `json:"season"`
	Round  string `json:"round"`

	DriverStandings      []Item `json:"DriverStandings,omitempty"`
	ConstructorStandings []Item `json:"ConstructorStandings,omitempty"`
}

// DatasetItems returns every entry under the recognized nested result
// keys, in their fixed order. Round-scoped responses carry one of the
// lists in practice; absent keys contribute nothing.
func (r *Race) DatasetItems() []Item {
	var items []Item
	items = append(items, r.Results...)
	items = append(items, r.QualifyingResults...)
	items = append(items, r.SprintResults...)
	items = append(items, r.PitStops...)
	items = append(items, r.Laps...)
	return items
}

// Entries returns the standings entries matching the kind-specific key.
func (s *StandingsList) Entries(kind DatasetKind) []Item {
	if kind == DatasetConstructorStandings {
		return s.ConstructorStandings
	}
	return s.DriverStandings
}

// mrData unwraps the envelope, failing explicitly when the top-level
// key is absent rather than defaulting to empty.
func (e *Envelope) mrData() (*MRData, error) {
	if e == nil || e.MRData == nil {
		return nil, errs.Schema("unexpected schema: missing MRData")
	}
	return e.MRData, nil
}

// FlatItems extracts the item list of a flat-list response. A missing
// resource table is a schema error; an empty item list is data.
func (e *Envelope) FlatItems(kind FlatKind) ([]Item, error) {
	mr, err := e.mrData()
	if err != nil {
		return nil, err
	}
	switch kind {
	case FlatSeasons:
		if mr.SeasonTable == nil {
			return nil, errs.Schema("unexpected schema: missing MRData.SeasonTable")
		}
		return mr.SeasonTable.Seasons, nil
	case FlatDrivers:
		if mr.DriverTable == nil {
			return nil, errs.Schema("unexpected schema: missing MRData.DriverTable")
		}
		return mr.DriverTable.Drivers, nil
	case FlatConstructors:
		if mr.ConstructorTable == nil {
			return nil, errs.Schema("unexpected schema: missing MRData.ConstructorTable")
		}
		return mr.ConstructorTable.Constructors, nil
	case FlatCircuits:
		if mr.CircuitTable == nil {
			return nil, errs.Schema("unexpected schema: missing MRData.CircuitTable")
		}
		return mr.CircuitTable.Circuits, nil
	default:
		return nil, errs.Schema("unknown flat endpoint %q", string(kind))
	}
}

// Races extracts the race list of a calendar or round-scoped response.
func (e *Envelope) Races() ([]Race, error) {
	mr, err := e.mrData()
	if err != nil {
		return nil, err
	}
	if mr.RaceTable == nil {
		return nil, errs.Schema("unexpected schema: missing MRData.RaceTable")
	}
	return mr.RaceTable.Races, nil
}

// StandingsLists extracts the standings lists of a standings response.
func (e *Envelope) StandingsLists() ([]StandingsList, error) {
	mr, err := e.mrData()
	if err != nil {
		return nil, err
	}
	if mr.StandingsTable == nil {
		return nil, errs.Schema("unexpected schema: missing MRData.StandingsTable")
	}
	return mr.StandingsTable.StandingsLists, nil
}
