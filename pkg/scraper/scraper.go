package scraper

import (
	"context"
	"fmt"
	"strconv"

	"f1scraper/pkg/config"
	"f1scraper/pkg/ergast"
	"f1scraper/pkg/logger"
	"f1scraper/pkg/ratelimit"
	"f1scraper/pkg/storage"
	"f1scraper/pkg/table"
)

// Scraper drives the sequential fetch-paginate-flatten-save pipeline.
// Every fetch failure degrades to "this unit contributed zero rows";
// the only fatal errors are an unwritable output directory and context
// cancellation.
type Scraper struct {
	client   *ergast.Client
	store    *storage.Manager
	throttle ratelimit.Limiter
	cfg      *config.Config
	logger   logger.Logger
}

// New creates a Scraper. The output directory is created here, before
// any network traffic.
func New(cfg *config.Config) (*Scraper, error) {
	log := logger.GetLogger()

	store, err := storage.NewManager(cfg.Output.Directory, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage manager: %w", err)
	}

	var throttle ratelimit.Limiter = ratelimit.Nop{}
	if cfg.API.RequestDelay > 0 {
		throttle = ratelimit.NewFixedInterval(cfg.API.RequestDelay)
	}

	return &Scraper{
		client:   ergast.NewClient(cfg, log),
		store:    store,
		throttle: throttle,
		cfg:      cfg,
		logger:   log,
	}, nil
}

// FetchPaginated accumulates every page of a flat-list endpoint and
// returns the flattened table. Pagination stops when a fetch fails,
// a page comes back empty, or a page is shorter than the batch size.
func (s *Scraper) FetchPaginated(ctx context.Context, url string, kind ergast.FlatKind) *table.Table {
	t := table.New()
	batch := s.cfg.API.BatchSize

	for offset := 0; ; offset += batch {
		paged := ergast.PagedURL(url, batch, offset)

		env, err := s.client.Fetch(ctx, paged)
		if err != nil {
			s.logger.WarnWithFields("page fetch failed, stopping pagination", map[string]interface{}{
				"endpoint": string(kind),
				"offset":   offset,
				"error":    err.Error(),
			})
			break
		}

		items, err := env.FlatItems(kind)
		if err != nil {
			s.logger.WarnWithFields("unexpected response schema, stopping pagination", map[string]interface{}{
				"endpoint": string(kind),
				"offset":   offset,
				"error":    err.Error(),
			})
			break
		}

		if len(items) == 0 {
			break
		}

		for _, item := range items {
			t.Append(table.Normalize(item))
		}

		// A short page is the last page.
		if len(items) < batch {
			break
		}
	}

	return table.Flatten(t)
}

// FetchAllSeasons fetches the full seasons list.
func (s *Scraper) FetchAllSeasons(ctx context.Context) *table.Table {
	return s.fetchList(ctx, ergast.FlatSeasons)
}

// FetchAllDrivers fetches the full drivers list.
func (s *Scraper) FetchAllDrivers(ctx context.Context) *table.Table {
	return s.fetchList(ctx, ergast.FlatDrivers)
}

// FetchAllConstructors fetches the full constructors list.
func (s *Scraper) FetchAllConstructors(ctx context.Context) *table.Table {
	return s.fetchList(ctx, ergast.FlatConstructors)
}

// FetchAllCircuits fetches the full circuits list.
func (s *Scraper) FetchAllCircuits(ctx context.Context) *table.Table {
	return s.fetchList(ctx, ergast.FlatCircuits)
}

func (s *Scraper) fetchList(ctx context.Context, kind ergast.FlatKind) *table.Table {
	return s.FetchPaginated(ctx, ergast.ListURL(s.client.BaseURL(), kind), kind)
}

// RacesForSeason fetches a season's race calendar in API order. Any
// failure yields an empty calendar.
func (s *Scraper) RacesForSeason(ctx context.Context, year int) []ergast.Race {
	env, err := s.client.Fetch(ctx, ergast.SeasonURL(s.client.BaseURL(), year))
	if err != nil {
		s.logger.WarnWithFields("failed to fetch season calendar", map[string]interface{}{
			"season": year,
			"error":  err.Error(),
		})
		return nil
	}

	races, err := env.Races()
	if err != nil {
		s.logger.WarnWithFields("unexpected calendar schema", map[string]interface{}{
			"season": year,
			"error":  err.Error(),
		})
		return nil
	}

	return races
}

// FetchRaceDataset fetches one round-scoped dataset for every round of
// a season. A failed round is logged and skipped, never aborting the
// season.
func (s *Scraper) FetchRaceDataset(ctx context.Context, year int, kind ergast.DatasetKind) *table.Table {
	t := table.New()

	for _, race := range s.RacesForSeason(ctx, year) {
		url := ergast.RoundURL(s.client.BaseURL(), year, race.Round, kind)

		env, err := s.client.Fetch(ctx, url)
		if err != nil {
			s.skipRound(kind, year, race.Round, err)
			continue
		}

		races, err := env.Races()
		if err != nil {
			s.skipRound(kind, year, race.Round, err)
			continue
		}

		for _, r := range races {
			for _, item := range r.DatasetItems() {
				row := table.Normalize(item)
				setRaceMeta(row, year, race, r.Circuit)
				t.Append(row)
			}
		}

		s.pause(ctx)
	}

	return table.Flatten(t)
}

// FetchStandings fetches the cumulative driver or constructor standings
// after every round of a season. Standings rows carry only season and
// round metadata, unlike the race-dataset rows.
func (s *Scraper) FetchStandings(ctx context.Context, year int, kind ergast.DatasetKind) *table.Table {
	t := table.New()

	for _, race := range s.RacesForSeason(ctx, year) {
		url := ergast.RoundURL(s.client.BaseURL(), year, race.Round, kind)

		env, err := s.client.Fetch(ctx, url)
		if err != nil {
			s.skipRound(kind, year, race.Round, err)
			continue
		}

		lists, err := env.StandingsLists()
		if err != nil {
			s.skipRound(kind, year, race.Round, err)
			continue
		}

		for _, sl := range lists {
			for _, item := range sl.Entries(kind) {
				row := table.Normalize(item)
				row.Set("season", strconv.Itoa(year))
				row.Set("round", race.Round)
				t.Append(row)
			}
		}

		s.pause(ctx)
	}

	return table.Flatten(t)
}

// FetchAllYears fetches one dataset kind across the year range,
// concatenating the non-empty per-year tables.
func (s *Scraper) FetchAllYears(ctx context.Context, kind ergast.DatasetKind, startYear, endYear int) *table.Table {
	out := table.New()

	for year := startYear; year <= endYear; year++ {
		s.logger.InfoWithFields("fetching season", map[string]interface{}{
			"dataset": string(kind),
			"season":  year,
		})

		var t *table.Table
		if kind.IsStandings() {
			t = s.FetchStandings(ctx, year, kind)
		} else {
			t = s.FetchRaceDataset(ctx, year, kind)
		}

		if t.IsEmpty() {
			continue
		}
		out.Extend(t)
	}

	return out
}

func (s *Scraper) skipRound(kind ergast.DatasetKind, year int, round string, err error) {
	s.logger.WarnWithFields("skipping round", map[string]interface{}{
		"dataset": string(kind),
		"season":  year,
		"round":   round,
		"error":   err.Error(),
	})
}

// pause applies the politeness delay between round-scoped requests.
func (s *Scraper) pause(ctx context.Context) {
	_ = s.throttle.Wait(ctx)
}

// setRaceMeta attaches the fixed race metadata columns to a dataset
// row, in their documented order. The calendar race supplies round,
// name and date; the round-scoped response supplies the circuit.
func setRaceMeta(row *table.Row, year int, race ergast.Race, circuit ergast.Circuit) {
	row.Set("season", strconv.Itoa(year))
	row.Set("round", race.Round)
	row.Set("raceName", race.RaceName)
	row.Set("date", race.Date)
	row.Set("circuit_id", circuit.CircuitID)
	row.Set("circuit_name", circuit.CircuitName)
	row.Set("circuit_location", circuit.Location.Locality)
	row.Set("circuit_country", circuit.Location.Country)
}
