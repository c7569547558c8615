package scraper

import (
	"context"
	"fmt"
	"strings"

	"f1scraper/pkg/ergast"
	"f1scraper/pkg/table"
)

// Dataset maps an artifact name to the endpoint that produces it.
// Exactly one of Flat and Kind is set.
type Dataset struct {
	Name string
	Flat ergast.FlatKind
	Kind ergast.DatasetKind
}

// Datasets lists every artifact of a full run, in pipeline order: the
// flat lists first, then the per-year round-scoped datasets.
var Datasets = []Dataset{
	{Name: "Seasons", Flat: ergast.FlatSeasons},
	{Name: "Drivers", Flat: ergast.FlatDrivers},
	{Name: "Constructors", Flat: ergast.FlatConstructors},
	{Name: "Circuits", Flat: ergast.FlatCircuits},
	{Name: "Results", Kind: ergast.DatasetResults},
	{Name: "Qualifying", Kind: ergast.DatasetQualifying},
	{Name: "Sprint", Kind: ergast.DatasetSprint},
	{Name: "DriverStandings", Kind: ergast.DatasetDriverStandings},
	{Name: "ConstructorStandings", Kind: ergast.DatasetConstructorStandings},
	{Name: "PitStops", Kind: ergast.DatasetPitStops},
	{Name: "Laps", Kind: ergast.DatasetLaps},
}

// DatasetNames returns the artifact names in pipeline order.
func DatasetNames() []string {
	names := make([]string, len(Datasets))
	for i, ds := range Datasets {
		names[i] = ds.Name
	}
	return names
}

// selectDatasets resolves a user-supplied subset, keeping pipeline
// order. An empty selection means the full pipeline.
func selectDatasets(only []string) ([]Dataset, error) {
	if len(only) == 0 {
		return Datasets, nil
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[strings.ToLower(strings.TrimSpace(name))] = true
	}

	var selected []Dataset
	for _, ds := range Datasets {
		if wanted[strings.ToLower(ds.Name)] {
			selected = append(selected, ds)
			delete(wanted, strings.ToLower(ds.Name))
		}
	}

	if len(wanted) > 0 {
		unknown := make([]string, 0, len(wanted))
		for name := range wanted {
			unknown = append(unknown, name)
		}
		return nil, fmt.Errorf("unknown dataset(s) %s; valid names: %s",
			strings.Join(unknown, ", "), strings.Join(DatasetNames(), ", "))
	}

	return selected, nil
}

// Run executes the pipeline: each selected dataset is fetched in full
// and written as a CSV artifact. Fetch failures shrink the artifact
// set; only an unwritable artifact or cancellation aborts the run.
func (s *Scraper) Run(ctx context.Context, only []string) error {
	selected, err := selectDatasets(only)
	if err != nil {
		return err
	}

	s.logger.InfoWithFields("starting pipeline", map[string]interface{}{
		"datasets":   len(selected),
		"start_year": s.cfg.Years.Start,
		"end_year":   s.cfg.Years.End,
		"output_dir": s.store.OutputDir(),
	})

	for _, ds := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.logger.InfoWithFields("fetching dataset", map[string]interface{}{
			"dataset": ds.Name,
		})

		var t *table.Table
		if ds.Flat != "" {
			t = s.fetchList(ctx, ds.Flat)
		} else {
			t = s.FetchAllYears(ctx, ds.Kind, s.cfg.Years.Start, s.cfg.Years.End)
		}

		if err := s.store.SaveTable(t, ds.Name); err != nil {
			return fmt.Errorf("failed to save %s: %w", ds.Name, err)
		}
	}

	s.logger.InfoWithFields("pipeline completed", map[string]interface{}{
		"output_dir": s.store.OutputDir(),
	})

	return nil
}
