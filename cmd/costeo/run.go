package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mamadbah2/costeo/internal/domain/models"
	"github.com/mamadbah2/costeo/internal/engine"
)

// snapshotFile is the on-disk snapshot: one engine input plus optional
// monthly plans for projections and named scenarios for comparisons.
type snapshotFile struct {
	engine.Input `yaml:",inline"`

	Plans     map[models.Month][]models.ProductionPlanEntry `yaml:"plans"`
	Scenarios []models.Scenario                             `yaml:"scenarios"`
}

// loadSnapshot reads a YAML snapshot. JSON files parse as well.
func loadSnapshot(path string) (*snapshotFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap snapshotFile
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return &snap, nil
}

func runCalc(w io.Writer, path, month string, asJSON bool) error {
	snap, err := loadSnapshot(path)
	if err != nil {
		return err
	}
	if month != "" {
		snap.TargetMonth = models.Month(month)
	}

	result, err := engine.Calculate(snap.Input)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(w, result)
	}
	printAllocation(w, result)
	return nil
}

func runProject(w io.Writer, path, from, to string, asJSON bool) error {
	snap, err := loadSnapshot(path)
	if err != nil {
		return err
	}

	plans := snap.Plans
	if len(plans) == 0 && len(snap.Plan) > 0 {
		// A single plan repeats every month.
		plans = make(map[models.Month][]models.ProductionPlanEntry)
		start, err := models.ParseMonth(from)
		if err != nil {
			return err
		}
		end, err := models.ParseMonth(to)
		if err != nil {
			return err
		}
		// Oversized periods are left empty for Project to reject.
		if span := start.MonthsUntil(end) + 1; span <= engine.MaxProjectionMonths {
			for i := 0; i < span; i++ {
				plans[start.Add(i)] = snap.Plan
			}
		}
	}

	projection, err := engine.Project(engine.ProjectionInput{
		CostBaseMonth:         snap.CostBaseMonth,
		StartMonth:            models.Month(from),
		EndMonth:              models.Month(to),
		Indirect:              snap.Indirect,
		InflationRates:        snap.InflationRates,
		Products:              snap.Products,
		Plans:                 plans,
		VariableCosts:         snap.VariableCosts,
		Scenario:              snap.Scenario,
		LaborFallbackToVolume: snap.LaborFallbackToVolume,
	})
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(w, projection)
	}
	printProjection(w, projection)
	return nil
}

func runCompare(w io.Writer, path string, asJSON bool) error {
	snap, err := loadSnapshot(path)
	if err != nil {
		return err
	}
	if len(snap.Scenarios) == 0 {
		return fmt.Errorf("snapshot %s defines no scenarios", path)
	}

	comparison, err := engine.Compare(snap.Input, snap.Scenarios)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(w, comparison)
	}
	printComparison(w, comparison)
	return nil
}

func runRequirements(w io.Writer, path string, asJSON bool) error {
	snap, err := loadSnapshot(path)
	if err != nil {
		return err
	}

	base, err := models.ParseMonth(snap.CostBaseMonth.String())
	if err != nil {
		return err
	}
	target, err := models.ParseMonth(snap.TargetMonth.String())
	if err != nil {
		return err
	}
	factor := engine.CompoundFactor(base, target, snap.InflationRates, nil)

	req, err := engine.Requirements(snap.Products, snap.Plan, factor)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(w, req)
	}
	printRequirements(w, req)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
