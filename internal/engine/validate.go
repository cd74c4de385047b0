package engine

import (
	"fmt"
	"math"

	"github.com/mamadbah2/costeo/internal/domain/models"
)

func parseMonthField(field string, m models.Month) (models.Month, error) {
	if m.IsZero() {
		return "", invalidf(field, "is required")
	}
	parsed, err := models.ParseMonth(string(m))
	if err != nil {
		return "", invalidf(field, "%v", err)
	}
	return parsed, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validateIndirect(t models.IndirectCostTotals) error {
	values := []struct {
		field string
		value float64
	}{
		{"indirect.labor", t.Labor},
		{"indirect.volume", t.Volume},
		{"indirect.depreciation", t.Depreciation},
	}
	for _, v := range values {
		if !finite(v.value) || v.value < 0 {
			return invalidf(v.field, "must be a non-negative amount, got %v", v.value)
		}
	}
	return nil
}

// normaliseRates returns a copy of rates with canonical months, preserving order.
func normaliseRates(rates []models.InflationRate) ([]models.InflationRate, error) {
	out := make([]models.InflationRate, 0, len(rates))
	for i, r := range rates {
		field := fmt.Sprintf("inflation_rates[%d]", i)
		month, err := parseMonthField(field+".month", r.Month)
		if err != nil {
			return nil, err
		}
		if !finite(r.Percent) || r.Percent < -100 {
			return nil, invalidf(field+".percent", "must be a finite percentage of at least -100, got %v", r.Percent)
		}
		out = append(out, models.InflationRate{Month: month, Percent: r.Percent})
	}
	return out, nil
}

func indexProducts(products []models.Product) (map[string]models.Product, error) {
	index := make(map[string]models.Product, len(products))
	for i, p := range products {
		field := fmt.Sprintf("products[%d]", i)
		if p.ID == "" {
			return nil, invalidf(field+".id", "is required")
		}
		if _, dup := index[p.ID]; dup {
			return nil, invalidf(field+".id", "duplicates product %q", p.ID)
		}
		if !finite(p.BatchWeightKg) || p.BatchWeightKg <= 0 {
			return nil, invalidf(field+".batch_weight_kg", "must be greater than zero, got %v", p.BatchWeightKg)
		}
		if !finite(p.LaborMinutesPerKg) || p.LaborMinutesPerKg < 0 {
			return nil, invalidf(field+".labor_minutes_per_kg", "must not be negative, got %v", p.LaborMinutesPerKg)
		}
		if !finite(p.YieldLossPercent) || p.YieldLossPercent < 0 || p.YieldLossPercent > 100 {
			return nil, invalidf(field+".yield_loss_percent", "must be within 0..100, got %v", p.YieldLossPercent)
		}
		for j, line := range p.Ingredients {
			lineField := fmt.Sprintf("%s.ingredients[%d]", field, j)
			if !finite(line.Quantity) || line.Quantity < 0 {
				return nil, invalidf(lineField+".quantity", "must not be negative, got %v", line.Quantity)
			}
			if !finite(line.UnitCost) || line.UnitCost < 0 {
				return nil, invalidf(lineField+".unit_cost", "must not be negative, got %v", line.UnitCost)
			}
		}
		index[p.ID] = p
	}
	return index, nil
}

func validateVariableCosts(costs map[string]float64) error {
	for id, cost := range costs {
		if !finite(cost) || cost < 0 {
			return invalidf(fmt.Sprintf("variable_costs[%s]", id), "must not be negative, got %v", cost)
		}
	}
	return nil
}

func validateScenario(sc *models.ScenarioAdjustment, products []models.Product) error {
	if sc == nil {
		return nil
	}
	if !sc.Type.Valid() {
		return invalidf("scenario.type", "%q is not a known scenario type", sc.Type)
	}
	if !finite(sc.Percent) || sc.Percent < -100 {
		return invalidf("scenario.percent", "must be a finite percentage of at least -100, got %v", sc.Percent)
	}
	if !sc.Type.NeedsTarget() {
		return nil
	}
	if sc.Target == "" {
		return invalidf("scenario.target", "is required for %s scenarios", sc.Type)
	}

	for _, p := range products {
		for _, line := range p.Ingredients {
			if lineMatches(line, sc) {
				return nil
			}
		}
	}

	kind := "raw material"
	if sc.Type == models.ScenarioCategory {
		kind = "category"
	}
	return &ReferenceError{Kind: kind, ID: sc.Target}
}

// mergePlan resolves every entry against the catalogue and sums repeated
// products, keeping the order of first appearance.
func mergePlan(plan []models.ProductionPlanEntry, products map[string]models.Product) ([]models.ProductionPlanEntry, error) {
	merged := make([]models.ProductionPlanEntry, 0, len(plan))
	position := make(map[string]int, len(plan))

	for i, entry := range plan {
		if _, ok := products[entry.ProductID]; !ok {
			return nil, &ReferenceError{Kind: "product", ID: entry.ProductID}
		}
		if !finite(entry.Kilograms) || entry.Kilograms < 0 {
			return nil, invalidf(fmt.Sprintf("plan[%d].kilograms", i), "must not be negative, got %v", entry.Kilograms)
		}
		if idx, seen := position[entry.ProductID]; seen {
			merged[idx].Kilograms += entry.Kilograms
			continue
		}
		position[entry.ProductID] = len(merged)
		merged = append(merged, entry)
	}
	return merged, nil
}
