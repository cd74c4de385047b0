package engine

import (
	"fmt"
	"slices"

	"github.com/mamadbah2/costeo/internal/domain/models"
)

// MaxProjectionMonths bounds the length of a projection period.
const MaxProjectionMonths = 36

// ProjectionInput describes a multi-month projection. Each month is costed
// against the same base month with its own plan.
type ProjectionInput struct {
	CostBaseMonth  models.Month                                  `yaml:"cost_base_month" json:"cost_base_month"`
	StartMonth     models.Month                                  `yaml:"start_month" json:"start_month"`
	EndMonth       models.Month                                  `yaml:"end_month" json:"end_month"`
	Indirect       models.IndirectCostTotals                     `yaml:"indirect" json:"indirect"`
	InflationRates []models.InflationRate                        `yaml:"inflation_rates" json:"inflation_rates"`
	Products       []models.Product                              `yaml:"products" json:"products"`
	Plans          map[models.Month][]models.ProductionPlanEntry `yaml:"plans" json:"plans"`
	VariableCosts  map[string]float64                            `yaml:"variable_costs" json:"variable_costs,omitempty"`

	Scenario              *models.ScenarioAdjustment `yaml:"scenario" json:"scenario,omitempty"`
	LaborFallbackToVolume bool                       `yaml:"labor_fallback_to_volume" json:"labor_fallback_to_volume"`
}

// Project costs every month from StartMonth to EndMonth inclusive. Months
// without a plan are reported with zero production.
func Project(in ProjectionInput) (models.Projection, error) {
	start, err := parseMonthField("start_month", in.StartMonth)
	if err != nil {
		return models.Projection{}, err
	}
	end, err := parseMonthField("end_month", in.EndMonth)
	if err != nil {
		return models.Projection{}, err
	}
	if end.Before(start) {
		return models.Projection{}, invalidf("end_month", "%s precedes start month %s", end, start)
	}

	if span := start.MonthsUntil(end) + 1; span > MaxProjectionMonths {
		return models.Projection{}, invalidf("end_month", "period spans %d months, limit is %d", span, MaxProjectionMonths)
	}
	months := append([]models.Month{start}, MonthsBetween(start, end)...)

	plans, err := normalisePlans(in.Plans)
	if err != nil {
		return models.Projection{}, err
	}

	projection := models.Projection{
		CostBaseMonth: in.CostBaseMonth,
		StartMonth:    start,
		EndMonth:      end,
		Months:        make([]models.MonthProjection, 0, len(months)),
	}

	for _, month := range months {
		plan := plans[month]
		result, err := Calculate(Input{
			CostBaseMonth:         in.CostBaseMonth,
			TargetMonth:           month,
			Indirect:              in.Indirect,
			InflationRates:        in.InflationRates,
			Products:              in.Products,
			Plan:                  plan,
			VariableCosts:         in.VariableCosts,
			Scenario:              in.Scenario,
			LaborFallbackToVolume: in.LaborFallbackToVolume,
		})
		if err != nil {
			return models.Projection{}, fmt.Errorf("project %s: %w", month, err)
		}

		planned := len(plan) > 0
		if planned {
			projection.PlannedMonths++
		}
		projection.CostBaseMonth = result.CostBaseMonth
		projection.TotalKilograms += result.TotalKilograms
		projection.TotalCost += result.TotalCost
		projection.Months = append(projection.Months, models.MonthProjection{
			Month:   month,
			Planned: planned,
			Result:  result,
		})
	}

	projection.AverageCostPerKilogram = safeDiv(projection.TotalCost, projection.TotalKilograms)
	return projection, nil
}

func normalisePlans(plans map[models.Month][]models.ProductionPlanEntry) (map[models.Month][]models.ProductionPlanEntry, error) {
	keys := make([]models.Month, 0, len(plans))
	for key := range plans {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	out := make(map[models.Month][]models.ProductionPlanEntry, len(plans))
	seen := make(map[models.Month]models.Month, len(plans))
	for _, key := range keys {
		field := fmt.Sprintf("plans[%s]", key)
		month, err := parseMonthField(field, key)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[month]; ok {
			return nil, invalidf(field, "repeats month %s already given as %q", month, prev)
		}
		seen[month] = key
		out[month] = plans[key]
	}
	return out, nil
}
