package engine

import (
	"fmt"
	"math"

	"github.com/mamadbah2/costeo/internal/domain/models"
)

// Input is a consistent snapshot for one allocation run.
type Input struct {
	CostBaseMonth  models.Month                 `yaml:"cost_base_month" json:"cost_base_month"`
	TargetMonth    models.Month                 `yaml:"target_month" json:"target_month"`
	Indirect       models.IndirectCostTotals    `yaml:"indirect" json:"indirect"`
	InflationRates []models.InflationRate       `yaml:"inflation_rates" json:"inflation_rates"`
	Products       []models.Product             `yaml:"products" json:"products"`
	Plan           []models.ProductionPlanEntry `yaml:"plan" json:"plan"`

	// VariableCosts holds the pre-inflation variable cost per kilogram of
	// products without ingredient lines, keyed by product ID.
	VariableCosts map[string]float64 `yaml:"variable_costs" json:"variable_costs,omitempty"`

	Scenario *models.ScenarioAdjustment `yaml:"scenario" json:"scenario,omitempty"`

	// LaborFallbackToVolume spreads SP by kilograms when the plan has no labor minutes.
	LaborFallbackToVolume bool `yaml:"labor_fallback_to_volume" json:"labor_fallback_to_volume"`
}

// Calculate runs inflate → adjust → allocate → aggregate for one target month.
func Calculate(in Input) (models.AllocationResult, error) {
	snap, err := prepare(in)
	if err != nil {
		return models.AllocationResult{}, err
	}
	result := snap.allocate(snap.plan)
	if err := checkFinite(result); err != nil {
		return models.AllocationResult{}, err
	}
	return result, nil
}

// snapshot is a validated Input with normalised months and an indexed catalogue.
type snapshot struct {
	base     models.Month
	target   models.Month
	indirect models.IndirectCostTotals
	rates    []models.InflationRate
	products map[string]models.Product
	variable map[string]float64
	scenario *models.ScenarioAdjustment
	fallback bool
	plan     []models.ProductionPlanEntry
}

func prepare(in Input) (*snapshot, error) {
	base, err := parseMonthField("cost_base_month", in.CostBaseMonth)
	if err != nil {
		return nil, err
	}
	target, err := parseMonthField("target_month", in.TargetMonth)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{
		base:     base,
		target:   target,
		indirect: in.Indirect,
		variable: in.VariableCosts,
		fallback: in.LaborFallbackToVolume,
	}
	if in.Scenario != nil {
		sc := *in.Scenario
		snap.scenario = &sc
	}

	if err := validateIndirect(in.Indirect); err != nil {
		return nil, err
	}
	if snap.rates, err = normaliseRates(in.InflationRates); err != nil {
		return nil, err
	}
	if snap.products, err = indexProducts(in.Products); err != nil {
		return nil, err
	}
	if err := validateVariableCosts(in.VariableCosts); err != nil {
		return nil, err
	}
	if err := validateScenario(in.Scenario, in.Products); err != nil {
		return nil, err
	}
	if snap.plan, err = mergePlan(in.Plan, snap.products); err != nil {
		return nil, err
	}

	return snap, nil
}

// allocate computes a result for an already validated, merged plan.
func (s *snapshot) allocate(plan []models.ProductionPlanEntry) models.AllocationResult {
	var override *float64
	indirectMultiplier := 1.0
	volumeMultiplier := 1.0
	if s.scenario != nil {
		switch s.scenario.Type {
		case models.ScenarioInflation:
			pct := s.scenario.Percent
			override = &pct
		case models.ScenarioIndirect:
			indirectMultiplier = s.scenario.Multiplier()
		case models.ScenarioProduction:
			volumeMultiplier = s.scenario.Multiplier()
		}
	}

	factor := CompoundFactor(s.base, s.target, s.rates, override)
	inflated := s.indirect.Scale(factor * indirectMultiplier)

	result := models.AllocationResult{
		CostBaseMonth:        s.base,
		TargetMonth:          s.target,
		Scenario:             s.scenario,
		InflationFactor:      factor,
		AccumulatedInflation: AccumulatedPercent(factor),
		BaseIndirect:         s.indirect,
		InflatedIndirect:     inflated,
		Products:             make([]models.ProductAllocation, 0, len(plan)),
	}

	var totalKg, totalMinutes float64
	for _, entry := range plan {
		product := s.products[entry.ProductID]
		kg := entry.Kilograms * volumeMultiplier
		alloc := models.ProductAllocation{
			ProductID:    product.ID,
			ProductName:  product.Name,
			Kilograms:    kg,
			Batches:      safeDiv(kg, product.BatchWeightKg),
			LaborMinutes: kg * product.LaborMinutesPerKg,
		}
		if kg > 0 {
			totalKg += kg
			totalMinutes += alloc.LaborMinutes
		}
		result.Products = append(result.Products, alloc)
	}

	result.LaborFallback = s.fallback && totalMinutes == 0 && totalKg > 0
	for i := range result.Products {
		alloc := &result.Products[i]
		product := s.products[alloc.ProductID]

		if alloc.Kilograms > 0 {
			alloc.VolumeShare = safeDiv(alloc.Kilograms, totalKg)
			alloc.LaborShare = safeDiv(alloc.LaborMinutes, totalMinutes)
			if result.LaborFallback {
				alloc.LaborShare = alloc.VolumeShare
			}
		}

		alloc.LaborCost = inflated.Labor * alloc.LaborShare
		alloc.VolumeCost = inflated.Volume * alloc.VolumeShare
		alloc.DepreciationCost = inflated.Depreciation * alloc.VolumeShare
		alloc.IndirectTotal = alloc.LaborCost + alloc.VolumeCost + alloc.DepreciationCost
		alloc.IndirectPerKilogram = safeDiv(alloc.IndirectTotal, alloc.Kilograms)

		alloc.BaseVariablePerKilogram, alloc.Warnings = s.baseVariableCost(product)
		alloc.VariablePerKilogram = alloc.BaseVariablePerKilogram * factor
		alloc.VariableTotal = alloc.VariablePerKilogram * alloc.Kilograms
		alloc.TotalPerKilogram = alloc.VariablePerKilogram + alloc.IndirectPerKilogram
		alloc.TotalCost = alloc.VariableTotal + alloc.IndirectTotal
	}

	Aggregate(&result)
	return result
}

// baseVariableCost returns the pre-inflation variable cost per kilogram. Products
// with a formula are priced from their cost sheet (scenario line adjustments
// included); others use the supplied figure.
func (s *snapshot) baseVariableCost(p models.Product) (float64, []string) {
	if len(p.Ingredients) > 0 {
		sheet := BuildCostSheet(p, s.scenario)
		return sheet.CostPerKg, sheet.Warnings
	}
	if cost, ok := s.variable[p.ID]; ok {
		return cost, nil
	}
	return 0, []string{"no variable cost supplied"}
}

// Aggregate fills the period totals of result from its product rows.
func Aggregate(result *models.AllocationResult) {
	result.TotalKilograms = 0
	result.TotalLaborMinutes = 0
	result.TotalVariableCost = 0
	result.TotalIndirectCost = 0

	for _, p := range result.Products {
		result.TotalKilograms += p.Kilograms
		result.TotalLaborMinutes += p.LaborMinutes
		result.TotalVariableCost += p.VariableTotal
		result.TotalIndirectCost += p.IndirectTotal
	}

	result.TotalCost = result.TotalVariableCost + result.TotalIndirectCost
	result.AverageCostPerKilogram = safeDiv(result.TotalCost, result.TotalKilograms)
}

type figure struct {
	name  string
	value float64
}

// checkFinite rejects results whose figures overflowed float64.
func checkFinite(r models.AllocationResult) error {
	figures := []figure{
		{"inflation_factor", r.InflationFactor},
		{"inflated_indirect", r.InflatedIndirect.Total()},
		{"total_kg", r.TotalKilograms},
		{"total_labor_minutes", r.TotalLaborMinutes},
		{"total_variable_cost", r.TotalVariableCost},
		{"total_indirect_cost", r.TotalIndirectCost},
		{"total_cost", r.TotalCost},
	}
	for _, p := range r.Products {
		figures = append(figures,
			figure{fmt.Sprintf("products[%s].total_per_kg", p.ProductID), p.TotalPerKilogram},
			figure{fmt.Sprintf("products[%s].total_cost", p.ProductID), p.TotalCost},
		)
	}

	for _, f := range figures {
		if !finite(f.value) {
			return invalidf("result", "%s overflows (%v)", f.name, f.value)
		}
	}
	return nil
}

// safeDiv returns 0 instead of NaN or ±Inf.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	q := num / den
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}
