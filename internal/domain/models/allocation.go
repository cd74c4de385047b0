package models

// ProductAllocation is the engine output for one product.
type ProductAllocation struct {
	ProductID    string  `json:"product_id" bson:"product_id"`
	ProductName  string  `json:"product_name,omitempty" bson:"product_name,omitempty"`
	Kilograms    float64 `json:"kilograms" bson:"kilograms"`
	Batches      float64 `json:"batches" bson:"batches"`
	LaborMinutes float64 `json:"labor_minutes" bson:"labor_minutes"`
	LaborShare   float64 `json:"labor_share" bson:"labor_share"`
	VolumeShare  float64 `json:"volume_share" bson:"volume_share"`

	LaborCost           float64 `json:"labor_cost" bson:"labor_cost"`
	VolumeCost          float64 `json:"volume_cost" bson:"volume_cost"`
	DepreciationCost    float64 `json:"depreciation_cost" bson:"depreciation_cost"`
	IndirectTotal       float64 `json:"indirect_total" bson:"indirect_total"`
	IndirectPerKilogram float64 `json:"indirect_per_kg" bson:"indirect_per_kg"`

	BaseVariablePerKilogram float64 `json:"base_variable_per_kg" bson:"base_variable_per_kg"`
	VariablePerKilogram     float64 `json:"variable_per_kg" bson:"variable_per_kg"`
	VariableTotal           float64 `json:"variable_total" bson:"variable_total"`
	TotalPerKilogram        float64 `json:"total_per_kg" bson:"total_per_kg"`
	TotalCost               float64 `json:"total_cost" bson:"total_cost"`

	Warnings []string `json:"warnings,omitempty" bson:"warnings,omitempty"`
}

// AllocationResult is the engine output for one target month.
type AllocationResult struct {
	CostBaseMonth Month               `json:"cost_base_month" bson:"cost_base_month"`
	TargetMonth   Month               `json:"target_month" bson:"target_month"`
	Scenario      *ScenarioAdjustment `json:"scenario,omitempty" bson:"scenario,omitempty"`

	InflationFactor      float64            `json:"inflation_factor" bson:"inflation_factor"`
	AccumulatedInflation float64            `json:"accumulated_inflation_pct" bson:"accumulated_inflation_pct"`
	BaseIndirect         IndirectCostTotals `json:"base_indirect" bson:"base_indirect"`
	InflatedIndirect     IndirectCostTotals `json:"inflated_indirect" bson:"inflated_indirect"`
	LaborFallback        bool               `json:"labor_fallback,omitempty" bson:"labor_fallback,omitempty"`

	Products []ProductAllocation `json:"products" bson:"products"`

	TotalKilograms         float64 `json:"total_kg" bson:"total_kg"`
	TotalLaborMinutes      float64 `json:"total_labor_minutes" bson:"total_labor_minutes"`
	TotalVariableCost      float64 `json:"total_variable_cost" bson:"total_variable_cost"`
	TotalIndirectCost      float64 `json:"total_indirect_cost" bson:"total_indirect_cost"`
	TotalCost              float64 `json:"total_cost" bson:"total_cost"`
	AverageCostPerKilogram float64 `json:"average_cost_per_kg" bson:"average_cost_per_kg"`
}

// ScenarioOutcome is the result of one scenario alongside its deltas against the base.
type ScenarioOutcome struct {
	Name             string             `json:"name"`
	Adjustment       ScenarioAdjustment `json:"adjustment"`
	Result           AllocationResult   `json:"result"`
	CostDelta        float64            `json:"cost_delta"`
	CostDeltaPct     float64            `json:"cost_delta_pct"`
	PerKilogramDelta float64            `json:"per_kg_delta"`
}

// ScenarioComparison groups the base result with every evaluated scenario.
type ScenarioComparison struct {
	Base      AllocationResult  `json:"base"`
	Scenarios []ScenarioOutcome `json:"scenarios"`
}

// MonthProjection is the allocation for one month of a projection.
type MonthProjection struct {
	Month   Month            `json:"month" bson:"month"`
	Planned bool             `json:"planned" bson:"planned"`
	Result  AllocationResult `json:"result" bson:"result"`
}

// Projection is a consolidated multi-month cost projection.
type Projection struct {
	CostBaseMonth          Month             `json:"cost_base_month" bson:"cost_base_month"`
	StartMonth             Month             `json:"start_month" bson:"start_month"`
	EndMonth               Month             `json:"end_month" bson:"end_month"`
	Months                 []MonthProjection `json:"months" bson:"months"`
	PlannedMonths          int               `json:"planned_months" bson:"planned_months"`
	TotalKilograms         float64           `json:"total_kg" bson:"total_kg"`
	TotalCost              float64           `json:"total_cost" bson:"total_cost"`
	AverageCostPerKilogram float64           `json:"average_cost_per_kg" bson:"average_cost_per_kg"`
}

// MaterialRequirement is the aggregated need of one raw material for a plan.
type MaterialRequirement struct {
	RawMaterialID string  `json:"raw_material_id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Unit          string  `json:"unit"`
	Quantity      float64 `json:"quantity"`
	Cost          float64 `json:"cost"`
}

// CategoryRequirement is the aggregated need of one raw-material category.
type CategoryRequirement struct {
	Category string  `json:"category"`
	Quantity float64 `json:"quantity"`
	Cost     float64 `json:"cost"`
}

// Requirements lists material needs for a plan, most expensive first.
type Requirements struct {
	Materials  []MaterialRequirement `json:"materials"`
	Categories []CategoryRequirement `json:"categories"`
	TotalCost  float64               `json:"total_cost"`
}
