package engine

import "github.com/mamadbah2/costeo/internal/domain/models"

// Compare evaluates base without any adjustment and then once per scenario.
// Each scenario replaces base.Scenario; adjustments never stack.
func Compare(base Input, scenarios []models.Scenario) (models.ScenarioComparison, error) {
	base.Scenario = nil
	baseResult, err := Calculate(base)
	if err != nil {
		return models.ScenarioComparison{}, err
	}

	comparison := models.ScenarioComparison{
		Base:      baseResult,
		Scenarios: make([]models.ScenarioOutcome, 0, len(scenarios)),
	}
	for _, sc := range scenarios {
		outcome, err := EvaluateScenario(base, baseResult, sc)
		if err != nil {
			return models.ScenarioComparison{}, err
		}
		comparison.Scenarios = append(comparison.Scenarios, outcome)
	}
	return comparison, nil
}

// EvaluateScenario runs one scenario against base and reports deltas against baseResult.
func EvaluateScenario(base Input, baseResult models.AllocationResult, sc models.Scenario) (models.ScenarioOutcome, error) {
	adj := sc.Adjustment
	base.Scenario = &adj

	result, err := Calculate(base)
	if err != nil {
		return models.ScenarioOutcome{}, err
	}

	delta := result.TotalCost - baseResult.TotalCost
	return models.ScenarioOutcome{
		Name:             sc.Name,
		Adjustment:       adj,
		Result:           result,
		CostDelta:        delta,
		CostDeltaPct:     safeDiv(delta, baseResult.TotalCost) * 100,
		PerKilogramDelta: result.AverageCostPerKilogram - baseResult.AverageCostPerKilogram,
	}, nil
}
