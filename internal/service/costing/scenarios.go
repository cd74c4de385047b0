package costing

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/costeo/internal/domain/models"
	"github.com/mamadbah2/costeo/internal/engine"
)

// CreateScenario validates and stores a named scenario.
func (s *Service) CreateScenario(ctx context.Context, sc models.Scenario) (models.Scenario, error) {
	if strings.TrimSpace(sc.Name) == "" {
		return models.Scenario{}, &engine.InvalidInputError{Field: "name", Reason: "is required"}
	}
	if err := validateAdjustment(sc.Adjustment); err != nil {
		return models.Scenario{}, err
	}

	created, err := s.scenarios.Create(ctx, sc)
	if err != nil {
		return models.Scenario{}, err
	}
	s.logger.Info("scenario saved",
		zap.Int64("id", created.ID),
		zap.String("type", string(created.Adjustment.Type)),
		zap.Float64("percent", created.Adjustment.Percent),
	)
	return created, nil
}

// ListScenarios returns the stored scenarios.
func (s *Service) ListScenarios(ctx context.Context) ([]models.Scenario, error) {
	return s.scenarios.List(ctx)
}

// DeleteScenario removes a stored scenario.
func (s *Service) DeleteScenario(ctx context.Context, id int64) error {
	return s.scenarios.Delete(ctx, id)
}

// CompareRequest selects the scenarios to evaluate. Stored scenarios are
// referenced by ID; inline scenarios are evaluated without being saved. When
// both are empty every stored scenario is used.
type CompareRequest struct {
	CostBaseMonth models.Month      `json:"mes_base"`
	TargetMonth   models.Month      `json:"mes_produccion"`
	ScenarioIDs   []int64           `json:"scenario_ids"`
	Scenarios     []models.Scenario `json:"scenarios"`
}

// CompareScenarios evaluates the base allocation and every requested scenario
// against one snapshot. Scenarios run in parallel.
func (s *Service) CompareScenarios(ctx context.Context, req CompareRequest) (models.ScenarioComparison, error) {
	scenarios, err := s.resolveScenarios(ctx, req)
	if err != nil {
		return models.ScenarioComparison{}, err
	}

	snap, err := s.LoadSnapshot(ctx, req.CostBaseMonth, req.TargetMonth)
	if err != nil {
		return models.ScenarioComparison{}, err
	}
	return s.compare(snap.Input(s.opts.LaborFallbackToVolume), scenarios)
}

func (s *Service) compare(base engine.Input, scenarios []models.Scenario) (models.ScenarioComparison, error) {
	base.Scenario = nil
	baseResult, err := engine.Calculate(base)
	if err != nil {
		return models.ScenarioComparison{}, err
	}

	outcomes := make([]models.ScenarioOutcome, len(scenarios))
	var g errgroup.Group
	for i, sc := range scenarios {
		g.Go(func() error {
			outcome, err := engine.EvaluateScenario(base, baseResult, sc)
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.ScenarioComparison{}, err
	}

	s.logger.Info("scenarios compared",
		zap.String("target_month", baseResult.TargetMonth.String()),
		zap.Int("scenarios", len(outcomes)),
		zap.Float64("base_total_cost", baseResult.TotalCost),
	)
	return models.ScenarioComparison{Base: baseResult, Scenarios: outcomes}, nil
}

func (s *Service) resolveScenarios(ctx context.Context, req CompareRequest) ([]models.Scenario, error) {
	if len(req.ScenarioIDs) == 0 && len(req.Scenarios) == 0 {
		return s.scenarios.List(ctx)
	}

	scenarios := make([]models.Scenario, 0, len(req.ScenarioIDs)+len(req.Scenarios))
	for _, id := range req.ScenarioIDs {
		sc, err := s.scenarios.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	for _, sc := range req.Scenarios {
		if err := validateAdjustment(sc.Adjustment); err != nil {
			return nil, err
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// validateAdjustment checks what can be checked without a product catalogue.
func validateAdjustment(adj models.ScenarioAdjustment) error {
	if !adj.Type.Valid() {
		return &engine.InvalidInputError{Field: "adjustment.type", Reason: "is not a known scenario type"}
	}
	if adj.Percent < -100 {
		return &engine.InvalidInputError{Field: "adjustment.percent", Reason: "must be at least -100"}
	}
	if adj.Type.NeedsTarget() && strings.TrimSpace(adj.Target) == "" {
		return &engine.InvalidInputError{Field: "adjustment.target", Reason: "is required for " + string(adj.Type) + " scenarios"}
	}
	return nil
}
