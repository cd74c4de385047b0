package costing

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/costeo/internal/domain/models"
	"github.com/mamadbah2/costeo/internal/engine"
)

// ProjectionRequest describes a backend-sourced multi-month projection.
type ProjectionRequest struct {
	CostBaseMonth models.Month               `json:"mes_base"`
	StartMonth    models.Month               `json:"mes_inicio"`
	EndMonth      models.Month               `json:"mes_fin"`
	Scenario      *models.ScenarioAdjustment `json:"scenario,omitempty"`
}

// Project loads the scheduled production of every month in the period and
// costs each month against the same base.
func (s *Service) Project(ctx context.Context, req ProjectionRequest) (models.Projection, error) {
	months, err := projectionMonths(req.StartMonth, req.EndMonth)
	if err != nil {
		return models.Projection{}, err
	}

	snap, err := s.loadBase(ctx, req.CostBaseMonth)
	if err != nil {
		return models.Projection{}, err
	}

	plans := make([][]models.ProductionPlanEntry, len(months))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, month := range months {
		g.Go(func() error {
			plan, err := s.backend.ListProduction(gctx, month)
			if err != nil {
				return backendErr(fmt.Sprintf("list production %s", month), err)
			}
			plans[i] = plan
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.Projection{}, err
	}

	in := engine.ProjectionInput{
		CostBaseMonth:         snap.CostBaseMonth,
		StartMonth:            months[0],
		EndMonth:              months[len(months)-1],
		Indirect:              snap.Indirect,
		InflationRates:        snap.InflationRates,
		Products:              snap.Products,
		Plans:                 make(map[models.Month][]models.ProductionPlanEntry, len(months)),
		Scenario:              req.Scenario,
		LaborFallbackToVolume: s.opts.LaborFallbackToVolume,
	}
	for i, month := range months {
		if len(plans[i]) > 0 {
			in.Plans[month] = plans[i]
		}
	}

	projection, err := engine.Project(in)
	if err != nil {
		return models.Projection{}, err
	}

	s.logger.Info("projection computed",
		zap.String("cost_base_month", projection.CostBaseMonth.String()),
		zap.String("start_month", projection.StartMonth.String()),
		zap.String("end_month", projection.EndMonth.String()),
		zap.Int("planned_months", projection.PlannedMonths),
		zap.Float64("total_cost", projection.TotalCost),
	)
	return projection, nil
}

// projectionMonths validates the period before any backend call is made.
func projectionMonths(start, end models.Month) ([]models.Month, error) {
	from, err := models.ParseMonth(start.String())
	if err != nil {
		return nil, &engine.InvalidInputError{Field: "mes_inicio", Reason: err.Error()}
	}
	to, err := models.ParseMonth(end.String())
	if err != nil {
		return nil, &engine.InvalidInputError{Field: "mes_fin", Reason: err.Error()}
	}
	if to.Before(from) {
		return nil, &engine.InvalidInputError{Field: "mes_fin", Reason: fmt.Sprintf("%s precedes %s", to, from)}
	}

	if span := from.MonthsUntil(to) + 1; span > engine.MaxProjectionMonths {
		return nil, &engine.InvalidInputError{
			Field:  "mes_fin",
			Reason: fmt.Sprintf("period spans %d months, limit is %d", span, engine.MaxProjectionMonths),
		}
	}
	return append([]models.Month{from}, engine.MonthsBetween(from, to)...), nil
}
