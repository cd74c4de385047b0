package costing

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/costeo/internal/domain/models"
	"github.com/mamadbah2/costeo/internal/engine"
)

// Snapshot is a consistent read of the backend for one base and target month.
type Snapshot struct {
	CostBaseMonth  models.Month                 `json:"cost_base_month" yaml:"cost_base_month"`
	TargetMonth    models.Month                 `json:"target_month" yaml:"target_month"`
	Indirect       models.IndirectCostTotals    `json:"indirect" yaml:"indirect"`
	InflationRates []models.InflationRate       `json:"inflation_rates" yaml:"inflation_rates"`
	Products       []models.Product             `json:"products" yaml:"products"`
	Plan           []models.ProductionPlanEntry `json:"plan" yaml:"plan"`
}

// Input converts the snapshot into an engine input.
func (s Snapshot) Input(laborFallback bool) engine.Input {
	return engine.Input{
		CostBaseMonth:         s.CostBaseMonth,
		TargetMonth:           s.TargetMonth,
		Indirect:              s.Indirect,
		InflationRates:        s.InflationRates,
		Products:              s.Products,
		Plan:                  s.Plan,
		LaborFallbackToVolume: laborFallback,
	}
}

// LoadSnapshot reads everything needed to allocate target against base.
// A zero base resolves to the latest month with indirect costs; a zero target
// resolves to the current month.
func (s *Service) LoadSnapshot(ctx context.Context, base, target models.Month) (Snapshot, error) {
	var err error
	if target, err = s.resolveTarget(target); err != nil {
		return Snapshot{}, err
	}

	snap, err := s.loadBase(ctx, base)
	if err != nil {
		return Snapshot{}, err
	}
	snap.TargetMonth = target

	if snap.Plan, err = s.backend.ListProduction(ctx, target); err != nil {
		return Snapshot{}, backendErr("list production", err)
	}

	s.logger.Debug("snapshot loaded",
		zap.String("cost_base_month", snap.CostBaseMonth.String()),
		zap.String("target_month", target.String()),
		zap.Int("products", len(snap.Products)),
		zap.Int("plan_entries", len(snap.Plan)),
	)
	return snap, nil
}

// loadBase fetches the month-independent part of a snapshot concurrently.
func (s *Service) loadBase(ctx context.Context, base models.Month) (Snapshot, error) {
	if base.IsZero() {
		latest, err := s.LatestBaseMonth(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		base = latest
	} else {
		parsed, err := models.ParseMonth(base.String())
		if err != nil {
			return Snapshot{}, &engine.InvalidInputError{Field: "mes_base", Reason: err.Error()}
		}
		base = parsed
	}

	snap := Snapshot{CostBaseMonth: base}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		totals, err := s.backend.GetIndirectSummary(gctx, base)
		if err != nil {
			return backendErr("indirect summary", err)
		}
		snap.Indirect = totals
		return nil
	})
	g.Go(func() error {
		rates, err := s.backend.ListInflation(gctx)
		if err != nil {
			return backendErr("list inflation", err)
		}
		snap.InflationRates = rates
		return nil
	})
	g.Go(func() error {
		products, err := s.loadCatalogue(gctx)
		if err != nil {
			return err
		}
		snap.Products = products
		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// loadCatalogue lists products and attaches each product's formula.
func (s *Service) loadCatalogue(ctx context.Context) ([]models.Product, error) {
	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		return nil, backendErr("list products", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i := range products {
		g.Go(func() error {
			lines, err := s.backend.GetCostSheet(gctx, products[i].ID)
			if err != nil {
				return backendErr(fmt.Sprintf("cost sheet %s", products[i].ID), err)
			}
			products[i].Ingredients = lines
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return products, nil
}

// LatestBaseMonth returns the most recent month with indirect costs.
func (s *Service) LatestBaseMonth(ctx context.Context) (models.Month, error) {
	entries, err := s.backend.ListIndirectCosts(ctx, "")
	if err != nil {
		return "", backendErr("list indirect costs", err)
	}

	var latest models.Month
	for _, e := range entries {
		m, err := models.ParseMonth(e.BaseMonth.String())
		if err != nil {
			s.logger.Debug("skip indirect cost with invalid month", zap.String("id", e.ID), zap.Error(err))
			continue
		}
		if m.After(latest) {
			latest = m
		}
	}
	if latest.IsZero() {
		return "", ErrNoBaseMonth
	}
	return latest, nil
}

func (s *Service) resolveTarget(target models.Month) (models.Month, error) {
	if target.IsZero() {
		return models.MonthOf(s.now()), nil
	}
	parsed, err := models.ParseMonth(target.String())
	if err != nil {
		return "", &engine.InvalidInputError{Field: "mes_produccion", Reason: err.Error()}
	}
	return parsed, nil
}
