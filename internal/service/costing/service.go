package costing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/costeo/internal/domain/models"
	"github.com/mamadbah2/costeo/internal/engine"
	"github.com/mamadbah2/costeo/pkg/clients/backend"
)

var (
	// ErrBackendUnavailable wraps every failure to read from the costing backend.
	ErrBackendUnavailable = errors.New("costing backend unavailable")
	// ErrNoBaseMonth is returned when the backend has no indirect costs recorded.
	ErrNoBaseMonth = errors.New("no cost-base month with indirect costs")
	// ErrPublishingDisabled is returned by Publish when no report sink is configured.
	ErrPublishingDisabled = errors.New("no report publisher configured")
)

const fetchConcurrency = 8

// ScenarioStore persists named scenarios.
type ScenarioStore interface {
	Create(ctx context.Context, sc models.Scenario) (models.Scenario, error)
	List(ctx context.Context) ([]models.Scenario, error)
	Get(ctx context.Context, id int64) (models.Scenario, error)
	Delete(ctx context.Context, id int64) error
}

// ReportStore keeps published allocations.
type ReportStore interface {
	SaveAllocationReport(ctx context.Context, report models.AllocationReport) error
	LatestAllocationReport(ctx context.Context, target models.Month) (models.AllocationReport, error)
}

// SheetWriter is the subset of the Google Sheets repository used for exports.
type SheetWriter interface {
	AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// Options tunes how the service drives the engine.
type Options struct {
	LaborFallbackToVolume bool
	SheetRange            string
}

// Service loads snapshots from the costing backend and runs them through the engine.
type Service struct {
	backend   backend.Client
	scenarios ScenarioStore
	reports   ReportStore
	sheets    SheetWriter
	opts      Options
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a costing service. reports and sheets may be nil.
func NewService(client backend.Client, scenarios ScenarioStore, reports ReportStore, sheets SheetWriter, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend:   client,
		scenarios: scenarios,
		reports:   reports,
		sheets:    sheets,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Calculate runs the engine on a caller-supplied snapshot.
func (s *Service) Calculate(in engine.Input) (models.AllocationResult, error) {
	result, err := engine.Calculate(in)
	if err != nil {
		s.logger.Warn("allocation rejected", zap.Error(err))
		return models.AllocationResult{}, err
	}
	s.logAllocation("allocation calculated", result)
	return result, nil
}

// AllocationRequest selects the months of a backend-sourced allocation. Zero
// months default to the latest base month and the current month.
type AllocationRequest struct {
	CostBaseMonth models.Month               `json:"mes_base"`
	TargetMonth   models.Month               `json:"mes_produccion"`
	Scenario      *models.ScenarioAdjustment `json:"scenario,omitempty"`
}

// MonthlyAllocation allocates the target month's scheduled production.
func (s *Service) MonthlyAllocation(ctx context.Context, req AllocationRequest) (models.AllocationResult, error) {
	snap, err := s.LoadSnapshot(ctx, req.CostBaseMonth, req.TargetMonth)
	if err != nil {
		return models.AllocationResult{}, err
	}

	in := snap.Input(s.opts.LaborFallbackToVolume)
	in.Scenario = req.Scenario

	result, err := engine.Calculate(in)
	if err != nil {
		return models.AllocationResult{}, err
	}
	s.logAllocation("monthly allocation computed", result)
	return result, nil
}

// RequirementsFor totals the raw materials needed by the target month's plan
// at prices inflated from the base month.
func (s *Service) RequirementsFor(ctx context.Context, base, target models.Month) (models.Requirements, error) {
	snap, err := s.LoadSnapshot(ctx, base, target)
	if err != nil {
		return models.Requirements{}, err
	}
	factor := engine.CompoundFactor(snap.CostBaseMonth, snap.TargetMonth, snap.InflationRates, nil)
	return engine.Requirements(snap.Products, snap.Plan, factor)
}

func (s *Service) logAllocation(msg string, result models.AllocationResult) {
	s.logger.Info(msg,
		zap.String("cost_base_month", result.CostBaseMonth.String()),
		zap.String("target_month", result.TargetMonth.String()),
		zap.Int("products", len(result.Products)),
		zap.Float64("inflation_factor", result.InflationFactor),
		zap.Float64("total_cost", result.TotalCost),
		zap.Bool("labor_fallback", result.LaborFallback),
	)
}

func backendErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrBackendUnavailable, op, err)
}
