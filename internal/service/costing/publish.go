package costing

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/costeo/internal/domain/models"
	"github.com/mamadbah2/costeo/internal/repository/sheets"
)

// Publish stores result in MongoDB and appends it to the cost sheet, whichever
// are configured. Both sinks are attempted even if one fails.
func (s *Service) Publish(ctx context.Context, result models.AllocationResult, trigger string) error {
	if s.reports == nil && s.sheets == nil {
		return ErrPublishingDisabled
	}

	publishedAt := s.now().UTC()
	var errs []error

	if s.reports != nil {
		report := models.AllocationReport{
			CostBaseMonth: result.CostBaseMonth,
			TargetMonth:   result.TargetMonth,
			Trigger:       trigger,
			Result:        result,
			CreatedAt:     publishedAt,
		}
		if err := s.reports.SaveAllocationReport(ctx, report); err != nil {
			errs = append(errs, fmt.Errorf("save report: %w", err))
		}
	}

	if s.sheets != nil {
		if err := sheets.ExportAllocation(ctx, s.sheets, s.opts.SheetRange, result, publishedAt); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.Error("allocation publish failed", zap.String("target_month", result.TargetMonth.String()), zap.Error(err))
		return err
	}

	s.logger.Info("allocation published",
		zap.String("target_month", result.TargetMonth.String()),
		zap.String("trigger", trigger),
		zap.Bool("mongodb", s.reports != nil),
		zap.Bool("sheets", s.sheets != nil),
	)
	return nil
}

// PublishNextMonth allocates next month's plan against the latest base month
// and publishes it. It backs the scheduled job.
func (s *Service) PublishNextMonth(ctx context.Context, trigger string) (models.AllocationResult, error) {
	target := models.MonthOf(s.now()).Next()

	result, err := s.MonthlyAllocation(ctx, AllocationRequest{TargetMonth: target})
	if err != nil {
		return models.AllocationResult{}, fmt.Errorf("allocate %s: %w", target, err)
	}
	if err := s.Publish(ctx, result, trigger); err != nil {
		return models.AllocationResult{}, err
	}
	return result, nil
}

// PublishedAllocation returns the most recent report stored for target, which
// defaults to the current month.
func (s *Service) PublishedAllocation(ctx context.Context, target models.Month) (models.AllocationReport, error) {
	if s.reports == nil {
		return models.AllocationReport{}, ErrPublishingDisabled
	}
	month, err := s.resolveTarget(target)
	if err != nil {
		return models.AllocationReport{}, err
	}
	return s.reports.LatestAllocationReport(ctx, month)
}
