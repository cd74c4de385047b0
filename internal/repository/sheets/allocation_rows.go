package sheets

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mamadbah2/costeo/internal/domain/models"
)

// AllocationHeader is the header row of the cost export.
var AllocationHeader = []interface{}{
	"publicado", "mes_base", "mes_produccion", "producto_id", "producto", "kg",
	"costo_variable_kg", "sp", "gif", "dep", "costo_indirecto_kg", "costo_total_kg",
}

// AllocationRows flattens a result into one row per product, amounts rounded to cents.
func AllocationRows(result models.AllocationResult, publishedAt time.Time) [][]interface{} {
	stamp := publishedAt.Format(time.RFC3339)
	rows := make([][]interface{}, 0, len(result.Products))
	for _, p := range result.Products {
		rows = append(rows, []interface{}{
			stamp,
			result.CostBaseMonth.String(),
			result.TargetMonth.String(),
			p.ProductID,
			p.ProductName,
			round2(p.Kilograms),
			round2(p.VariablePerKilogram),
			round2(p.LaborCost),
			round2(p.VolumeCost),
			round2(p.DepreciationCost),
			round2(p.IndirectPerKilogram),
			round2(p.TotalPerKilogram),
		})
	}
	return rows
}

// ExportAllocation writes the header when the sheet is empty and appends the result rows.
func ExportAllocation(ctx context.Context, repo Repository, sheetRange string, result models.AllocationResult, publishedAt time.Time) error {
	existing, err := repo.ReadRange(ctx, sheetRange)
	if err != nil {
		return err
	}

	rows := AllocationRows(result, publishedAt)
	if len(existing) == 0 {
		rows = append([][]interface{}{AllocationHeader}, rows...)
	}

	if err := repo.AppendRows(ctx, sheetRange, rows); err != nil {
		return fmt.Errorf("export allocation %s: %w", result.TargetMonth, err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
