package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mamadbah2/costeo/internal/domain/models"
)

// CostSheet is the per-batch variable cost breakdown of a product at the
// cost-base month's prices.
type CostSheet struct {
	RawMaterial      float64            `json:"raw_material"`
	Spoilage         float64            `json:"spoilage"`
	NetRawMaterial   float64            `json:"net_raw_material"`
	Packaging        float64            `json:"packaging"`
	NetBatchCost     float64            `json:"net_batch_cost"`
	NetBatchWeightKg float64            `json:"net_batch_weight_kg"`
	CostPerKg        float64            `json:"cost_per_kg"`
	Categories       map[string]float64 `json:"categories"`
	Warnings         []string           `json:"warnings,omitempty"`
}

// BuildCostSheet prices a product's formula for one batch. Spoilage is charged
// on raw material only and the cost is spread over the net (post-loss) batch
// weight. A raw-material or category adjustment scales the matching lines.
func BuildCostSheet(p models.Product, adj *models.ScenarioAdjustment) CostSheet {
	sheet := CostSheet{Categories: make(map[string]float64)}

	for _, line := range p.Ingredients {
		cost := line.Cost() * lineMultiplier(line, adj)
		sheet.Categories[line.Category] += cost
		if line.IsPackaging() {
			sheet.Packaging += cost
			continue
		}
		sheet.RawMaterial += cost
	}

	if p.YieldLossPercent > 0 {
		sheet.Spoilage = sheet.RawMaterial * p.YieldLossPercent / 100
	}
	sheet.NetRawMaterial = sheet.RawMaterial + sheet.Spoilage
	sheet.NetBatchCost = sheet.NetRawMaterial + sheet.Packaging
	sheet.NetBatchWeightKg = p.BatchWeightKg * (100 - p.YieldLossPercent) / 100

	switch {
	case sheet.NetBatchWeightKg > 0:
		sheet.CostPerKg = sheet.NetBatchCost / sheet.NetBatchWeightKg
	case p.BatchWeightKg > 0:
		sheet.Warnings = append(sheet.Warnings, fmt.Sprintf("yield is 0%% (yield loss %.2f%%)", p.YieldLossPercent))
	default:
		sheet.Warnings = append(sheet.Warnings, "batch weight is not defined")
	}

	if len(p.Ingredients) == 0 {
		sheet.Warnings = append(sheet.Warnings, "product has no formula")
	}

	return sheet
}

// CategoryNames returns the sheet's categories sorted by name.
func (s CostSheet) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lineMultiplier(line models.IngredientLine, adj *models.ScenarioAdjustment) float64 {
	if adj == nil {
		return 1
	}
	if lineMatches(line, adj) {
		return adj.Multiplier()
	}
	return 1
}

func lineMatches(line models.IngredientLine, adj *models.ScenarioAdjustment) bool {
	switch adj.Type {
	case models.ScenarioRawMaterial:
		return line.RawMaterialID == adj.Target
	case models.ScenarioCategory:
		return strings.EqualFold(strings.TrimSpace(line.Category), strings.TrimSpace(adj.Target))
	}
	return false
}
