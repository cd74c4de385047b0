package engine

import (
	"testing"

	"github.com/mamadbah2/costeo/internal/domain/models"
)

func sausageProduct() models.Product {
	return models.Product{
		ID:               "P-7",
		Name:             "Salchicha Viena",
		BatchWeightKg:    100,
		YieldLossPercent: 10,
		Ingredients: []models.IngredientLine{
			{RawMaterialID: "MP-1", Name: "Carne de cerdo", Category: "CARNES", Unit: "kg", Quantity: 80, UnitCost: 10},
			{RawMaterialID: "MP-2", Name: "Sal nitral", Category: "CONDIMENTOS", Unit: "kg", Quantity: 10, UnitCost: 10},
			{RawMaterialID: "MP-3", Name: "Tripa", Category: "envases", Unit: "und", Quantity: 10, UnitCost: 5},
		},
	}
}

func TestBuildCostSheet_SpoilageSkipsPackaging(t *testing.T) {
	sheet := BuildCostSheet(sausageProduct(), nil)

	nearlyEqual(t, "raw material", sheet.RawMaterial, 900)
	nearlyEqual(t, "spoilage", sheet.Spoilage, 90)
	nearlyEqual(t, "net raw material", sheet.NetRawMaterial, 990)
	nearlyEqual(t, "packaging", sheet.Packaging, 50)
	nearlyEqual(t, "net batch cost", sheet.NetBatchCost, 1040)
	nearlyEqual(t, "net batch weight", sheet.NetBatchWeightKg, 90)
	nearlyEqual(t, "cost per kg", sheet.CostPerKg, 1040.0/90)

	if len(sheet.Warnings) != 0 {
		t.Fatalf("warnings = %v, want none", sheet.Warnings)
	}
}

func TestBuildCostSheet_CategoryTotals(t *testing.T) {
	sheet := BuildCostSheet(sausageProduct(), nil)

	names := sheet.CategoryNames()
	want := []string{"CARNES", "CONDIMENTOS", "envases"}
	if len(names) != len(want) {
		t.Fatalf("categories = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("categories[%d] = %s, want %s", i, names[i], want[i])
		}
	}
	nearlyEqual(t, "CARNES", sheet.Categories["CARNES"], 800)
}

func TestBuildCostSheet_RawMaterialAdjustment(t *testing.T) {
	adj := &models.ScenarioAdjustment{Type: models.ScenarioRawMaterial, Percent: 50, Target: "MP-1"}

	sheet := BuildCostSheet(sausageProduct(), adj)

	nearlyEqual(t, "raw material", sheet.RawMaterial, 1300)
	nearlyEqual(t, "packaging", sheet.Packaging, 50)
}

func TestBuildCostSheet_CategoryAdjustmentIgnoresCase(t *testing.T) {
	adj := &models.ScenarioAdjustment{Type: models.ScenarioCategory, Percent: -20, Target: " Envases "}

	sheet := BuildCostSheet(sausageProduct(), adj)

	nearlyEqual(t, "packaging", sheet.Packaging, 40)
	nearlyEqual(t, "raw material", sheet.RawMaterial, 900)
}

func TestBuildCostSheet_TotalYieldLoss(t *testing.T) {
	p := sausageProduct()
	p.YieldLossPercent = 100

	sheet := BuildCostSheet(p, nil)

	nearlyEqual(t, "cost per kg", sheet.CostPerKg, 0)
	if len(sheet.Warnings) != 1 {
		t.Fatalf("warnings = %v, want one yield warning", sheet.Warnings)
	}
}

func TestBuildCostSheet_NoFormula(t *testing.T) {
	sheet := BuildCostSheet(models.Product{ID: "X", BatchWeightKg: 10}, nil)

	nearlyEqual(t, "cost per kg", sheet.CostPerKg, 0)
	if len(sheet.Warnings) != 1 || sheet.Warnings[0] != "product has no formula" {
		t.Fatalf("warnings = %v", sheet.Warnings)
	}
}

func TestCalculate_RawMaterialScenarioOnlyTouchesVariableCost(t *testing.T) {
	in := Input{
		CostBaseMonth: "2025-01",
		TargetMonth:   "2025-01",
		Indirect:      models.IndirectCostTotals{Volume: 900},
		Products:      []models.Product{sausageProduct()},
		Plan:          []models.ProductionPlanEntry{{ProductID: "P-7", Kilograms: 90}},
	}

	base, err := Calculate(in)
	if err != nil {
		t.Fatalf("Calculate base: %v", err)
	}

	in.Scenario = &models.ScenarioAdjustment{Type: models.ScenarioRawMaterial, Percent: 50, Target: "MP-1"}
	adjusted, err := Calculate(in)
	if err != nil {
		t.Fatalf("Calculate adjusted: %v", err)
	}

	nearlyEqual(t, "indirect unchanged", adjusted.TotalIndirectCost, base.TotalIndirectCost)
	// 400 more raw material plus 10% spoilage, over 90 net kg, times 90 kg.
	nearlyEqual(t, "variable delta", adjusted.TotalVariableCost-base.TotalVariableCost, 440)
}
