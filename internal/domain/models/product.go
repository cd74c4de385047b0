package models

import "strings"

// PackagingCategory is the raw-material category whose lines count as packaging
// rather than raw material (no spoilage applied).
const PackagingCategory = "ENVASES"

// Product is a snapshot of a manufactured product as defined by the backend.
type Product struct {
	ID                string           `yaml:"id" json:"id" bson:"id"`
	Code              string           `yaml:"code" json:"code,omitempty" bson:"code,omitempty"`
	Name              string           `yaml:"name" json:"name,omitempty" bson:"name,omitempty"`
	BatchWeightKg     float64          `yaml:"batch_weight_kg" json:"batch_weight_kg" bson:"batch_weight_kg"`
	LaborMinutesPerKg float64          `yaml:"labor_minutes_per_kg" json:"labor_minutes_per_kg" bson:"labor_minutes_per_kg"`
	YieldLossPercent  float64          `yaml:"yield_loss_percent" json:"yield_loss_percent" bson:"yield_loss_percent"`
	Ingredients       []IngredientLine `yaml:"ingredients" json:"ingredients,omitempty" bson:"ingredients,omitempty"`
}

// IngredientLine is one formula line of a product, expressed per batch.
type IngredientLine struct {
	RawMaterialID string  `yaml:"raw_material_id" json:"raw_material_id" bson:"raw_material_id"`
	Name          string  `yaml:"name" json:"name,omitempty" bson:"name,omitempty"`
	Category      string  `yaml:"category" json:"category,omitempty" bson:"category,omitempty"`
	Unit          string  `yaml:"unit" json:"unit,omitempty" bson:"unit,omitempty"`
	Quantity      float64 `yaml:"quantity" json:"quantity" bson:"quantity"`
	UnitCost      float64 `yaml:"unit_cost" json:"unit_cost" bson:"unit_cost"`
	Packaging     bool    `yaml:"packaging" json:"packaging,omitempty" bson:"packaging,omitempty"`
}

// Cost returns the line cost for one batch.
func (l IngredientLine) Cost() float64 {
	return l.Quantity * l.UnitCost
}

// IsPackaging reports whether the line is packaging material.
func (l IngredientLine) IsPackaging() bool {
	return l.Packaging || strings.EqualFold(strings.TrimSpace(l.Category), PackagingCategory)
}
