package models

import "time"

// ScenarioType selects which what-if adjustment a scenario applies.
type ScenarioType string

const (
	// ScenarioInflation replaces every month's rate with a constant monthly percentage.
	ScenarioInflation ScenarioType = "inflation"
	// ScenarioRawMaterial scales ingredient lines of a single raw material.
	ScenarioRawMaterial ScenarioType = "raw_material"
	// ScenarioCategory scales ingredient lines of a raw-material category.
	ScenarioCategory ScenarioType = "category"
	// ScenarioIndirect scales the three indirect cost categories.
	ScenarioIndirect ScenarioType = "indirect"
	// ScenarioProduction scales every planned quantity before allocation.
	ScenarioProduction ScenarioType = "production"
)

// Valid reports whether t is a known scenario type.
func (t ScenarioType) Valid() bool {
	switch t {
	case ScenarioInflation, ScenarioRawMaterial, ScenarioCategory, ScenarioIndirect, ScenarioProduction:
		return true
	}
	return false
}

// NeedsTarget reports whether the scenario type requires a target key.
func (t ScenarioType) NeedsTarget() bool {
	return t == ScenarioRawMaterial || t == ScenarioCategory
}

// ScenarioAdjustment is a single what-if adjustment. Percent is a change in
// percent (+20 means ×1.20) except for ScenarioInflation, where it is the
// constant monthly inflation rate.
type ScenarioAdjustment struct {
	Type    ScenarioType `yaml:"type" json:"type" bson:"type"`
	Percent float64      `yaml:"percent" json:"percent" bson:"percent"`
	Target  string       `yaml:"target" json:"target,omitempty" bson:"target,omitempty"`
}

// Multiplier returns 1 + Percent/100.
func (a ScenarioAdjustment) Multiplier() float64 {
	return 1 + a.Percent/100
}

// Scenario is a named, stored adjustment.
type Scenario struct {
	ID         int64              `yaml:"id" json:"id"`
	Name       string             `yaml:"name" json:"name"`
	Adjustment ScenarioAdjustment `yaml:"adjustment" json:"adjustment"`
	CreatedAt  time.Time          `yaml:"created_at" json:"created_at"`
}
