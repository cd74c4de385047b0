package models

// ProductionPlanEntry is a planned quantity of one product.
type ProductionPlanEntry struct {
	ProductID string  `yaml:"product_id" json:"product_id" bson:"product_id"`
	Kilograms float64 `yaml:"kilograms" json:"kilograms" bson:"kilograms"`
}
