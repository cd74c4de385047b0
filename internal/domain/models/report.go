package models

import "time"

// AllocationReport is a published allocation stored in MongoDB.
type AllocationReport struct {
	CostBaseMonth Month            `bson:"cost_base_month" json:"cost_base_month"`
	TargetMonth   Month            `bson:"target_month" json:"target_month"`
	Trigger       string           `bson:"trigger" json:"trigger"`
	Result        AllocationResult `bson:"result" json:"result"`
	CreatedAt     time.Time        `bson:"created_at" json:"created_at"`
}
