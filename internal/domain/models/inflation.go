package models

// InflationRate is the inflation percentage recorded for one month (2.5 means 2.5%).
type InflationRate struct {
	Month   Month   `yaml:"month" json:"month" bson:"month"`
	Percent float64 `yaml:"percent" json:"percent" bson:"percent"`
}
