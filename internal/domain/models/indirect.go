package models

// Indirect cost distribution types as labelled by the backend.
const (
	IndirectLabor        = "SP"
	IndirectVolume       = "GIF"
	IndirectDepreciation = "DEP"
)

// IndirectCostTotals holds a base month's indirect cost totals per distribution type.
type IndirectCostTotals struct {
	Labor        float64 `yaml:"labor" json:"labor" bson:"labor"`
	Volume       float64 `yaml:"volume" json:"volume" bson:"volume"`
	Depreciation float64 `yaml:"depreciation" json:"depreciation" bson:"depreciation"`
}

// Total returns the sum of the three categories.
func (t IndirectCostTotals) Total() float64 {
	return t.Labor + t.Volume + t.Depreciation
}

// Scale multiplies every category by factor.
func (t IndirectCostTotals) Scale(factor float64) IndirectCostTotals {
	return IndirectCostTotals{
		Labor:        t.Labor * factor,
		Volume:       t.Volume * factor,
		Depreciation: t.Depreciation * factor,
	}
}

// IndirectCostEntry is a single indirect cost account recorded for a base month.
type IndirectCostEntry struct {
	ID           string  `json:"id"`
	Account      string  `json:"account"`
	Amount       float64 `json:"amount"`
	Distribution string  `json:"distribution"`
	BaseMonth    Month   `json:"base_month"`
}

// SumIndirectCosts groups entries of one base month by distribution type.
// Entries with an unknown distribution type are ignored.
func SumIndirectCosts(entries []IndirectCostEntry, base Month) IndirectCostTotals {
	var totals IndirectCostTotals
	for _, e := range entries {
		if e.BaseMonth != base {
			continue
		}
		switch e.Distribution {
		case IndirectLabor:
			totals.Labor += e.Amount
		case IndirectVolume:
			totals.Volume += e.Amount
		case IndirectDepreciation:
			totals.Depreciation += e.Amount
		}
	}
	return totals
}
