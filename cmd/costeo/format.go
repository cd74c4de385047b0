package main

import (
	"fmt"
	"io"

	"github.com/mamadbah2/costeo/internal/domain/models"
)

func printAllocation(w io.Writer, r models.AllocationResult) {
	fmt.Fprintf(w, "COST ALLOCATION %s (base %s)\n", r.TargetMonth, r.CostBaseMonth)
	fmt.Fprintf(w, "  Inflation factor: %.6f (%+.2f%%)\n", r.InflationFactor, r.AccumulatedInflation)
	fmt.Fprintf(w, "  Indirect: SP %s  GIF %s  DEP %s\n",
		money(r.InflatedIndirect.Labor), money(r.InflatedIndirect.Volume), money(r.InflatedIndirect.Depreciation))
	if r.Scenario != nil {
		fmt.Fprintf(w, "  Scenario: %s %+.2f%% %s\n", r.Scenario.Type, r.Scenario.Percent, r.Scenario.Target)
	}
	if r.LaborFallback {
		fmt.Fprintln(w, "  No labor minutes planned: SP spread by kilograms")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %-12s %-24s %10s %8s %8s %12s %12s %12s %16s\n",
		"PRODUCT", "NAME", "KG", "SP%", "KG%", "VAR/KG", "IND/KG", "TOTAL/KG", "TOTAL")
	for _, p := range r.Products {
		fmt.Fprintf(w, "  %-12s %-24s %10.2f %7.2f%% %7.2f%% %12s %12s %12s %16s\n",
			p.ProductID, truncate(p.ProductName, 24), p.Kilograms, p.LaborShare*100, p.VolumeShare*100,
			money(p.VariablePerKilogram), money(p.IndirectPerKilogram), money(p.TotalPerKilogram), money(p.TotalCost))
		for _, warning := range p.Warnings {
			fmt.Fprintf(w, "    ! %s\n", warning)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Total kg:        %14.2f\n", r.TotalKilograms)
	fmt.Fprintf(w, "  Variable cost:   %14s\n", money(r.TotalVariableCost))
	fmt.Fprintf(w, "  Indirect cost:   %14s\n", money(r.TotalIndirectCost))
	fmt.Fprintf(w, "  Total cost:      %14s\n", money(r.TotalCost))
	fmt.Fprintf(w, "  Average per kg:  %14s\n", money(r.AverageCostPerKilogram))
}

func printProjection(w io.Writer, p models.Projection) {
	fmt.Fprintf(w, "PROJECTION %s to %s (base %s)\n\n", p.StartMonth, p.EndMonth, p.CostBaseMonth)
	fmt.Fprintf(w, "  %-8s %10s %14s %16s %12s\n", "MONTH", "FACTOR", "KG", "TOTAL", "AVG/KG")
	for _, m := range p.Months {
		if !m.Planned {
			fmt.Fprintf(w, "  %-8s %10.6f %14s %16s %12s\n", m.Month, m.Result.InflationFactor, "-", "-", "-")
			continue
		}
		fmt.Fprintf(w, "  %-8s %10.6f %14.2f %16s %12s\n",
			m.Month, m.Result.InflationFactor, m.Result.TotalKilograms, money(m.Result.TotalCost), money(m.Result.AverageCostPerKilogram))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Planned months:  %d of %d\n", p.PlannedMonths, len(p.Months))
	fmt.Fprintf(w, "  Total kg:        %.2f\n", p.TotalKilograms)
	fmt.Fprintf(w, "  Total cost:      %s\n", money(p.TotalCost))
	fmt.Fprintf(w, "  Average per kg:  %s\n", money(p.AverageCostPerKilogram))
}

func printComparison(w io.Writer, c models.ScenarioComparison) {
	fmt.Fprintf(w, "SCENARIOS %s (base %s)\n\n", c.Base.TargetMonth, c.Base.CostBaseMonth)
	fmt.Fprintf(w, "  %-28s %16s %16s %9s %12s\n", "SCENARIO", "TOTAL", "DELTA", "DELTA%", "AVG/KG")
	fmt.Fprintf(w, "  %-28s %16s %16s %9s %12s\n", "base", money(c.Base.TotalCost), "-", "-", money(c.Base.AverageCostPerKilogram))
	for _, s := range c.Scenarios {
		fmt.Fprintf(w, "  %-28s %16s %16s %8.2f%% %12s\n",
			truncate(s.Name, 28), money(s.Result.TotalCost), money(s.CostDelta), s.CostDeltaPct, money(s.Result.AverageCostPerKilogram))
	}
}

func printRequirements(w io.Writer, r models.Requirements) {
	fmt.Fprintln(w, "RAW MATERIAL REQUIREMENTS")
	fmt.Fprintf(w, "  %-10s %-28s %-14s %12s %-5s %16s\n", "ID", "NAME", "CATEGORY", "QTY", "UNIT", "COST")
	for _, m := range r.Materials {
		fmt.Fprintf(w, "  %-10s %-28s %-14s %12.3f %-5s %16s\n",
			m.RawMaterialID, truncate(m.Name, 28), truncate(m.Category, 14), m.Quantity, m.Unit, money(m.Cost))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "BY CATEGORY")
	for _, c := range r.Categories {
		fmt.Fprintf(w, "  %-20s %16s\n", c.Category, money(c.Cost))
	}
	fmt.Fprintf(w, "\n  Total cost: %s\n", money(r.TotalCost))
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
