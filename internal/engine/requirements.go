package engine

import (
	"sort"

	"github.com/mamadbah2/costeo/internal/domain/models"
)

// Requirements totals the raw materials a plan consumes. Quantities scale
// with batches (kilograms / batch weight); costs are inflated by factor.
func Requirements(products []models.Product, plan []models.ProductionPlanEntry, factor float64) (models.Requirements, error) {
	index, err := indexProducts(products)
	if err != nil {
		return models.Requirements{}, err
	}
	merged, err := mergePlan(plan, index)
	if err != nil {
		return models.Requirements{}, err
	}

	materials := make(map[string]*models.MaterialRequirement)
	categories := make(map[string]*models.CategoryRequirement)
	var out models.Requirements

	for _, entry := range merged {
		product := index[entry.ProductID]
		batches := safeDiv(entry.Kilograms, product.BatchWeightKg)

		for _, line := range product.Ingredients {
			qty := line.Quantity * batches
			cost := line.Cost() * batches * factor

			mat, ok := materials[line.RawMaterialID]
			if !ok {
				mat = &models.MaterialRequirement{
					RawMaterialID: line.RawMaterialID,
					Name:          line.Name,
					Category:      line.Category,
					Unit:          line.Unit,
				}
				materials[line.RawMaterialID] = mat
			}
			mat.Quantity += qty
			mat.Cost += cost

			cat, ok := categories[line.Category]
			if !ok {
				cat = &models.CategoryRequirement{Category: line.Category}
				categories[line.Category] = cat
			}
			cat.Quantity += qty
			cat.Cost += cost

			out.TotalCost += cost
		}
	}

	for _, m := range materials {
		out.Materials = append(out.Materials, *m)
	}
	sort.Slice(out.Materials, func(i, j int) bool {
		if out.Materials[i].Cost != out.Materials[j].Cost {
			return out.Materials[i].Cost > out.Materials[j].Cost
		}
		return out.Materials[i].RawMaterialID < out.Materials[j].RawMaterialID
	})

	for _, c := range categories {
		out.Categories = append(out.Categories, *c)
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		if out.Categories[i].Cost != out.Categories[j].Cost {
			return out.Categories[i].Cost > out.Categories[j].Cost
		}
		return out.Categories[i].Category < out.Categories[j].Category
	})

	return out, nil
}
