package award

import (
	"math"

	"sourcing/internal/models"
)

// EstimateValue derives the monetary value implied by awarding to the
// selected suppliers: for each selected supplier the cheapest of their
// quote totals is taken (the best price offered), and those minima are
// summed. Suppliers without quotes contribute zero. Non-finite line
// costs count as zero within a quote; a quote with no finite line cost
// at all is excluded from the minimum search.
func EstimateValue(quotes []models.Quote, selected []string) float64 {
	bySupplier := make(map[string][]models.Quote)
	for _, q := range quotes {
		bySupplier[q.SupplierId] = append(bySupplier[q.SupplierId], q)
	}

	seen := make(map[string]bool)
	var total float64
	for _, id := range selected {
		if seen[id] {
			continue
		}
		seen[id] = true
		total += bestTotal(bySupplier[id])
	}
	return total
}

func bestTotal(quotes []models.Quote) float64 {
	best := math.Inf(1)
	for _, q := range quotes {
		if allNonFinite(q) {
			continue
		}
		if t := q.Total(); t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return best
}

// allNonFinite reports whether every line cost of a non-empty quote is
// NaN or infinite; such quotes are excluded from the minimum search.
func allNonFinite(q models.Quote) bool {
	if len(q.LineItems) == 0 {
		return false
	}
	for _, li := range q.LineItems {
		if !math.IsNaN(li.Cost) && !math.IsInf(li.Cost, 0) {
			return false
		}
	}
	return true
}
