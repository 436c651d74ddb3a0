package award

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"sourcing/internal/models"
)

func quote(supplier string, costs ...float64) models.Quote {
	q := models.Quote{SupplierId: supplier}
	for _, cost := range costs {
		q.LineItems = append(q.LineItems, models.LineItem{Cost: cost})
	}
	return q
}

func TestEstimateValueSumsBestPricePerSupplier(t *testing.T) {
	quotes := []models.Quote{
		quote("A", 100, 50),
		quote("B", 40),
	}

	assert.Equal(t, 190.0, EstimateValue(quotes, []string{"A", "B"}))
}

func TestEstimateValueTakesMinimumAcrossRevisions(t *testing.T) {
	quotes := []models.Quote{
		quote("A", 300),
		quote("A", 200),
		quote("A", 250),
	}

	assert.Equal(t, 200.0, EstimateValue(quotes, []string{"A"}))
}

func TestEstimateValueEmptySelection(t *testing.T) {
	quotes := []models.Quote{quote("A", 100)}

	assert.Zero(t, EstimateValue(quotes, nil))
	assert.Zero(t, EstimateValue(quotes, []string{}))
}

func TestEstimateValueSupplierWithoutQuotes(t *testing.T) {
	quotes := []models.Quote{quote("A", 100)}

	// B has no quotes and contributes zero
	assert.Equal(t, 100.0, EstimateValue(quotes, []string{"A", "B"}))
}

func TestEstimateValueDeduplicatesSelection(t *testing.T) {
	quotes := []models.Quote{quote("A", 100)}

	assert.Equal(t, 100.0, EstimateValue(quotes, []string{"A", "A", "A"}))
}

func TestEstimateValueNonFiniteCosts(t *testing.T) {
	// NaN counts as zero inside a quote's total
	mixed := models.Quote{SupplierId: "A", LineItems: []models.LineItem{
		{Cost: 100},
		{Cost: math.NaN()},
	}}
	assert.Equal(t, 100.0, EstimateValue([]models.Quote{mixed}, []string{"A"}))

	// a quote with only non-finite costs is excluded from the minimum search
	broken := quote("A", math.Inf(1))
	good := quote("A", 80)
	assert.Equal(t, 80.0, EstimateValue([]models.Quote{broken, good}, []string{"A"}))

	// a supplier whose quotes are all non-finite contributes zero
	assert.Zero(t, EstimateValue([]models.Quote{quote("A", math.NaN())}, []string{"A"}))
}
