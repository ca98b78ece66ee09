package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocationMatrix_Get(t *testing.T) {
	m := AllocationMatrix{
		"Cedarhurst": {"M": 2},
	}

	assert.Equal(t, 2, m.Get("Cedarhurst", "M"))
	assert.Equal(t, 0, m.Get("Cedarhurst", "L"))
	assert.Equal(t, 0, m.Get("Lakewood", "M"))

	var nilMatrix AllocationMatrix
	assert.Equal(t, 0, nilMatrix.Get("Cedarhurst", "M"))
}

func TestAllocationMatrix_Row(t *testing.T) {
	m := AllocationMatrix{
		"Cedarhurst": {"M": 2},
	}

	assert.Equal(t, SizeVector{"M": 2}, m.Row("Cedarhurst"))
	assert.Equal(t, SizeVector{}, m.Row("Lakewood"))
}

func TestAllocationMatrix_PerSizeTotals(t *testing.T) {
	m := AllocationMatrix{
		"Cedarhurst": {"M": 2, "L": 1},
		"Lakewood":   {"M": 2},
		"Warehouse":  {"M": 4, "L": 3},
	}

	totals := m.PerSizeTotals()
	assert.Equal(t, 8, totals.Get("M"))
	assert.Equal(t, 4, totals.Get("L"))
	assert.Equal(t, 0, totals.Get("XS"))
}

func TestAllocationMatrix_Clone(t *testing.T) {
	original := AllocationMatrix{
		"Cedarhurst": {"M": 2},
	}
	clone := original.Clone()

	clone["Cedarhurst"].Set("M", 99)
	assert.Equal(t, 2, original.Get("Cedarhurst", "M"))
	assert.Equal(t, 99, clone.Get("Cedarhurst", "M"))
}

func TestEmptyMatrix(t *testing.T) {
	m := EmptyMatrix([]string{"Cedarhurst", "Lakewood"})

	assert.Len(t, m, 2)
	assert.NotNil(t, m["Cedarhurst"])
	assert.NotNil(t, m["Lakewood"])
	assert.Equal(t, 0, m.PerSizeTotals().Total())
}

func TestMatrixBuilder(t *testing.T) {
	b := NewMatrixBuilder([]string{"Cedarhurst", "Lakewood"})

	b.Add("Cedarhurst", "M", 5)
	b.Add("Cedarhurst", "M", -2)
	assert.Equal(t, 3, b.Get("Cedarhurst", "M"))

	// Clamped at zero
	b.Add("Lakewood", "M", -4)
	assert.Equal(t, 0, b.Get("Lakewood", "M"))

	// Missing rows are created on demand
	b.Add("Warehouse", "M", 7)
	assert.Equal(t, 7, b.Get("Warehouse", "M"))

	assert.Equal(t, 10, b.ColumnTotal("M"))

	b.AddVector("Cedarhurst", SizeVector{"L": 1, "XL": 1})
	assert.Equal(t, 1, b.Get("Cedarhurst", "L"))

	m := b.Build()
	assert.Equal(t, 3, m.Get("Cedarhurst", "M"))
	assert.Equal(t, 7, m.Get("Warehouse", "M"))
}
