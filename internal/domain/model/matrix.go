package model

// AllocationMatrix maps location names to per-size quantities.
// Every cell is a non-negative integer; for every size the column sum never
// exceeds the shipped quantity for that size.
//
// @Description Per-location, per-size allocation
type AllocationMatrix map[string]SizeVector

// Get returns the quantity allocated to a location for a size, treating
// absent rows and cells as zero.
func (m AllocationMatrix) Get(location string, s Size) int {
	if m == nil {
		return 0
	}
	return m[location].Get(s)
}

// Row returns the size vector for a location, or an empty vector if the
// location has no row.
func (m AllocationMatrix) Row(location string) SizeVector {
	if row, ok := m[location]; ok {
		return row
	}
	return SizeVector{}
}

// PerSizeTotals returns the column sums of the matrix.
func (m AllocationMatrix) PerSizeTotals() SizeVector {
	totals := make(SizeVector)
	for _, row := range m {
		for s, qty := range row {
			totals.Add(s, qty)
		}
	}
	return totals
}

// Clone returns an independent deep copy of the matrix.
func (m AllocationMatrix) Clone() AllocationMatrix {
	out := make(AllocationMatrix, len(m))
	for name, row := range m {
		out[name] = row.Clone()
	}
	return out
}

// EmptyMatrix returns a matrix with a zeroed row for every location.
func EmptyMatrix(locations []string) AllocationMatrix {
	m := make(AllocationMatrix, len(locations))
	for _, name := range locations {
		m[name] = make(SizeVector)
	}
	return m
}

// MatrixBuilder owns an allocation matrix for the duration of one run and
// mutates it in place with clamping, so the engine never copies the full
// structure between stages.
type MatrixBuilder struct {
	matrix AllocationMatrix
}

// NewMatrixBuilder creates a builder with a zeroed row per location.
func NewMatrixBuilder(locations []string) *MatrixBuilder {
	return &MatrixBuilder{matrix: EmptyMatrix(locations)}
}

// Add adjusts one cell by delta. The cell is clamped at zero and missing
// rows are created on demand.
func (b *MatrixBuilder) Add(location string, s Size, delta int) {
	row, ok := b.matrix[location]
	if !ok {
		row = make(SizeVector)
		b.matrix[location] = row
	}
	row.Add(s, delta)
}

// AddVector adds an entire size vector to a location's row.
func (b *MatrixBuilder) AddVector(location string, v SizeVector) {
	for s, qty := range v {
		b.Add(location, s, qty)
	}
}

// Get returns one cell, treating absent rows as zero.
func (b *MatrixBuilder) Get(location string, s Size) int {
	return b.matrix.Get(location, s)
}

// ColumnTotal returns the current column sum for a size.
func (b *MatrixBuilder) ColumnTotal(s Size) int {
	total := 0
	for _, row := range b.matrix {
		total += row.Get(s)
	}
	return total
}

// Build releases the matrix. The builder must not be used afterwards.
func (b *MatrixBuilder) Build() AllocationMatrix {
	m := b.matrix
	b.matrix = nil
	return m
}
