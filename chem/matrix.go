package chem

// Matrix is the conservation matrix of an equation: one row per element,
// one column per compound. Product columns hold negated counts so that a
// balanced coefficient vector x satisfies M·x = 0.
type Matrix struct {
	rows, cols int
	data       []int64
	// Elements names the rows in first-seen order.
	Elements []string
}

// NewMatrix creates a zero matrix of the given size.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{
		rows: rows,
		cols: cols,
		data: make([]int64, rows*cols),
	}
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

// At returns the value at a specific row and column.
func (m *Matrix) At(r, c int) int64 {
	return m.data[r*m.cols+c]
}

// Set sets the value at a specific row and column.
func (m *Matrix) Set(r, c int, val int64) {
	m.data[r*m.cols+c] = val
}

// BuildMatrix lays out eq as a conservation matrix. Rows follow the first
// appearance of each element scanning reactants then products; columns are
// reactants then products in input order.
func BuildMatrix(eq Equation) *Matrix {
	formulas := eq.Formulas()

	var elements []string
	index := make(map[string]int)
	for _, f := range formulas {
		for _, symbol := range f.Order {
			if _, ok := index[symbol]; !ok {
				index[symbol] = len(elements)
				elements = append(elements, symbol)
			}
		}
	}

	m := NewMatrix(len(elements), len(formulas))
	m.Elements = elements
	for col, f := range formulas {
		sign := int64(1)
		if col >= len(eq.Reactants) {
			sign = -1
		}
		for symbol, count := range f.Counts {
			m.Set(index[symbol], col, sign*int64(count))
		}
	}
	return m
}
