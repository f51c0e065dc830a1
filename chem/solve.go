package chem

import "math/big"

// Solve finds the minimal positive integer vector x with M·x = 0.
//
// The matrix is reduced to reduced row echelon form with exact rational
// arithmetic. Columns are visited left to right; the pivot for a column is
// the first row at or below the current pivot row holding a nonzero entry.
// Exactly one free column is required: it is set to 1 and the pivot
// variables are read off the reduced rows. The rational solution is then
// scaled by the lcm of its denominators and divided by the gcd of its
// entries.
func Solve(m *Matrix) ([]*big.Int, error) {
	a := toRat(m)
	pivots := reduce(a, m.cols)

	free := freeColumns(pivots, m.cols)
	switch {
	case len(free) == 0:
		return nil, &Error{Kind: KindNoNonTrivialSolution}
	case len(free) > 1:
		return nil, &Error{Kind: KindAmbiguousBalance, Free: len(free)}
	}

	solution := make([]*big.Rat, m.cols)
	solution[free[0]] = big.NewRat(1, 1)
	for row, col := range pivots {
		solution[col] = new(big.Rat).Neg(a[row][free[0]])
	}

	coefficients := integerize(solution)
	for col, c := range coefficients {
		if c.Sign() <= 0 {
			return nil, &Error{Kind: KindNonPositiveCoefficient, Column: col}
		}
	}
	return coefficients, nil
}

func toRat(m *Matrix) [][]*big.Rat {
	a := make([][]*big.Rat, m.rows)
	for r := range a {
		a[r] = make([]*big.Rat, m.cols)
		for c := range a[r] {
			a[r][c] = new(big.Rat).SetInt64(m.At(r, c))
		}
	}
	return a
}

// reduce brings a into reduced row echelon form in place and returns the
// pivot column of each nonzero row, in row order.
func reduce(a [][]*big.Rat, cols int) []int {
	var pivots []int
	row := 0
	for col := 0; col < cols && row < len(a); col++ {
		p := -1
		for i := row; i < len(a); i++ {
			if a[i][col].Sign() != 0 {
				p = i
				break
			}
		}
		if p < 0 {
			continue
		}
		a[row], a[p] = a[p], a[row]

		inv := new(big.Rat).Inv(a[row][col])
		for j := col; j < cols; j++ {
			a[row][j].Mul(a[row][j], inv)
		}

		for i := range a {
			if i == row || a[i][col].Sign() == 0 {
				continue
			}
			factor := new(big.Rat).Set(a[i][col])
			t := new(big.Rat)
			for j := col; j < cols; j++ {
				t.Mul(factor, a[row][j])
				a[i][j].Sub(a[i][j], t)
			}
		}

		pivots = append(pivots, col)
		row++
	}
	return pivots
}

func freeColumns(pivots []int, cols int) []int {
	isPivot := make([]bool, cols)
	for _, c := range pivots {
		isPivot[c] = true
	}
	var free []int
	for c := 0; c < cols; c++ {
		if !isPivot[c] {
			free = append(free, c)
		}
	}
	return free
}

// integerize scales a rational vector to the smallest integer vector with
// the same direction.
func integerize(v []*big.Rat) []*big.Int {
	lcm := big.NewInt(1)
	g := new(big.Int)
	for _, x := range v {
		d := x.Denom()
		g.GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, g))
	}

	out := make([]*big.Int, len(v))
	divisor := new(big.Int)
	for i, x := range v {
		n := new(big.Int).Quo(lcm, x.Denom())
		out[i] = n.Mul(n, x.Num())
		divisor.GCD(nil, nil, divisor, new(big.Int).Abs(out[i]))
	}

	if divisor.Sign() > 0 && divisor.Cmp(big.NewInt(1)) != 0 {
		for _, n := range out {
			n.Quo(n, divisor)
		}
	}
	return out
}
