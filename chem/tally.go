package chem

import "math/big"

// AtomTally maps element symbols to total atom counts on one side.
type AtomTally map[string]*big.Int

// TallyPair holds the reactant and product tallies of one coefficient
// assignment.
type TallyPair struct {
	Reactants AtomTally
	Products  AtomTally
}

// Balanced reports whether both sides carry the same atoms.
func (p TallyPair) Balanced() bool {
	return p.Reactants.Equal(p.Products)
}

// Equal reports whether t and other hold the same counts key for key.
func (t AtomTally) Equal(other AtomTally) bool {
	if len(t) != len(other) {
		return false
	}
	for symbol, n := range t {
		m, ok := other[symbol]
		if !ok || n.Cmp(m) != 0 {
			return false
		}
	}
	return true
}

// Count returns the total for symbol, zero when absent.
func (t AtomTally) Count(symbol string) *big.Int {
	if n, ok := t[symbol]; ok {
		return n
	}
	return new(big.Int)
}

// Tally multiplies each formula's counts by its coefficient and sums them.
// formulas and coefficients must have the same length.
func Tally(formulas []Formula, coefficients []*big.Int) AtomTally {
	if len(formulas) != len(coefficients) {
		panic("chem: tally needs one coefficient per formula")
	}
	t := make(AtomTally)
	for i, f := range formulas {
		for symbol, count := range f.Counts {
			n, ok := t[symbol]
			if !ok {
				n = new(big.Int)
				t[symbol] = n
			}
			n.Add(n, new(big.Int).Mul(big.NewInt(int64(count)), coefficients[i]))
		}
	}
	return t
}

// Ones returns n coefficients equal to 1.
func Ones(n int) []*big.Int {
	out := make([]*big.Int, n)
	for i := range out {
		out[i] = big.NewInt(1)
	}
	return out
}
