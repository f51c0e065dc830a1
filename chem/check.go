package chem

import (
	"math/big"
)

// Verification is the outcome of checking an equation that carries its own
// coefficients, such as "2H2 + O2 -> 2H2O".
type Verification struct {
	Text         string
	Equation     Equation
	Elements     []string
	Coefficients []*big.Int
	Tallies      TallyPair
	Balanced     bool
	// Mismatched lists elements whose totals differ, in element order.
	Mismatched []string
}

// Check parses an equation whose terms may start with an integer
// coefficient (absent means 1) and reports whether it conserves atoms as
// written.
func Check(text string) (*Verification, error) {
	reactants, products, err := Tokenize(text)
	if err != nil {
		return nil, err
	}

	v := &Verification{Text: Normalize(text)}
	var rc, pc []*big.Int
	if v.Equation.Reactants, rc, err = parseTerms(reactants); err != nil {
		return nil, err
	}
	if v.Equation.Products, pc, err = parseTerms(products); err != nil {
		return nil, err
	}
	v.Coefficients = append(rc, pc...)
	v.Elements = BuildMatrix(v.Equation).Elements
	v.Tallies = tallyPair(v.Equation, v.Coefficients)

	for _, symbol := range v.Elements {
		if v.Tallies.Reactants.Count(symbol).Cmp(v.Tallies.Products.Count(symbol)) != 0 {
			v.Mismatched = append(v.Mismatched, symbol)
		}
	}
	v.Balanced = len(v.Mismatched) == 0
	return v, nil
}

// SplitCoefficient separates a leading integer coefficient from a term.
// It returns nil when the term has none.
func SplitCoefficient(term string) (*big.Int, string, bool) {
	i := 0
	for i < len(term) && isDigit(term[i]) {
		i++
	}
	if i == 0 {
		return nil, term, true
	}
	n, ok := new(big.Int).SetString(term[:i], 10)
	if !ok || n.Sign() <= 0 {
		return nil, term, false
	}
	return n, term[i:], true
}

func parseTerms(terms []string) ([]Formula, []*big.Int, error) {
	formulas := make([]Formula, 0, len(terms))
	coefficients := make([]*big.Int, 0, len(terms))
	for _, term := range terms {
		n, compound, ok := SplitCoefficient(term)
		if !ok {
			return nil, nil, unparseable(term)
		}
		if n == nil {
			n = big.NewInt(1)
		}
		f, err := ParseFormula(compound)
		if err != nil {
			return nil, nil, unparseable(term)
		}
		formulas = append(formulas, f)
		coefficients = append(coefficients, n)
	}
	return formulas, coefficients, nil
}
