package chem

import (
	"strings"
	"unicode"
)

const (
	Arrow        = "->"
	unicodeArrow = "→"
)

// Equation is a reaction with at least one compound on each side.
type Equation struct {
	Reactants []Formula
	Products  []Formula
}

// Formulas returns reactants followed by products, the column order of the
// stoichiometric matrix.
func (eq Equation) Formulas() []Formula {
	all := make([]Formula, 0, len(eq.Reactants)+len(eq.Products))
	all = append(all, eq.Reactants...)
	return append(all, eq.Products...)
}

// Normalize removes all whitespace from text and rewrites "→" to "->".
func Normalize(text string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	return strings.ReplaceAll(stripped, unicodeArrow, Arrow)
}

// Tokenize splits equation text into reactant and product compound strings.
func Tokenize(text string) (reactants, products []string, err error) {
	normalized := Normalize(text)

	switch strings.Count(normalized, Arrow) {
	case 0:
		return nil, nil, malformed(ReasonMissingSeparator, normalized)
	case 1:
	default:
		return nil, nil, malformed(ReasonExtraSeparator, normalized)
	}

	left, right, _ := strings.Cut(normalized, Arrow)
	reactants = splitSide(left)
	if len(reactants) == 0 {
		return nil, nil, malformed(ReasonEmptySide, "reactants")
	}
	products = splitSide(right)
	if len(products) == 0 {
		return nil, nil, malformed(ReasonEmptySide, "products")
	}
	return reactants, products, nil
}

func splitSide(side string) []string {
	var compounds []string
	for _, part := range strings.Split(side, "+") {
		if part != "" {
			compounds = append(compounds, part)
		}
	}
	return compounds
}

// ParseEquation tokenizes text and parses every compound on both sides.
func ParseEquation(text string) (Equation, error) {
	reactants, products, err := Tokenize(text)
	if err != nil {
		return Equation{}, err
	}
	var eq Equation
	if eq.Reactants, err = parseFormulas(reactants); err != nil {
		return Equation{}, err
	}
	if eq.Products, err = parseFormulas(products); err != nil {
		return Equation{}, err
	}
	return eq, nil
}

func parseFormulas(compounds []string) ([]Formula, error) {
	formulas := make([]Formula, 0, len(compounds))
	for _, c := range compounds {
		f, err := ParseFormula(c)
		if err != nil {
			return nil, err
		}
		formulas = append(formulas, f)
	}
	return formulas, nil
}
