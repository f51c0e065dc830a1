package chem

import (
	"errors"
	"math/big"
	"strings"
)

// Result is a successfully balanced equation.
type Result struct {
	// Text is the input with whitespace removed and arrows normalized.
	Text     string
	Equation Equation
	// Elements lists every element in matrix row order.
	Elements     []string
	Coefficients []*big.Int
	Balanced     string
	// Original counts atoms with every coefficient set to 1.
	Original TallyPair
	// Final counts atoms with the solved coefficients.
	Final TallyPair
}

// ReactantCoefficients returns the coefficients of the reactant columns.
func (r *Result) ReactantCoefficients() []*big.Int {
	return r.Coefficients[:len(r.Equation.Reactants)]
}

// ProductCoefficients returns the coefficients of the product columns.
func (r *Result) ProductCoefficients() []*big.Int {
	return r.Coefficients[len(r.Equation.Reactants):]
}

// Balance parses an equation such as "CH4 + O2 -> CO2 + H2O" and computes
// its minimal positive integer coefficients. Every failure is a *Error.
func Balance(text string) (*Result, error) {
	eq, err := ParseEquation(text)
	if err != nil {
		return nil, err
	}

	m := BuildMatrix(eq)
	coefficients, err := Solve(m)
	if err != nil {
		var chemErr *Error
		if errors.As(err, &chemErr) && chemErr.Kind == KindNonPositiveCoefficient {
			chemErr.Fragment = eq.Formulas()[chemErr.Column].Text
		}
		return nil, err
	}

	r := &Result{
		Text:         Normalize(text),
		Equation:     eq,
		Elements:     m.Elements,
		Coefficients: coefficients,
		Original:     tallyPair(eq, Ones(len(coefficients))),
	}
	r.Final = tallyPair(eq, coefficients)
	r.Balanced = Render(eq, coefficients)
	return r, nil
}

func tallyPair(eq Equation, coefficients []*big.Int) TallyPair {
	n := len(eq.Reactants)
	return TallyPair{
		Reactants: Tally(eq.Reactants, coefficients[:n]),
		Products:  Tally(eq.Products, coefficients[n:]),
	}
}

// Render writes eq with coefficients in front of each compound, omitting
// coefficients equal to 1.
func Render(eq Equation, coefficients []*big.Int) string {
	n := len(eq.Reactants)
	return renderSide(eq.Reactants, coefficients[:n]) + " " + Arrow + " " + renderSide(eq.Products, coefficients[n:])
}

func renderSide(formulas []Formula, coefficients []*big.Int) string {
	terms := make([]string, len(formulas))
	for i, f := range formulas {
		if coefficients[i].IsInt64() && coefficients[i].Int64() == 1 {
			terms[i] = f.Text
		} else {
			terms[i] = coefficients[i].String() + f.Text
		}
	}
	return strings.Join(terms, " + ")
}
