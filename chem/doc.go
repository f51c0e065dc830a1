// Package chem balances chemical equations.
//
// # Overview
//
// Balance takes reaction text and returns the minimal positive integer
// coefficients that conserve every element:
//
//	r, err := chem.Balance("Fe + O2 -> Fe2O3")
//	// r.Balanced == "4Fe + 3O2 -> 2Fe2O3"
//
// The pipeline is:
//
//	┌───────────┐   ┌──────────────┐   ┌─────────────┐   ┌─────────┐   ┌─────────┐
//	│ Tokenize  │──▶│ ParseFormula │──▶│ BuildMatrix │──▶│  Solve  │──▶│  Tally  │
//	│ (sides)   │   │ (per term)   │   │ (elements)  │   │ (RREF)  │   │ (atoms) │
//	└───────────┘   └──────────────┘   └─────────────┘   └─────────┘   └─────────┘
//
// # Syntax
//
// A compound is a run of element symbols (one uppercase letter followed by
// lowercase letters), each optionally followed by a count. Sides are joined
// with "+" and separated by "->" or "→". Whitespace is ignored. Groups in
// parentheses, charges and hydrate dots are rejected.
//
// # Errors
//
// Every failure is a *Error whose Kind matches one of the package
// sentinels through errors.Is. Errors carry the offending fragment but no
// user-facing text; callers localize them.
//
// # Concurrency
//
// All functions are pure. Results are not shared and may be used from any
// goroutine.
package chem
