package chem

import (
	"errors"
	"fmt"
)

// Kind classifies why an equation could not be balanced.
type Kind int

const (
	KindMalformedEquation Kind = iota + 1
	KindUnparseableCompound
	KindNoNonTrivialSolution
	KindAmbiguousBalance
	KindNonPositiveCoefficient
)

func (k Kind) String() string {
	switch k {
	case KindMalformedEquation:
		return "MalformedEquation"
	case KindUnparseableCompound:
		return "UnparseableCompound"
	case KindNoNonTrivialSolution:
		return "NoNonTrivialSolution"
	case KindAmbiguousBalance:
		return "AmbiguousBalance"
	case KindNonPositiveCoefficient:
		return "NonPositiveCoefficient"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Reason narrows down a KindMalformedEquation error.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMissingSeparator
	ReasonExtraSeparator
	ReasonEmptySide
)

func (r Reason) String() string {
	switch r {
	case ReasonMissingSeparator:
		return "missing separator"
	case ReasonExtraSeparator:
		return "extra separator"
	case ReasonEmptySide:
		return "empty side"
	default:
		return ""
	}
}

var (
	ErrMalformedEquation      = errors.New("chem: malformed equation")
	ErrUnparseableCompound    = errors.New("chem: unparseable compound")
	ErrNoNonTrivialSolution   = errors.New("chem: no non-trivial solution")
	ErrAmbiguousBalance       = errors.New("chem: ambiguous balance")
	ErrNonPositiveCoefficient = errors.New("chem: non-positive coefficient")
)

// Error is returned by every failing operation in this package. It unwraps
// to the sentinel matching its Kind.
type Error struct {
	Kind Kind
	// Fragment is the piece of input the failure was observed on, if any.
	Fragment string
	// Reason is set for KindMalformedEquation.
	Reason Reason
	// Free is the number of free variables for KindAmbiguousBalance.
	Free int
	// Column is the first offending compound column for
	// KindNonPositiveCoefficient.
	Column int
}

func (e *Error) Error() string {
	msg := e.Unwrap().Error()
	if e.Reason != ReasonNone {
		msg += ": " + e.Reason.String()
	}
	if e.Kind == KindAmbiguousBalance {
		msg += fmt.Sprintf(": %d free variables", e.Free)
	}
	if e.Fragment != "" {
		msg += fmt.Sprintf(" (%q)", e.Fragment)
	}
	return msg
}

func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindMalformedEquation:
		return ErrMalformedEquation
	case KindUnparseableCompound:
		return ErrUnparseableCompound
	case KindNoNonTrivialSolution:
		return ErrNoNonTrivialSolution
	case KindAmbiguousBalance:
		return ErrAmbiguousBalance
	case KindNonPositiveCoefficient:
		return ErrNonPositiveCoefficient
	default:
		return errors.New("chem: unknown error")
	}
}

func malformed(reason Reason, fragment string) *Error {
	return &Error{Kind: KindMalformedEquation, Reason: reason, Fragment: fragment}
}

func unparseable(compound string) *Error {
	return &Error{Kind: KindUnparseableCompound, Fragment: compound}
}
