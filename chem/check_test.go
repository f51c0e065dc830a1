package chem

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		input        string
		balanced     bool
		mismatched   []string
		coefficients []string
	}{
		{"2H2 + O2 -> 2H2O", true, nil, []string{"2", "1", "2"}},
		{"H2 + O2 -> H2O", false, []string{"O"}, []string{"1", "1", "1"}},
		{"CH4 + 2O2 -> CO2 + 2H2O", true, nil, []string{"1", "2", "1", "2"}},
		{"4Fe + 3O2 → 2Fe2O3", true, nil, []string{"4", "3", "2"}},
		{"Fe + O2 -> Fe2O3", false, []string{"Fe", "O"}, []string{"1", "1", "1"}},
		{"H2 -> O2", false, []string{"H", "O"}, []string{"1", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := Check(tt.input)
			if err != nil {
				t.Fatalf("Check error = %v", err)
			}
			if v.Balanced != tt.balanced {
				t.Errorf("Balanced = %v, want %v", v.Balanced, tt.balanced)
			}
			if diff := cmp.Diff(tt.mismatched, v.Mismatched); diff != "" {
				t.Errorf("Mismatched (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.coefficients, coefficientStrings(v.Coefficients)); diff != "" {
				t.Errorf("Coefficients (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckErrors(t *testing.T) {
	tests := []struct {
		input    string
		target   error
		fragment string
	}{
		{"2H2 + O2", ErrMalformedEquation, "2H2+O2"},
		{"0H2 + O2 -> H2O", ErrUnparseableCompound, "0H2"},
		{"2 -> H2O", ErrUnparseableCompound, "2"},
		{"2h2 -> H2O", ErrUnparseableCompound, "2h2"},
		{"2H9223372036854775807H1 -> H2", ErrUnparseableCompound, "2H9223372036854775807H1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Check(tt.input)
			if !errors.Is(err, tt.target) {
				t.Fatalf("Check error = %v, want %v", err, tt.target)
			}
			var chemErr *Error
			if errors.As(err, &chemErr) && chemErr.Fragment != tt.fragment {
				t.Errorf("Fragment = %q, want %q", chemErr.Fragment, tt.fragment)
			}
		})
	}
}

func TestSplitCoefficient(t *testing.T) {
	tests := []struct {
		term     string
		coef     string
		compound string
		ok       bool
	}{
		{"2H2O", "2", "H2O", true},
		{"H2O", "", "H2O", true},
		{"16HCl", "16", "HCl", true},
		{"0O2", "", "0O2", false},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			n, compound, ok := SplitCoefficient(tt.term)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			got := ""
			if n != nil {
				got = n.String()
			}
			if got != tt.coef {
				t.Errorf("coefficient = %q, want %q", got, tt.coef)
			}
			if compound != tt.compound {
				t.Errorf("compound = %q, want %q", compound, tt.compound)
			}
		})
	}
}
