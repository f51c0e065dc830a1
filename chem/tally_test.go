package chem

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTally(t *testing.T) {
	eq := mustEquation(t, "CH4 + O2 -> CO2 + H2O")

	got := Tally(eq.Reactants, []*big.Int{big.NewInt(1), big.NewInt(2)})
	if diff := cmp.Diff(map[string]int64{"C": 1, "H": 4, "O": 4}, counts(got)); diff != "" {
		t.Errorf("Tally mismatch (-want +got):\n%s", diff)
	}

	got = Tally(eq.Products, Ones(2))
	if diff := cmp.Diff(map[string]int64{"C": 1, "H": 2, "O": 3}, counts(got)); diff != "" {
		t.Errorf("Tally mismatch (-want +got):\n%s", diff)
	}
}

func TestTallyEqual(t *testing.T) {
	a := AtomTally{"H": big.NewInt(2), "O": big.NewInt(1)}
	b := AtomTally{"O": big.NewInt(1), "H": big.NewInt(2)}
	c := AtomTally{"H": big.NewInt(2)}
	d := AtomTally{"H": big.NewInt(2), "O": big.NewInt(2)}

	if !a.Equal(b) {
		t.Error("a.Equal(b) = false, want true")
	}
	if a.Equal(c) || c.Equal(a) {
		t.Error("tallies with different keys compare equal")
	}
	if a.Equal(d) {
		t.Error("tallies with different counts compare equal")
	}
	if got := c.Count("O"); got.Sign() != 0 {
		t.Errorf("Count(O) = %v, want 0", got)
	}
}

func TestTallyLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Tally did not panic on mismatched lengths")
		}
	}()
	Tally(mustEquation(t, "H2 -> H2").Reactants, nil)
}
