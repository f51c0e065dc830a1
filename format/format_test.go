package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/stoich/chem"
	"github.com/dhamidi/stoich/message"
	"github.com/google/go-cmp/cmp"
)

func mustBalance(t *testing.T, text string) *chem.Result {
	t.Helper()
	r, err := chem.Balance(text)
	if err != nil {
		t.Fatalf("Balance(%q) error = %v", text, err)
	}
	return r
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONEncoder(&buf).Encode(mustBalance(t, "CH4 + O2 -> CO2 + H2O")); err != nil {
		t.Fatalf("Encode error = %v", err)
	}

	var got struct {
		Success           bool                      `json:"success"`
		OriginalEquation  string                    `json:"original_equation"`
		BalancedEquation  string                    `json:"balanced_equation"`
		Coefficients      []int                     `json:"coefficients"`
		Elements          []string                  `json:"elements"`
		OriginalAtomCount map[string]map[string]int `json:"original_atom_count"`
		BalancedAtomCount map[string]map[string]int `json:"balanced_atom_count"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}

	if !got.Success {
		t.Error("success = false, want true")
	}
	if got.OriginalEquation != "CH4+O2->CO2+H2O" {
		t.Errorf("original_equation = %q", got.OriginalEquation)
	}
	if got.BalancedEquation != "CH4 + 2O2 -> CO2 + 2H2O" {
		t.Errorf("balanced_equation = %q", got.BalancedEquation)
	}
	if diff := cmp.Diff([]int{1, 2, 1, 2}, got.Coefficients); diff != "" {
		t.Errorf("coefficients mismatch (-want +got):\n%s", diff)
	}
	wantBalanced := map[string]map[string]int{
		"reactants": {"C": 1, "H": 4, "O": 4},
		"products":  {"C": 1, "H": 4, "O": 4},
	}
	if diff := cmp.Diff(wantBalanced, got.BalancedAtomCount); diff != "" {
		t.Errorf("balanced_atom_count mismatch (-want +got):\n%s", diff)
	}
	wantOriginal := map[string]map[string]int{
		"reactants": {"C": 1, "H": 4, "O": 2},
		"products":  {"C": 1, "H": 2, "O": 3},
	}
	if diff := cmp.Diff(wantOriginal, got.OriginalAtomCount); diff != "" {
		t.Errorf("original_atom_count mismatch (-want +got):\n%s", diff)
	}
}

func TestTextEncoder(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextEncoder(&buf).Encode(mustBalance(t, "Fe + O2 -> Fe2O3")); err != nil {
		t.Fatalf("Encode error = %v", err)
	}

	want := `4Fe + 3O2 -> 2Fe2O3

ELEMENT  ORIGINAL  BALANCED
Fe       1 -> 2    4 -> 4
O        2 -> 3    6 -> 6
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"json", "text"} {
		if _, err := New(name, &bytes.Buffer{}); err != nil {
			t.Errorf("New(%q) error = %v", name, err)
		}
	}
	if _, err := New("xml", &bytes.Buffer{}); err == nil {
		t.Error("New(xml) succeeded, want error")
	}
}

func TestFailure(t *testing.T) {
	_, err := chem.Balance("xyz -> H2O")
	got := Failure(err, message.English)

	if got.Success {
		t.Error("success = true, want false")
	}
	if got.Kind != "UnparseableCompound" || got.Fragment != "xyz" {
		t.Errorf("kind/fragment = %q/%q", got.Kind, got.Fragment)
	}
	if !strings.Contains(got.Error, `"xyz"`) {
		t.Errorf("error = %q, want it to mention the compound", got.Error)
	}
}

func TestEncodeFailure(t *testing.T) {
	_, err := chem.Balance("H2 + O2 -> H2O + H2O2")
	var buf bytes.Buffer
	if err := EncodeFailure(&buf, err, message.English); err != nil {
		t.Fatal(err)
	}

	var got ErrorJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	want := ErrorJSON{
		Success: false,
		Error:   "This equation has 2 independent ways to balance it. Split it into separate reactions.",
		Kind:    "AmbiguousBalance",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("failure mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteVerification(t *testing.T) {
	v, err := chem.Check("H2 + O2 -> H2O")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteVerification(&buf, v); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "H2+O2->H2O: not balanced\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "*") {
		t.Errorf("mismatched element not marked:\n%s", out)
	}
}
