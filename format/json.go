package format

import (
	"encoding/json"
	"errors"
	"io"
	"math/big"

	"github.com/dhamidi/stoich/chem"
	"github.com/dhamidi/stoich/message"
)

type JSONEncoder struct {
	w      io.Writer
	result *chem.Result
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(r *chem.Result) error {
	e.result = r
	return write(e.w, e)
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data, err := json.MarshalIndent(Success(e.result), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

type jsonAtomCount struct {
	Reactants map[string]*big.Int `json:"reactants"`
	Products  map[string]*big.Int `json:"products"`
}

// SuccessJSON is the wire shape of a balanced equation.
type SuccessJSON struct {
	Success           bool          `json:"success"`
	OriginalEquation  string        `json:"original_equation"`
	BalancedEquation  string        `json:"balanced_equation"`
	Coefficients      []*big.Int    `json:"coefficients"`
	Elements          []string      `json:"elements"`
	OriginalAtomCount jsonAtomCount `json:"original_atom_count"`
	BalancedAtomCount jsonAtomCount `json:"balanced_atom_count"`
}

// ErrorJSON is the wire shape of a failed balance.
type ErrorJSON struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	Kind     string `json:"kind,omitempty"`
	Fragment string `json:"fragment,omitempty"`
}

func Success(r *chem.Result) SuccessJSON {
	return SuccessJSON{
		Success:           true,
		OriginalEquation:  r.Text,
		BalancedEquation:  r.Balanced,
		Coefficients:      r.Coefficients,
		Elements:          r.Elements,
		OriginalAtomCount: atomCount(r.Original),
		BalancedAtomCount: atomCount(r.Final),
	}
}

// Failure localizes err for the wire.
func Failure(err error, locale string) ErrorJSON {
	out := ErrorJSON{Error: message.For(err, locale)}
	var chemErr *chem.Error
	if errors.As(err, &chemErr) {
		out.Kind = chemErr.Kind.String()
		out.Fragment = chemErr.Fragment
	}
	return out
}

func atomCount(p chem.TallyPair) jsonAtomCount {
	return jsonAtomCount{
		Reactants: p.Reactants,
		Products:  p.Products,
	}
}

// EncodeFailure writes the localized failure for err as indented JSON.
func EncodeFailure(w io.Writer, err error, locale string) error {
	data, jsonErr := json.MarshalIndent(Failure(err, locale), "", "  ")
	if jsonErr != nil {
		return jsonErr
	}
	_, writeErr := w.Write(append(data, '\n'))
	return writeErr
}
