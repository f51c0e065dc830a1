package format

import (
	"bytes"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dhamidi/stoich/chem"
)

// TextEncoder writes the balanced equation followed by an atom count table.
type TextEncoder struct {
	w      io.Writer
	result *chem.Result
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w}
}

func (e *TextEncoder) Encode(r *chem.Result) error {
	e.result = r
	return write(e.w, e)
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	r := e.result
	var buf bytes.Buffer
	fmt.Fprintln(&buf, r.Balanced)
	fmt.Fprintln(&buf)

	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ELEMENT\tORIGINAL\tBALANCED")
	for _, symbol := range r.Elements {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", symbol, sides(r.Original, symbol), sides(r.Final, symbol))
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sides(p chem.TallyPair, symbol string) string {
	return p.Reactants.Count(symbol).String() + " -> " + p.Products.Count(symbol).String()
}

// WriteVerification prints the outcome of chem.Check in the text layout.
func WriteVerification(w io.Writer, v *chem.Verification) error {
	status := "balanced"
	if !v.Balanced {
		status = "not balanced"
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n\n", v.Text, status); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ELEMENT\tREACTANTS\tPRODUCTS\t")
	for _, symbol := range v.Elements {
		mark := ""
		if v.Tallies.Reactants.Count(symbol).Cmp(v.Tallies.Products.Count(symbol)) != 0 {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", symbol, v.Tallies.Reactants.Count(symbol), v.Tallies.Products.Count(symbol), mark)
	}
	return tw.Flush()
}
