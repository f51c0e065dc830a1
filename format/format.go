// Package format renders balance results for output.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/stoich/chem"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(r *chem.Result) error
}

// New returns the encoder registered under name ("json" or "text").
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "text":
		return NewTextEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", name)
	}
}

func write(w io.Writer, m encoding.TextMarshaler) error {
	text, err := m.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
