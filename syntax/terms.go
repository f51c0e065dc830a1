package syntax

import (
	"strings"
	"sync"
)

var embedded = sync.OnceValues(Grammar)

// Tokens lexes line with the embedded grammar.
func Tokens(line string) ([]Token, error) {
	grammar, err := embedded()
	if err != nil {
		return nil, err
	}
	return NewLexer(grammar, []byte(line), "").Tokenize(), nil
}

// Term is a run of tokens between separators, such as "2H2O" in
// "2H2 + O2 -> 2H2O". Text has whitespace removed, matching how equations
// are read.
type Term struct {
	Text  string
	Start Position
	End   Position
	// Errors holds stray characters inside the term.
	Errors []Token
}

// Terms splits line into terms at "+" and arrow tokens. Empty terms are
// dropped.
func Terms(line string) ([]Term, error) {
	tokens, err := Tokens(line)
	if err != nil {
		return nil, err
	}

	var terms []Term
	var current *Term
	var text strings.Builder
	flush := func() {
		if current != nil {
			current.Text = text.String()
			terms = append(terms, *current)
		}
		current = nil
		text.Reset()
	}

	for _, tok := range tokens {
		switch tok.Kind {
		case "Plus", "Arrow", KindEOF:
			flush()
		case "Space":
		default:
			if current == nil {
				current = &Term{Start: tok.Position}
			}
			current.End = tok.End
			text.WriteString(tok.Literal)
			if tok.Kind == KindError {
				current.Errors = append(current.Errors, tok)
			}
		}
	}
	return terms, nil
}

// Find returns the first term whose text equals fragment.
func Find(terms []Term, fragment string) (Term, bool) {
	for _, t := range terms {
		if t.Text == fragment {
			return t, true
		}
	}
	return Term{}, false
}
