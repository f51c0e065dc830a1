// Package syntax provides lexical scanning of equation text based on an
// EBNF grammar.
package syntax

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

//go:embed equation.ebnf
var grammarSource []byte

const (
	// Start is the production the grammar is verified from.
	Start = "Line"
	// TokenProduction lists the token kinds as alternatives.
	TokenProduction = "Token"

	KindEOF   = "EOF"
	KindError = "ERROR"
)

// Source returns the embedded equation grammar.
func Source() string {
	return string(grammarSource)
}

// Grammar parses and verifies the embedded equation grammar.
func Grammar() (ebnf.Grammar, error) {
	return parseGrammar("equation.ebnf", bytes.NewReader(grammarSource))
}

// LoadGrammar loads an EBNF grammar from a file and verifies it.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	return parseGrammar(filename, f)
}

func parseGrammar(filename string, r io.Reader) (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(grammar, Start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return grammar, nil
}

// Position represents a location in a line of equation text. Column counts
// characters, not bytes.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a lexical token with its position.
type Token struct {
	Kind     string
	Literal  string
	Position Position
	End      Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Kind, t.Literal)
}

// Lexer tokenizes input based on an EBNF grammar.
type Lexer struct {
	m        *matcher
	kinds    []string
	filename string
	pos      int
	line     int
	column   int
}

// NewLexer creates a lexer for the given grammar and input. The token kinds
// are the alternatives of the grammar's Token production, tried in order.
func NewLexer(grammar ebnf.Grammar, input []byte, filename string) *Lexer {
	return &Lexer{
		m:        newMatcher(grammar, input),
		kinds:    tokenKinds(grammar),
		filename: filename,
		line:     1,
		column:   1,
	}
}

func tokenKinds(grammar ebnf.Grammar) []string {
	prod, ok := grammar[TokenProduction]
	if !ok || prod.Expr == nil {
		return nil
	}
	alternatives, ok := prod.Expr.(ebnf.Alternative)
	if !ok {
		alternatives = ebnf.Alternative{prod.Expr}
	}
	var kinds []string
	for _, alt := range alternatives {
		if name, ok := alt.(*ebnf.Name); ok {
			kinds = append(kinds, name.String)
		}
	}
	return kinds
}

// Position returns the current position in the input.
func (l *Lexer) Position() Position {
	return Position{
		Filename: l.filename,
		Offset:   l.pos,
		Line:     l.line,
		Column:   l.column,
	}
}

// skip moves past n bytes, keeping line and column current.
func (l *Lexer) skip(n int) {
	for _, ch := range l.m.input[l.pos : l.pos+n] {
		switch {
		case ch == '\n':
			l.line++
			l.column = 1
		case utf8.RuneStart(ch):
			l.column++
		}
	}
	l.pos += n
}

// NextToken returns the next token from the input, preferring the longest
// match and, among equal lengths, the kind listed first. At the end of input
// it returns an EOF token and io.EOF.
func (l *Lexer) NextToken() (Token, error) {
	start := l.Position()
	if l.pos >= len(l.m.input) {
		return Token{Kind: KindEOF, Position: start, End: start}, io.EOF
	}

	l.m.reset()
	kind, width := KindError, 0
	for _, name := range l.kinds {
		if n := l.m.name(name, l.pos); n > width {
			kind, width = name, n
		}
	}
	if width == 0 {
		_, width = utf8.DecodeRune(l.m.input[l.pos:])
	}

	l.skip(width)
	return Token{
		Kind:     kind,
		Literal:  string(l.m.input[start.Offset:l.pos]),
		Position: start,
		End:      l.Position(),
	}, nil
}

// Tokenize reads all tokens from input, ending with an EOF token.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		tokens = append(tokens, tok)
		if err == io.EOF {
			return tokens
		}
	}
}

// noMatch is returned by matcher methods when an expression does not match.
// Zero is a valid, empty match.
const noMatch = -1

type matchKey struct {
	name string
	at   int
}

// matcher measures how many bytes of input an expression matches. Results
// for named productions are memoized per token; active keys guard against
// left recursion.
type matcher struct {
	grammar ebnf.Grammar
	input   []byte
	memo    map[matchKey]int
	active  map[matchKey]bool
}

func newMatcher(grammar ebnf.Grammar, input []byte) *matcher {
	m := &matcher{grammar: grammar, input: input}
	m.reset()
	return m
}

func (m *matcher) reset() {
	m.memo = make(map[matchKey]int)
	m.active = make(map[matchKey]bool)
}

func (m *matcher) match(expr ebnf.Expression, at int) int {
	switch e := expr.(type) {
	case *ebnf.Name:
		return m.name(e.String, at)
	case *ebnf.Token:
		return m.literal(e.String, at)
	case *ebnf.Range:
		return m.runeRange(e.Begin.String, e.End.String, at)
	case *ebnf.Group:
		return m.match(e.Body, at)
	case *ebnf.Option:
		return max(m.match(e.Body, at), 0)
	case *ebnf.Repetition:
		width := 0
		for {
			n := m.match(e.Body, at+width)
			if n <= 0 {
				return width
			}
			width += n
		}
	case ebnf.Sequence:
		width := 0
		for _, item := range e {
			n := m.match(item, at+width)
			if n == noMatch {
				return noMatch
			}
			width += n
		}
		return width
	case ebnf.Alternative:
		best := noMatch
		for _, alt := range e {
			best = max(best, m.match(alt, at))
		}
		return best
	}
	return noMatch
}

func (m *matcher) name(name string, at int) int {
	key := matchKey{name, at}
	if n, ok := m.memo[key]; ok {
		return n
	}
	if m.active[key] {
		return noMatch
	}

	prod := m.grammar[name]
	if prod == nil || prod.Expr == nil {
		m.memo[key] = noMatch
		return noMatch
	}

	m.active[key] = true
	n := m.match(prod.Expr, at)
	delete(m.active, key)

	m.memo[key] = n
	return n
}

// literal matches a token; ebnf.Parse has already unquoted it.
func (m *matcher) literal(lit string, at int) int {
	if !bytes.HasPrefix(m.input[at:], []byte(lit)) {
		return noMatch
	}
	return len(lit)
}

// runeRange matches one character between begin and end inclusive.
func (m *matcher) runeRange(begin, end string, at int) int {
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	r, size := utf8.DecodeRune(m.input[at:])
	if size == 0 || r == utf8.RuneError || r < lo || r > hi {
		return noMatch
	}
	return size
}
