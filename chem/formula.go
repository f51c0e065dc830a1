package chem

import (
	"math"
	"strconv"
	"strings"
)

// Formula is a parsed compound such as "Fe2O3".
type Formula struct {
	Text   string
	Counts map[string]int
	// Order lists element symbols in order of first appearance.
	Order []string
}

// ParseFormula reads a compound written as concatenated element symbols,
// each optionally followed by a count. Repeated symbols are summed.
// Parenthesised groups, charges and hydrates are not supported.
func ParseFormula(compound string) (Formula, error) {
	text := strings.TrimSpace(compound)
	if text == "" {
		return Formula{}, unparseable(compound)
	}

	f := Formula{Text: text, Counts: make(map[string]int)}
	s := formulaScanner{input: text}
	for !s.done() {
		symbol, ok := s.element()
		if !ok {
			return Formula{}, unparseable(text)
		}
		count := 1
		if digits := s.digits(); digits != "" {
			n, err := strconv.Atoi(digits)
			if err != nil || n < 1 {
				return Formula{}, unparseable(text)
			}
			count = n
		}
		prev, seen := f.Counts[symbol]
		if !seen {
			f.Order = append(f.Order, symbol)
		}
		// Summed counts must not wrap.
		if count > math.MaxInt-prev {
			return Formula{}, unparseable(text)
		}
		f.Counts[symbol] = prev + count
	}
	return f, nil
}

// String renders the element counts in order of first appearance.
func (f Formula) String() string {
	var b strings.Builder
	for _, symbol := range f.Order {
		b.WriteString(symbol)
		if n := f.Counts[symbol]; n != 1 {
			b.WriteString(strconv.Itoa(n))
		}
	}
	return b.String()
}

type formulaScanner struct {
	input string
	pos   int
}

func (s *formulaScanner) done() bool {
	return s.pos >= len(s.input)
}

func (s *formulaScanner) peek() byte {
	if s.pos >= len(s.input) {
		return 0
	}
	return s.input[s.pos]
}

func (s *formulaScanner) element() (string, bool) {
	start := s.pos
	if !isUpper(s.peek()) {
		return "", false
	}
	s.pos++
	for isLower(s.peek()) {
		s.pos++
	}
	return s.input[start:s.pos], true
}

func (s *formulaScanner) digits() string {
	start := s.pos
	for isDigit(s.peek()) {
		s.pos++
	}
	return s.input[start:s.pos]
}

func isUpper(ch byte) bool {
	return ch >= 'A' && ch <= 'Z'
}

func isLower(ch byte) bool {
	return ch >= 'a' && ch <= 'z'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
