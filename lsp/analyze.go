package lsp

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/stoich/chem"
	"github.com/dhamidi/stoich/message"
	"github.com/dhamidi/stoich/syntax"
)

const source = "stoich"

// Report is the analysis of one equation line. Exactly one of Result,
// Verification and Err is set.
type Report struct {
	Line         int
	Text         string
	Result       *chem.Result
	Verification *chem.Verification
	Err          error
}

// Analyze checks every equation line of a document. Blank lines and lines
// starting with '#' are skipped.
func Analyze(text string) []Report {
	var reports []Report
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		reports = append(reports, analyzeLine(n, line))
	}
	return reports
}

func analyzeLine(n int, line string) Report {
	rep := Report{Line: n, Text: line}
	if hasCoefficients(line) {
		rep.Verification, rep.Err = chem.Check(line)
	} else {
		rep.Result, rep.Err = chem.Balance(line)
	}
	return rep
}

// hasCoefficients reports whether any term is written with a leading
// number, as in "2H2 + O2 -> 2H2O".
func hasCoefficients(line string) bool {
	terms, err := syntax.Terms(line)
	if err != nil {
		return false
	}
	for _, t := range terms {
		if t.Text != "" && t.Text[0] >= '0' && t.Text[0] <= '9' {
			return true
		}
	}
	return false
}

// Fix returns the balanced form of the line when it differs from the text.
func (r Report) Fix() (string, bool) {
	switch {
	case r.Result != nil:
		if allOnes(r.Result) {
			return "", false
		}
		return r.Result.Balanced, true
	case r.Verification != nil && !r.Verification.Balanced:
		plain := chem.Render(r.Verification.Equation, chem.Ones(len(r.Verification.Coefficients)))
		result, err := chem.Balance(plain)
		if err != nil {
			return "", false
		}
		return result.Balanced, true
	}
	return "", false
}

func allOnes(r *chem.Result) bool {
	for _, c := range r.Coefficients {
		if !c.IsInt64() || c.Int64() != 1 {
			return false
		}
	}
	return true
}

// Diagnostic returns the diagnostic for the line, or nil when there is
// nothing to report.
func (r Report) Diagnostic(locale string) *protocol.Diagnostic {
	switch {
	case r.Err != nil:
		d := newDiagnostic(r.errorRange(), protocol.DiagnosticSeverityError, message.For(r.Err, locale))
		var chemErr *chem.Error
		if errors.As(r.Err, &chemErr) {
			d.Code = &protocol.IntegerOrString{Value: chemErr.Kind.String()}
		}
		return d
	case r.Verification != nil && !r.Verification.Balanced:
		return newDiagnostic(r.lineRange(), protocol.DiagnosticSeverityWarning, message.Unbalanced(r.Verification.Mismatched, locale))
	case r.Result != nil && !allOnes(r.Result):
		return newDiagnostic(r.lineRange(), protocol.DiagnosticSeverityHint, message.Balanced(r.Result.Balanced, locale))
	}
	return nil
}

// Diagnostics analyzes text and returns its diagnostics. The result is never
// nil so it encodes as an empty JSON array.
func Diagnostics(text, locale string) []protocol.Diagnostic {
	return diagnosticsFor(Analyze(text), locale)
}

func diagnosticsFor(reports []Report, locale string) []protocol.Diagnostic {
	diagnostics := make([]protocol.Diagnostic, 0, len(reports))
	for _, r := range reports {
		if d := r.Diagnostic(locale); d != nil {
			diagnostics = append(diagnostics, *d)
		}
	}
	return diagnostics
}

func newDiagnostic(rng protocol.Range, severity protocol.DiagnosticSeverity, msg string) *protocol.Diagnostic {
	src := source
	return &protocol.Diagnostic{
		Range:    rng,
		Severity: &severity,
		Source:   &src,
		Message:  msg,
	}
}

// errorRange narrows an error to the term it names, falling back to the
// whole line.
func (r Report) errorRange() protocol.Range {
	var chemErr *chem.Error
	if !errors.As(r.Err, &chemErr) || chemErr.Fragment == "" {
		return r.lineRange()
	}
	terms, err := syntax.Terms(r.Text)
	if err != nil {
		return r.lineRange()
	}
	term, ok := syntax.Find(terms, chemErr.Fragment)
	if !ok {
		return r.lineRange()
	}
	return protocol.Range{
		Start: r.position(term.Start.Offset),
		End:   r.position(term.End.Offset),
	}
}

func (r Report) lineRange() protocol.Range {
	return protocol.Range{
		Start: r.position(0),
		End:   r.position(len(r.Text)),
	}
}

// position converts a byte offset in the line to an LSP position, which
// counts UTF-16 code units.
func (r Report) position(offset int) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(r.Line),
		Character: protocol.UInteger(len(utf16.Encode([]rune(r.Text[:offset])))),
	}
}

// Markdown describes the report for a hover.
func (r Report) Markdown(locale string) string {
	var b strings.Builder
	switch {
	case r.Err != nil:
		b.WriteString(message.For(r.Err, locale))
	case r.Result != nil:
		fmt.Fprintf(&b, "**%s**\n\n", r.Result.Balanced)
		b.WriteString("| Element | Original | Balanced |\n|---|---|---|\n")
		for _, symbol := range r.Result.Elements {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", symbol, sides(r.Result.Original, symbol), sides(r.Result.Final, symbol))
		}
	case r.Verification != nil:
		if r.Verification.Balanced {
			b.WriteString("**balanced**\n\n")
		} else {
			fmt.Fprintf(&b, "**%s**\n\n", message.Unbalanced(r.Verification.Mismatched, locale))
		}
		b.WriteString("| Element | Reactants | Products |\n|---|---|---|\n")
		for _, symbol := range r.Verification.Elements {
			t := r.Verification.Tallies
			fmt.Fprintf(&b, "| %s | %s | %s |\n", symbol, t.Reactants.Count(symbol), t.Products.Count(symbol))
		}
	}
	return b.String()
}

func sides(p chem.TallyPair, symbol string) string {
	return p.Reactants.Count(symbol).String() + " → " + p.Products.Count(symbol).String()
}
