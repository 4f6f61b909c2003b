// Package formula parses R-style model formulas such as
//
//	log_sale_price ~ gr_liv_area + neighborhood + gr_liv_area:year_built
//	log_sale_price ~ .
//
// into a response name and a list of terms. `+` separates terms, `:` forms
// an interaction, `*` is two-variable shorthand for both main effects plus
// their interaction, and `.` stands for every column not otherwise
// mentioned.
package formula

import (
	"strings"
	"unicode"

	"github.com/amesfit/amesfit/pkg/errors"
)

// Term is one additive term of a formula. A single variable is a main
// effect; multiple variables form an interaction whose design column is
// their product.
type Term struct {
	Variables []string
}

// Name returns the display name of the term, "a:b" for interactions.
func (t Term) Name() string {
	return strings.Join(t.Variables, ":")
}

// Formula is a parsed model formula.
type Formula struct {
	Raw      string
	Response string
	Terms    []Term
	Dot      bool
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokTilde
	tokPlus
	tokColon
	tokStar
	tokDot
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lex(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case c == '~':
			toks = append(toks, token{kind: tokTilde, pos: i})
			i++
		case c == '+':
			toks = append(toks, token{kind: tokPlus, pos: i})
			i++
		case c == ':':
			toks = append(toks, token{kind: tokColon, pos: i})
			i++
		case c == '*':
			toks = append(toks, token{kind: tokStar, pos: i})
			i++
		case c == '.':
			toks = append(toks, token{kind: tokDot, pos: i})
			i++
		case isIdentStart(rune(c)):
			start := i
			for i < len(s) && isIdentPart(rune(s[i])) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: s[start:i], pos: start})
		default:
			return nil, errors.NewFormulaError(s, i, "unexpected character "+string(c))
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(s)})
	return toks, nil
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

type parser struct {
	raw  string
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) fail(pos int, msg string) error {
	return errors.NewFormulaError(p.raw, pos, msg)
}

// Parse parses a formula string.
func Parse(s string) (*Formula, error) {
	toks, err := lex(s)
	if err != nil {
		return nil, err
	}
	p := &parser{raw: s, toks: toks}

	resp := p.next()
	if resp.kind != tokIdent {
		return nil, p.fail(resp.pos, "expected a response variable before ~")
	}
	tilde := p.next()
	if tilde.kind != tokTilde {
		return nil, p.fail(tilde.pos, "expected ~ after the response variable")
	}

	f := &Formula{Raw: s, Response: resp.text}
	seen := map[string]struct{}{}

	if p.peek().kind == tokEOF {
		return nil, p.fail(p.peek().pos, "formula has no right-hand side")
	}

	for {
		terms, isDot, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if isDot {
			f.Dot = true
		}
		for _, t := range terms {
			name := t.Name()
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			f.Terms = append(f.Terms, t)
		}

		sep := p.next()
		switch sep.kind {
		case tokPlus:
			// continue with the next term
		case tokEOF:
			return f, nil
		default:
			return nil, p.fail(sep.pos, "expected + between terms")
		}
	}
}

// parseTerm parses one `+`-separated term, expanding `a*b` into its three
// implied terms.
func (p *parser) parseTerm() ([]Term, bool, error) {
	first := p.next()
	if first.kind == tokDot {
		return nil, true, nil
	}
	if first.kind != tokIdent {
		return nil, false, p.fail(first.pos, "expected a variable name")
	}

	vars := []string{first.text}
	crossed := false
	for {
		op := p.peek()
		if op.kind != tokColon && op.kind != tokStar {
			break
		}
		p.next()
		if op.kind == tokStar {
			crossed = true
		}
		v := p.next()
		if v.kind != tokIdent {
			return nil, false, p.fail(v.pos, "expected a variable name after "+opText(op.kind))
		}
		vars = append(vars, v.text)
	}

	if !crossed {
		return []Term{{Variables: vars}}, false, nil
	}
	// Higher-order crossing would owe every pairwise interaction too;
	// only the two-variable form is supported.
	if len(vars) > 2 {
		return nil, false, p.fail(first.pos, "* crossing supports exactly two variables; spell out higher-order terms with :")
	}

	// a*b expands to a + b + a:b; keep the expansion order stable.
	out := make([]Term, 0, len(vars)+1)
	for _, v := range vars {
		out = append(out, Term{Variables: []string{v}})
	}
	out = append(out, Term{Variables: vars})
	return out, false, nil
}

func opText(k tokenKind) string {
	if k == tokStar {
		return "*"
	}
	return ":"
}

// ResolveDot expands a trailing `.` against the table's column names: every
// column that is not the response and not already a main effect is added as
// one. Column order is preserved.
func (f *Formula) ResolveDot(columns []string) []Term {
	if !f.Dot {
		return f.Terms
	}
	used := map[string]struct{}{f.Response: {}}
	for _, t := range f.Terms {
		if len(t.Variables) == 1 {
			used[t.Variables[0]] = struct{}{}
		}
	}
	terms := append([]Term(nil), f.Terms...)
	for _, c := range columns {
		if _, ok := used[c]; ok {
			continue
		}
		terms = append(terms, Term{Variables: []string{c}})
	}
	return terms
}
