package metabolic

import (
	"fmt"
	"strconv"
	"unicode"
)

// ParseFormula parses a chemical formula such as "C6H12O6", "C10H12N5O13P3"
// or "Ca(OH)2" into element counts. Counts may be fractional ("C1.5H3").
// An empty formula yields an empty map.
func ParseFormula(formula string) (map[string]float64, error) {
	p := formulaParser{src: []rune(formula)}
	out, err := p.group()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: %q: unexpected %q at %d", ErrInvalidFormula, formula, p.src[p.pos], p.pos)
	}

	return out, nil
}

type formulaParser struct {
	src []rune
	pos int
}

// group parses a sequence of elements and parenthesised groups up to ')'
// or end of input.
func (p *formulaParser) group() (map[string]float64, error) {
	out := make(map[string]float64)
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		switch {
		case r == ')':
			return out, nil
		case r == '(':
			p.pos++
			inner, err := p.group()
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.src) || p.src[p.pos] != ')' {
				return nil, fmt.Errorf("%w: %q: unbalanced parenthesis", ErrInvalidFormula, string(p.src))
			}
			p.pos++
			n, err := p.count()
			if err != nil {
				return nil, err
			}
			for el, c := range inner {
				out[el] += c * n
			}
		case unicode.IsUpper(r):
			start := p.pos
			p.pos++
			for p.pos < len(p.src) && unicode.IsLower(p.src[p.pos]) {
				p.pos++
			}
			el := string(p.src[start:p.pos])
			n, err := p.count()
			if err != nil {
				return nil, err
			}
			out[el] += n
		default:
			return nil, fmt.Errorf("%w: %q: unexpected %q at %d", ErrInvalidFormula, string(p.src), r, p.pos)
		}
	}

	return out, nil
}

// count parses an optional non-negative multiplier; absent means 1.
func (p *formulaParser) count() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) && (unicode.IsDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 1, nil
	}
	n, err := strconv.ParseFloat(string(p.src[start:p.pos]), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: bad count %q", ErrInvalidFormula, string(p.src), string(p.src[start:p.pos]))
	}

	return n, nil
}
