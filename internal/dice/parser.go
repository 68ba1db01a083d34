// internal/dice/parser.go
//
// Grammar parser for dice expressions.
//
//	Expression      := SignedShorthand Ending | TermList Ending | Ending
//	SignedShorthand := ['-'] Digits              (1d20 plus a modifier)
//	TermList        := Term ('+' Term)*
//	Term            := [Digits] 'd' Digits | ['-'] Digits
//	Ending          := ('a'+ | 'd'+ | ε) ['/' AnyText] END
//	Digits          := '0' | [1-9][0-9]*
//
// Alternatives are ordered: the first one that consumes the whole input
// wins, so "5d" is 1d20+5 with disadvantage rather than a broken dice term.
// On failure the error reports the furthest offset any alternative reached
// together with every token that would have been accepted there.

package dice

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// Parse parses an isolated expression body (direct framing).
func Parse(body string) (Roll, error) {
	p := &parser{src: body, far: -1}
	return p.parse()
}

// TriggeredBody strips the leading r/R marker from free-form text.
// ok is false when the text is not addressed to the roller.
func TriggeredBody(text string) (body string, ok bool) {
	if text == "" || (text[0] != 'r' && text[0] != 'R') {
		return "", false
	}
	return text[1:], true
}

// ParseTriggered parses text that must start with the r/R marker.
// Error offsets are relative to text, marker included.
func ParseTriggered(text string) (Roll, error) {
	body, ok := TriggeredBody(text)
	if !ok {
		return Roll{}, SyntaxErrors{{Pos: 0, Found: firstRune(text), Expected: []string{"'r'", "'R'"}}}
	}
	roll, err := Parse(body)
	if errs, isSyntax := err.(SyntaxErrors); isSyntax {
		for _, e := range errs {
			e.Pos++
		}
	}
	return roll, err
}

// maxDigits bounds how far a number is accumulated before it is known to
// be out of range; the digits are still consumed.
const maxDigits = 1 << 40

type parser struct {
	src string
	pos int

	far      int      // furthest offset where a token was expected
	expected []string // labels expected at far

	ranges []*SyntaxError // out-of-range numbers on the current path
}

type mark struct{ pos, ranges int }

func (p *parser) mark() mark     { return mark{p.pos, len(p.ranges)} }
func (p *parser) reset(m mark)   { p.pos, p.ranges = m.pos, p.ranges[:m.ranges] }
func (p *parser) eof() bool      { return p.pos >= len(p.src) }
func (p *parser) at(c byte) bool { return !p.eof() && p.src[p.pos] == c }

func (p *parser) atDigit() bool {
	return !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9'
}

func firstRune(s string) string {
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}

func (p *parser) parse() (Roll, error) {
	for _, alt := range []func() (Roll, bool){p.shorthand, p.termList, p.bareEnding} {
		p.reset(mark{})
		if roll, ok := alt(); ok {
			if len(p.ranges) > 0 {
				return Roll{}, SyntaxErrors(append([]*SyntaxError(nil), p.ranges...))
			}
			return roll, nil
		}
	}
	return Roll{}, SyntaxErrors{{
		Pos:      p.far,
		Found:    firstRune(p.src[p.far:]),
		Expected: p.expected,
	}}
}

// expect records that label would have been accepted at the current offset.
func (p *parser) expect(label string) {
	switch {
	case p.pos > p.far:
		p.far = p.pos
		p.expected = []string{label}
	case p.pos == p.far:
		for _, l := range p.expected {
			if l == label {
				return
			}
		}
		p.expected = append(p.expected, label)
	}
}

func (p *parser) match(c byte) bool {
	if p.at(c) {
		p.pos++
		return true
	}
	p.expect(quote(c))
	return false
}

func quote(c byte) string { return "'" + string(c) + "'" }

// shorthand: a bare signed number means 1d20 plus that modifier.
func (p *parser) shorthand() (Roll, bool) {
	lit, ok := p.signed()
	if !ok {
		return Roll{}, false
	}
	adv, ok := p.ending()
	if !ok {
		return Roll{}, false
	}
	return Roll{Terms: []Term{Dice{Count: 1, Size: 20}, lit}, Advantage: adv}, true
}

func (p *parser) termList() (Roll, bool) {
	first, ok := p.term()
	if !ok {
		return Roll{}, false
	}
	terms := []Term{first}
	for {
		m := p.mark()
		if !p.match('+') {
			break
		}
		t, ok := p.term()
		if !ok {
			p.reset(m)
			break
		}
		terms = append(terms, t)
	}
	adv, ok := p.ending()
	if !ok {
		return Roll{}, false
	}
	return Roll{Terms: terms, Advantage: adv}, true
}

// bareEnding: no terms at all means a single d20.
func (p *parser) bareEnding() (Roll, bool) {
	adv, ok := p.ending()
	if !ok {
		return Roll{}, false
	}
	return Roll{Terms: []Term{Dice{Count: 1, Size: 20}}, Advantage: adv}, true
}

func (p *parser) term() (Term, bool) {
	m := p.mark()
	count := uint32(1)
	if p.atDigit() {
		n, _ := p.unsigned()
		count = n
	} else {
		p.expect("digit")
	}
	if p.match('d') {
		if size, ok := p.unsigned(); ok {
			return Dice{Count: count, Size: size}, true
		}
	}
	p.reset(m)
	lit, ok := p.signed()
	if !ok {
		return nil, false
	}
	return lit, true
}

func (p *parser) signed() (Literal, bool) {
	start := p.pos
	neg := p.at('-')
	if neg {
		p.pos++
	} else {
		p.expect("'-'")
	}
	v, ok := p.digits()
	if !ok {
		return 0, false
	}
	if neg {
		if v > -math.MinInt32 {
			p.outOfRange(start)
			return 0, true
		}
		return Literal(-int64(v)), true
	}
	if v > math.MaxInt32 {
		p.outOfRange(start)
		return 0, true
	}
	return Literal(v), true
}

func (p *parser) unsigned() (uint32, bool) {
	start := p.pos
	v, ok := p.digits()
	if !ok {
		return 0, false
	}
	if v > math.MaxUint32 {
		p.outOfRange(start)
		return 0, true
	}
	return uint32(v), true
}

// digits reads '0' or a run of digits without a leading zero.
func (p *parser) digits() (uint64, bool) {
	if p.at('0') {
		p.pos++
		return 0, true
	}
	if !p.atDigit() {
		p.expect("digit")
		return 0, false
	}
	var v uint64
	for p.atDigit() {
		if v < maxDigits {
			v = v*10 + uint64(p.src[p.pos]-'0')
		}
		p.pos++
	}
	return v, true
}

func (p *parser) outOfRange(start int) {
	p.ranges = append(p.ranges, &SyntaxError{
		Pos: start,
		Msg: fmt.Sprintf("number %s is out of range", p.src[start:p.pos]),
	})
}

// ending parses the advantage run, an optional /comment and end of input.
func (p *parser) ending() (int, bool) {
	adv := 0
	if n := p.run('a'); n > 0 {
		adv = n
	} else if n := p.run('d'); n > 0 {
		adv = -n
	}
	if p.at('/') {
		p.pos = len(p.src)
	} else {
		p.expect("'/'")
	}
	if !p.eof() {
		p.expect("end of input")
		return 0, false
	}
	return adv, true
}

func (p *parser) run(c byte) int {
	n := 0
	for p.at(c) {
		p.pos++
		n++
	}
	p.expect(quote(c))
	return n
}
