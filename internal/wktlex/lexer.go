// Package wktlex is the token matcher behind the well-known text parser.
//
// The Lexer never backtracks: every Match/Expect call skips leading
// whitespace and either consumes a token or leaves the position unchanged.
package wktlex

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

// ErrParse is returned when an expected token is not found.
var ErrParse = errors.New("parse error")

// Lexer matches tokens against a string from a moving position.
type Lexer struct {
	s   string
	pos int
}

// New returns a Lexer at the start of s.
func New(s string) *Lexer { return &Lexer{s: s} }

// Pos returns the byte offset of the next unread character.
func (l *Lexer) Pos() int { return l.pos }

// AtEnd reports whether only whitespace remains.
func (l *Lexer) AtEnd() bool {
	l.skipSpace()
	return l.pos >= len(l.s)
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.s) && unicode.IsSpace(rune(l.s[l.pos])) {
		l.pos++
	}
}

// Match consumes and returns the first of tokens found at the current
// position. Tokens are case-sensitive.
func (l *Lexer) Match(tokens ...string) (string, bool) {
	l.skipSpace()
	rest := l.s[l.pos:]
	for _, tok := range tokens {
		if strings.HasPrefix(rest, tok) {
			l.pos += len(tok)
			return tok, true
		}
	}
	return "", false
}

// IsMatch is Match without the token.
func (l *Lexer) IsMatch(tokens ...string) bool {
	_, ok := l.Match(tokens...)
	return ok
}

// Errorf builds an ErrParse naming the current position.
func (l *Lexer) Errorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrParse, format+" at offset %d", append(args, l.pos)...)
}

// MatchSRID consumes an optional "SRID=<digits>;" prefix.
func (l *Lexer) MatchSRID() (srid uint32, ok bool, err error) {
	if !l.IsMatch("SRID=") {
		return 0, false, nil
	}
	start := l.pos
	for l.pos < len(l.s) && l.s[l.pos] >= '0' && l.s[l.pos] <= '9' {
		l.pos++
	}
	if start == l.pos {
		return 0, false, l.Errorf("expected SRID digits")
	}
	v, perr := strconv.ParseUint(l.s[start:l.pos], 10, 32)
	if perr != nil {
		return 0, false, l.Errorf("invalid SRID %q", l.s[start:l.pos])
	}
	if !l.IsMatch(";") {
		return 0, false, l.Errorf("expected ';' after SRID")
	}
	return uint32(v), true, nil
}

// MatchDimension consumes an optional ZM, Z or M marker.
func (l *Lexer) MatchDimension() (hasZ, hasM bool) {
	dim, _ := l.Match("ZM", "Z", "M")
	switch dim {
	case "ZM":
		return true, true
	case "Z":
		return true, false
	case "M":
		return false, true
	}
	return false, false
}

func (l *Lexer) ExpectGroupStart() error {
	if !l.IsMatch("(") {
		return l.Errorf("expected '('")
	}
	return nil
}

func (l *Lexer) ExpectGroupEnd() error {
	if !l.IsMatch(")") {
		return l.Errorf("expected ')'")
	}
	return nil
}

func isNumberStop(c byte) bool {
	return c == ',' || c == '(' || c == ')' || unicode.IsSpace(rune(c))
}

// MatchNumber consumes one numeric literal.
func (l *Lexer) MatchNumber() (float64, error) {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.s) && !isNumberStop(l.s[l.pos]) {
		l.pos++
	}
	if start == l.pos {
		return 0, l.Errorf("expected number")
	}
	lit := l.s[start:l.pos]
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		l.pos = start
		return 0, l.Errorf("expected number, found %q", lit)
	}
	return v, nil
}

// MatchCoordinate consumes a tuple of n whitespace-separated numbers.
func (l *Lexer) MatchCoordinate(n int) ([]float64, error) {
	c := make([]float64, n)
	for i := range c {
		v, err := l.MatchNumber()
		if err != nil {
			return nil, errors.Wrapf(err, "coordinate %d of %d", i+1, n)
		}
		c[i] = v
	}
	return c, nil
}

// MatchCoordinates consumes a comma-separated tuple list. Each tuple may be
// wrapped in its own parentheses, as MULTIPOINT((1 2),(3 4)) allows.
func (l *Lexer) MatchCoordinates(n int) ([][]float64, error) {
	var out [][]float64
	for {
		wrapped := l.IsMatch("(")
		c, err := l.MatchCoordinate(n)
		if err != nil {
			return nil, err
		}
		if wrapped {
			if err := l.ExpectGroupEnd(); err != nil {
				return nil, err
			}
		}
		out = append(out, c)
		if !l.IsMatch(",") {
			return out, nil
		}
	}
}
