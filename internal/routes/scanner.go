package routes

import (
	"fmt"
	"strings"
)

// scanner walks the body of a Python dict literal of string pairs.
type scanner struct {
	src  string
	pos  int
	line int
}

func (s *scanner) eof() bool  { return s.pos >= len(s.src) }
func (s *scanner) peek() byte { return s.src[s.pos] }

func (s *scanner) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, s.line, fmt.Sprintf(format, args...))
}

// skipSpace skips whitespace and # comments.
func (s *scanner) skipSpace() {
	for !s.eof() {
		switch c := s.peek(); c {
		case '\n':
			s.line++
			s.pos++
		case ' ', '\t', '\r':
			s.pos++
		case '#':
			for !s.eof() && s.peek() != '\n' {
				s.pos++
			}
		default:
			return
		}
	}
}

// Python escapes decoded inside registry strings. Numeric and named escapes
// are rejected.
var simpleEscapes = map[byte]byte{
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
}

// readString reads a single- or double-quoted string literal.
func (s *scanner) readString() (string, error) {
	if s.eof() {
		return "", s.errorf("expected string, found end of file")
	}
	q := s.peek()
	if q != '"' && q != '\'' {
		return "", s.errorf("expected quoted string, found %q", q)
	}
	s.pos++

	var b strings.Builder
	for !s.eof() {
		c := s.peek()
		switch {
		case c == q:
			s.pos++
			return b.String(), nil
		case c == '\n':
			return "", s.errorf("newline in string literal")
		case c == '\\':
			if s.pos+1 >= len(s.src) {
				return "", s.errorf("unterminated string literal")
			}
			e := s.src[s.pos+1]
			s.pos += 2
			if e == '\n' {
				// Line continuation.
				s.line++
				continue
			}
			r, ok := simpleEscapes[e]
			if !ok {
				return "", s.errorf("unsupported escape sequence \\%c", e)
			}
			b.WriteByte(r)
		default:
			b.WriteByte(c)
			s.pos++
		}
	}
	return "", s.errorf("unterminated string literal")
}
