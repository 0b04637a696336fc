package legacy

import (
	"errors"
	"fmt"
	"strconv"
)

// scanner reads typed values from a token list.
// Like a format scan it stops at the first value that does not convert;
// count is the number of values read before that point.
type scanner struct {
	tokens []token
	pos    int
	count  int
	err    error
}

func newScanner(tokens []token) *scanner {
	return &scanner{tokens: tokens}
}

func (s *scanner) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *scanner) ok() bool {
	return s.err == nil
}

func (s *scanner) remaining() []token {
	if s.pos >= len(s.tokens) {
		return nil
	}
	return s.tokens[s.pos:]
}

func (s *scanner) next() (token, bool) {
	if !s.ok() {
		return token{}, false
	}
	if s.pos >= len(s.tokens) {
		s.fail(fmt.Errorf("expected %d or more values", s.count+1))
		return token{}, false
	}
	t := s.tokens[s.pos]
	s.pos++
	return t, true
}

// skip consumes a token without counting it
func (s *scanner) skip() {
	s.next()
}

// literal consumes a token that must equal want; it is not counted
func (s *scanner) literal(want string) {
	t, ok := s.next()
	if ok && t.Value != want {
		s.fail(fmt.Errorf("expected %q, got %q", want, t.Value))
	}
}

// str reads a bounded string (quoted or bare)
func (s *scanner) str(field string, max int) string {
	t, ok := s.next()
	if !ok {
		return ""
	}
	if len(t.Value) > max {
		s.fail(&LengthError{Field: field, Max: max, Got: len(t.Value)})
		return ""
	}
	s.count++
	return t.Value
}

// integer reads a signed decimal integer
func (s *scanner) integer(field string) int {
	t, ok := s.next()
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(t.Value)
	if err != nil {
		s.fail(fmt.Errorf("%s: invalid integer %q", field, t.Value))
		return 0
	}
	s.count++
	return v
}

// char reads a single character token
func (s *scanner) char(field string) byte {
	t, ok := s.next()
	if !ok {
		return 0
	}
	if len(t.Value) != 1 {
		s.fail(fmt.Errorf("%s: expected a single character, got %q", field, t.Value))
		return 0
	}
	s.count++
	return t.Value[0]
}

// chars reads up to len(dst) characters packed into one token. Each
// character counts as one value; a short token stops the scan after the
// characters it does have.
func (s *scanner) chars(field string, dst ...*byte) {
	t, ok := s.next()
	if !ok {
		return
	}
	for i, d := range dst {
		if i >= len(t.Value) {
			s.fail(fmt.Errorf("%s: expected %d characters, got %q", field, len(dst), t.Value))
			return
		}
		*d = t.Value[i]
		s.count++
	}
	if len(t.Value) > len(dst) {
		s.fail(fmt.Errorf("%s: expected %d characters, got %q", field, len(dst), t.Value))
	}
}

// flag reads a Y/N character
func (s *scanner) flag(field string) bool {
	c := s.char(field)
	if !s.ok() {
		return false
	}
	switch c {
	case 'Y':
		return true
	case 'N':
		return false
	default:
		s.count--
		s.fail(fmt.Errorf("%s: expected Y or N, got %q", field, c))
		return false
	}
}

// optional reports whether another token is available
func (s *scanner) optional() bool {
	return s.ok() && s.pos < len(s.tokens)
}

// result checks the value count against the grammar minimum
func (s *scanner) result(min int) error {
	if errors.Is(s.err, ErrLengthExceeded) {
		return s.err
	}
	if s.count >= min {
		return nil
	}
	if s.err != nil {
		return fmt.Errorf("read %d of %d values: %w", s.count, min, s.err)
	}
	return fmt.Errorf("read %d of %d values", s.count, min)
}
