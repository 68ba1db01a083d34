package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrZeroFaces is returned when a dice term has no faces to land on.
var ErrZeroFaces = errors.New("cannot roll dice of size 0")

// SyntaxError describes one point where the input stopped matching the grammar.
type SyntaxError struct {
	Pos      int      // byte offset into the parsed text
	Found    string   // offending character, empty at end of input
	Expected []string // token labels that would have been accepted
	Msg      string   // set for errors that are not a token mismatch
}

func (e *SyntaxError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s at %d", e.Msg, e.Pos)
	}
	found := "end of input"
	if e.Found != "" {
		found = strconv.Quote(e.Found)
	}
	if len(e.Expected) == 0 {
		return fmt.Sprintf("found %s at %d", found, e.Pos)
	}
	return fmt.Sprintf("found %s at %d, expected %s", found, e.Pos, joinExpected(e.Expected))
}

func joinExpected(labels []string) string {
	switch len(labels) {
	case 1:
		return labels[0]
	case 2:
		return labels[0] + " or " + labels[1]
	}
	return strings.Join(labels[:len(labels)-1], ", ") + " or " + labels[len(labels)-1]
}

// SyntaxErrors is the non-empty list of problems found by a failed parse.
type SyntaxErrors []*SyntaxError

func (es SyntaxErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// IsSyntax reports whether err came from the grammar rather than validation.
func IsSyntax(err error) bool {
	var se SyntaxErrors
	return errors.As(err, &se)
}
