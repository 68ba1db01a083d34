package dice

import (
	"strconv"
	"strings"
)

// Render formats every trial in order. Trials that do not count are struck
// through with ~~; a trial with more than one unit shows " = sum", bolded
// when every unit landed on the same extreme.
func (r RollResult) Render() string {
	var b strings.Builder
	for i, t := range r.Trials {
		delim := "~~"
		if i == r.Selected {
			delim = ""
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(delim)
		b.WriteString(t.Text)
		if t.Units > 1 {
			b.WriteString(" = ")
			sum := strconv.FormatInt(t.Sum, 10)
			if t.Maximality.Uniform() {
				sum = "**" + sum + "**"
			}
			b.WriteString(sum)
		}
		b.WriteString(delim)
	}
	return b.String()
}

func (r RollResult) String() string { return r.Render() }

// Interpret parses, evaluates and renders a direct-framing expression.
// The error text joins every syntax problem with "; ".
func Interpret(expr string, src Source) (string, error) {
	roll, err := Parse(expr)
	if err != nil {
		return "", err
	}
	res, err := Evaluate(roll, src)
	if err != nil {
		return "", err
	}
	return res.Render(), nil
}
