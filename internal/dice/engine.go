// internal/dice/engine.go
//
// Evaluation engine for parsed rolls.
// Responsibilities:
//   - Validate a Roll before any randomness is drawn.
//   - Evaluate single terms (dice groups and literals) into TrialOutcomes.
//   - Fold the terms of one trial left to right, then repeat the trial
//     once per advantage step.
//   - Select the governing trial: highest sum for advantage, lowest for
//     disadvantage, leftmost on ties.

package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyRoll is returned for a Roll without terms. Parse never produces one.
var ErrEmptyRoll = errors.New("roll has no terms")

// Validate checks the semantic rules the grammar cannot express.
func Validate(r Roll) error {
	if len(r.Terms) == 0 {
		return ErrEmptyRoll
	}
	for _, t := range r.Terms {
		if d, ok := t.(Dice); ok && d.Size == 0 {
			return ErrZeroFaces
		}
	}
	return nil
}

// Evaluate rolls every trial of r and selects the governing one.
func Evaluate(r Roll, src Source) (RollResult, error) {
	if err := Validate(r); err != nil {
		return RollResult{}, err
	}
	trials := make([]TrialOutcome, r.Trials())
	for i := range trials {
		trials[i] = runTrial(r.Terms, src)
	}
	return RollResult{Trials: trials, Selected: selectTrial(trials, r.Advantage)}, nil
}

// EvaluateTerm draws a single term once.
func EvaluateTerm(t Term, src Source) (TrialOutcome, error) {
	if d, ok := t.(Dice); ok && d.Size == 0 {
		return TrialOutcome{}, ErrZeroFaces
	}
	return evaluateTerm(t, src), nil
}

func runTrial(terms []Term, src Source) TrialOutcome {
	acc := TrialOutcome{Maximality: Extreme}
	for _, t := range terms {
		acc = acc.fold(evaluateTerm(t, src))
	}
	return acc
}

// fold appends one evaluated term to a running trial.
func (acc TrialOutcome) fold(term TrialOutcome) TrialOutcome {
	text := term.Text
	if acc.Text != "" {
		text = acc.Text + " + " + term.Text
	}
	return TrialOutcome{
		Sum:        acc.Sum + term.Sum,
		Text:       text,
		Maximality: acc.Maximality.And(term.Maximality),
		Units:      acc.Units + term.Units,
	}
}

func evaluateTerm(t Term, src Source) TrialOutcome {
	switch t := t.(type) {
	case Dice:
		return rollDice(t, src)
	case Literal:
		return TrialOutcome{
			Sum:        int64(t),
			Text:       t.String(),
			Maximality: Extreme,
			Units:      1,
		}
	default:
		panic(fmt.Sprintf("dice: unhandled term %T", t))
	}
}

// rollDice draws d.Count faces in [1, d.Size]. d.Size must be non-zero.
func rollDice(d Dice, src Source) TrialOutcome {
	out := TrialOutcome{Maximality: Extreme}
	var b strings.Builder
	for i := uint32(0); i < d.Count; i++ {
		v := src.Uint32N(d.Size) + 1
		out.Sum += int64(v)
		out.Maximality = out.Maximality.And(Maximality{Max: v == d.Size, Min: v == 1})
		out.Units++

		if i > 0 {
			b.WriteByte(' ')
		}
		if Notable(v, d.Size) {
			b.WriteString("**" + strconv.FormatUint(uint64(v), 10) + "**")
		} else {
			b.WriteString(strconv.FormatUint(uint64(v), 10))
		}
	}
	out.Text = b.String()
	return out
}

// Notable reports whether a face is worth highlighting: a 1 or the top
// face. A one-sided die is always both, so it is never highlighted.
//
//	size == 1            -> false
//	v == 1 || v == size  -> true
//	otherwise            -> false
func Notable(v, size uint32) bool {
	if size <= 1 {
		return false
	}
	return v == 1 || v == size
}

func selectTrial(trials []TrialOutcome, advantage int) int {
	best := 0
	for i := 1; i < len(trials); i++ {
		if advantage >= 0 && trials[i].Sum > trials[best].Sum ||
			advantage < 0 && trials[i].Sum < trials[best].Sum {
			best = i
		}
	}
	return best
}
