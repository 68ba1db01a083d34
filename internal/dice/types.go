// internal/dice/types.go
//
// Core type definitions for the dice engine.
// Defines:
//   - Term: one additive component of an expression (Dice or Literal).
//   - Roll: the parsed expression (terms + advantage).
//   - Maximality: per-unit record of whether every die hit an extreme face.
//   - TrialOutcome / RollResult: evaluated trials and the governing selection.

package dice

import (
	"fmt"
	"strings"
)

// Term is one additive component of an expression.
// The set of implementations is closed: Dice and Literal.
type Term interface {
	isTerm()
	fmt.Stringer
}

// Dice is a group of like-sized dice, e.g. 2d6.
type Dice struct {
	Count uint32 // number of dice; zero yields an empty sub-roll
	Size  uint32 // faces per die; zero is rejected before evaluation
}

// Literal is a fixed signed modifier.
type Literal int32

func (Dice) isTerm()    {}
func (Literal) isTerm() {}

func (d Dice) String() string    { return fmt.Sprintf("%dd%d", d.Count, d.Size) }
func (l Literal) String() string { return fmt.Sprintf("%d", int32(l)) }

// Roll is a parsed dice expression.
type Roll struct {
	Terms []Term
	// Advantage > 0 keeps the best of Advantage+1 trials, < 0 keeps the
	// worst of -Advantage+1 trials, 0 rolls once.
	Advantage int
}

// Trials reports how many independent trials the roll evaluates.
func (r Roll) Trials() int {
	if r.Advantage < 0 {
		return -r.Advantage + 1
	}
	return r.Advantage + 1
}

// DiceCount is the number of dice drawn by a single trial.
func (r Roll) DiceCount() uint64 {
	var n uint64
	for _, t := range r.Terms {
		if d, ok := t.(Dice); ok {
			n += uint64(d.Count)
		}
	}
	return n
}

// String renders the roll back in canonical notation (1d20+5aa).
func (r Roll) String() string {
	var b strings.Builder
	for i, t := range r.Terms {
		if i > 0 {
			b.WriteByte('+')
		}
		b.WriteString(t.String())
	}
	switch {
	case r.Advantage > 0:
		b.WriteString(strings.Repeat("a", r.Advantage))
	case r.Advantage < 0:
		b.WriteString(strings.Repeat("d", -r.Advantage))
	}
	return b.String()
}

// Maximality tracks whether every die in a unit landed on its maximum
// (Max) or on 1 (Min). Literals and empty groups are both.
type Maximality struct {
	Max bool
	Min bool
}

// Extreme is the starting state before any die is folded in.
var Extreme = Maximality{Max: true, Min: true}

// And combines two units: the result is extreme only where both are.
func (m Maximality) And(o Maximality) Maximality {
	return Maximality{Max: m.Max && o.Max, Min: m.Min && o.Min}
}

// Uniform reports a clean all-maximum or all-minimum result. A unit that
// is trivially both (a literal) is not uniform.
func (m Maximality) Uniform() bool { return m.Max != m.Min }

// TrialOutcome is one evaluated trial of a roll.
type TrialOutcome struct {
	Sum        int64
	Text       string
	Maximality Maximality
	Units      uint64 // dice drawn plus one per literal
}

// RollResult holds every trial of a roll and the index of the one that counts.
type RollResult struct {
	Trials   []TrialOutcome
	Selected int
}

// Total is the sum of the governing trial.
func (r RollResult) Total() int64 { return r.Trials[r.Selected].Sum }
