// Package lr builds LALR(1) parsing tables and drives a shift-reduce parser
// with them.
//
// The pipeline is the textbook one: augment the grammar, build the canonical
// LR(1) collection with CLOSURE/GOTO over lookahead items, merge states that
// share a kernel into the LALR(1) automaton, then fill ACTION/GOTO cells with
// a deterministic conflict policy. Conflicts are collected, never raised, so
// a caller can present the full diagnostic; the table itself is immutable and
// safe to share between parsers.
package lr

import (
	"errors"
	"fmt"
)

// ErrUnconstructed indicates a consumer observed an automaton without its
// augmented start production, i.e. one that did not come out of New.
var ErrUnconstructed = errors.New("LR automaton not constructed")

// SyntaxError reports the configuration at which the driver found no ACTION
// or GOTO entry.
type SyntaxError struct {
	State    int
	Terminal string
	Pos      int
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at token %d: no action for %q in state %d", e.Pos, e.Terminal, e.State)
}
