// Package dfa provides deterministic automata derived from NFAs: subset
// construction for single patterns, a prioritized multi-pattern token DFA,
// and table-filling minimization.
//
// DFA states are arena-allocated with dense ids assigned in creation order.
// Determinism is load-bearing: the alphabet is iterated sorted and NFA state
// sets are keyed by canonical sorted id vectors, so equal inputs always
// produce identical state ids.
package dfa

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coregx/parsekit/nfa"
)

// StateID uniquely identifies a DFA state within its automaton.
type StateID uint32

// InvalidState represents an invalid/unset state ID.
const InvalidState StateID = 0xFFFFFFFF

// Label is the accept label of a token DFA state: the token type and priority
// of the rule that won the state, plus the rule's declaration index, which is
// the tie-break of last resort and keeps relabeling deterministic.
type Label struct {
	Type     string
	Priority int
	Rule     int
}

// State is a single DFA state. It remembers the set of NFA states it stands
// for (sorted, ε-closed), its transitions, and its accept label if any.
// States are never mutated after construction.
type State struct {
	id    StateID
	set   []nfa.StateID
	final bool
	label *Label
	trans map[rune]StateID
}

// ID returns the state's unique identifier
func (s *State) ID() StateID {
	return s.id
}

// IsFinal returns true if this is an accepting state
func (s *State) IsFinal() bool {
	return s.final
}

// Label returns the accept label, or nil for non-accepting states and for
// single-pattern DFAs.
func (s *State) Label() *Label {
	return s.label
}

// Set returns the sorted NFA state ids this DFA state represents.
func (s *State) Set() []nfa.StateID {
	return s.set
}

// Next returns the target of the transition on r, if present.
func (s *State) Next(r rune) (StateID, bool) {
	t, ok := s.trans[r]
	return t, ok
}

// DFA is an immutable deterministic automaton.
type DFA struct {
	states   []State
	start    StateID
	alphabet []rune
}

// Start returns the start state id.
func (d *DFA) Start() StateID {
	return d.start
}

// States returns the number of states.
func (d *DFA) States() int {
	return len(d.states)
}

// State returns the state with the given id, or nil if out of range.
func (d *DFA) State(id StateID) *State {
	if int(id) >= len(d.states) {
		return nil
	}
	return &d.states[id]
}

// Alphabet returns the sorted rune alphabet the automaton was built over.
func (d *DFA) Alphabet() []rune {
	return d.alphabet
}

// Next runs one transition from the given state, reporting whether it exists.
func (d *DFA) Next(from StateID, r rune) (StateID, bool) {
	t, ok := d.states[from].trans[r]
	return t, ok
}

// MatchString runs the DFA over input and reports whether it ends in an
// accepting state. A missing transition rejects immediately.
func (d *DFA) MatchString(input string) bool {
	q := d.start
	for _, r := range input {
		next, ok := d.states[q].trans[r]
		if !ok {
			return false
		}
		q = next
	}
	return d.states[q].final
}

// String renders states, labels, and transitions, one state per line.
func (d *DFA) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "start=%d\n", d.start)
	for i := range d.states {
		s := &d.states[i]
		marker := " "
		if s.final {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s%d", marker, s.id)
		if s.label != nil {
			fmt.Fprintf(&sb, "(%s/%d)", s.label.Type, s.label.Priority)
		}
		sb.WriteByte(':')
		for _, r := range d.alphabet {
			if t, ok := s.trans[r]; ok {
				fmt.Fprintf(&sb, " %q->%d", r, t)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// setKey canonicalizes a sorted NFA state set into a map key. Identity-based
// keys are forbidden: they would make state ids depend on allocation order.
func setKey(set []nfa.StateID) string {
	var sb strings.Builder
	for i, id := range set {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", id)
	}
	return sb.String()
}

// sortedIDs converts a sparse-set snapshot into a sorted id slice.
func sortedIDs(values []uint32) []nfa.StateID {
	ids := make([]nfa.StateID, len(values))
	for i, v := range values {
		ids[i] = nfa.StateID(v)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
