package dfa

import (
	"github.com/coregx/parsekit/internal/sparse"
	"github.com/coregx/parsekit/nfa"
)

// TokenRule associates a final NFA state with the token it accepts.
// Rules are given in declaration order; the index into the slice breaks
// priority ties.
type TokenRule struct {
	Final    nfa.StateID
	Type     string
	Priority int
}

// Determinize builds a DFA from n by subset construction over the sorted
// alphabet sigma. The initial state is the ε-closure of the NFA start; a DFA
// state is final iff its set contains a final NFA state.
func Determinize(n *nfa.NFA, sigma []rune) *DFA {
	return determinize(n, nil, sigma)
}

// DeterminizeTokens builds a multi-pattern token DFA. n must be a merged
// machine whose start state has ε-edges to every rule's fragment. Accepting
// states are labeled with the matching rule of strictly greatest priority;
// on ties the first-declared rule is retained.
func DeterminizeTokens(n *nfa.NFA, rules []TokenRule, sigma []rune) *DFA {
	return determinize(n, rules, sigma)
}

type determinizer struct {
	n     *nfa.NFA
	rules []TokenRule
	sigma []rune

	states []State
	byKey  map[string]StateID
	queue  []StateID

	// scratch sets reused across closure computations
	work *sparse.Set
}

func determinize(n *nfa.NFA, rules []TokenRule, sigma []rune) *DFA {
	d := &determinizer{
		n:     n,
		rules: rules,
		sigma: sigma,
		byKey: make(map[string]StateID),
		work:  sparse.NewSet(uint32(n.States())),
	}

	d.work.Clear()
	d.work.Insert(uint32(n.Start()))
	n.EpsilonClosure(d.work)
	start := d.getOrCreate(sortedIDs(d.work.Values()))

	for len(d.queue) > 0 {
		cur := d.queue[0]
		d.queue = d.queue[1:]

		for _, symbol := range d.sigma {
			target := d.closureOfMove(cur, symbol)
			if target == nil {
				continue
			}
			t := d.getOrCreate(target)
			d.states[cur].trans[symbol] = t
		}
	}

	return &DFA{states: d.states, start: start, alphabet: sigma}
}

// closureOfMove computes ε-closure(move(set(cur), symbol)) as a sorted id
// slice, or nil when the move set is empty.
func (d *determinizer) closureOfMove(cur StateID, symbol rune) []nfa.StateID {
	d.work.Clear()
	for _, id := range d.states[cur].set {
		for _, tr := range d.n.State(id).Out() {
			if !tr.Epsilon && tr.Symbol == symbol {
				d.work.Insert(uint32(tr.Target))
			}
		}
	}
	if d.work.IsEmpty() {
		return nil
	}
	d.n.EpsilonClosure(d.work)
	return sortedIDs(d.work.Values())
}

// getOrCreate returns the DFA state for an ε-closed NFA state set, creating
// and enqueueing it on first sight. Ids are assigned in creation order.
func (d *determinizer) getOrCreate(set []nfa.StateID) StateID {
	key := setKey(set)
	if id, ok := d.byKey[key]; ok {
		return id
	}

	id := StateID(len(d.states))
	d.states = append(d.states, State{
		id:    id,
		set:   set,
		final: d.anyFinal(set),
		label: d.labelFor(set),
		trans: make(map[rune]StateID),
	})
	d.byKey[key] = id
	d.queue = append(d.queue, id)
	return id
}

func (d *determinizer) anyFinal(set []nfa.StateID) bool {
	for _, id := range set {
		if d.n.State(id).IsFinal() {
			return true
		}
	}
	return false
}

// labelFor picks the accept label among all rules whose final state is in
// set: strictly greatest priority wins, ties keep the first-declared rule.
// Nil for non-accepting sets and for single-pattern construction.
func (d *determinizer) labelFor(set []nfa.StateID) *Label {
	if d.rules == nil {
		return nil
	}

	member := make(map[nfa.StateID]bool, len(set))
	for _, id := range set {
		member[id] = true
	}

	var best *Label
	for i, rule := range d.rules {
		if !member[rule.Final] {
			continue
		}
		if best == nil || rule.Priority > best.Priority {
			best = &Label{Type: rule.Type, Priority: rule.Priority, Rule: i}
		}
	}
	return best
}
