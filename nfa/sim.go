package nfa

import "github.com/coregx/parsekit/internal/sparse"

// EpsilonClosure expands the given set in place with every state reachable
// through ε-transitions. The worklist never revisits a member, so cyclic
// ε-edges terminate.
func (n *NFA) EpsilonClosure(set *sparse.Set) {
	// Values() grows as we insert; index-walking it doubles as the worklist.
	for i := 0; i < set.Len(); i++ {
		id := StateID(set.Values()[i])
		for _, tr := range n.states[id].out {
			if tr.Epsilon {
				set.Insert(uint32(tr.Target))
			}
		}
	}
}

// move inserts into next every state reachable from active on symbol.
func (n *NFA) move(active *sparse.Set, symbol rune, next *sparse.Set) {
	for _, v := range active.Values() {
		for _, tr := range n.states[v].out {
			if !tr.Epsilon && tr.Symbol == symbol {
				next.Insert(uint32(tr.Target))
			}
		}
	}
}

// MatchString simulates the NFA on input and reports whether it accepts.
// The active set starts as the ε-closure of the start state; each rune maps
// it through move then ε-closure.
func (n *NFA) MatchString(input string) bool {
	active := sparse.NewSet(uint32(len(n.states)))
	next := sparse.NewSet(uint32(len(n.states)))

	active.Insert(uint32(n.start))
	n.EpsilonClosure(active)

	for _, r := range input {
		next.Clear()
		n.move(active, r, next)
		n.EpsilonClosure(next)
		active, next = next, active
	}

	for _, v := range active.Values() {
		if n.states[v].final {
			return true
		}
	}
	return false
}
