package lr

import (
	"fmt"
	"strings"

	"github.com/coregx/parsekit/grammar"
)

// Automaton is a collection of LR(1) item sets with labeled transitions:
// either the canonical LR(1) collection produced by New, or its LALR(1)
// merge produced by Merge. State ids are assigned in BFS creation order.
type Automaton struct {
	g         *grammar.Grammar
	sets      *grammar.Sets
	prods     []grammar.Production // index 0 is the augmented S' -> S
	byLeft    map[grammar.Symbol][]int
	augmented string // augmented start name; empty means unconstructed

	states []itemSet
	trans  []map[grammar.Symbol]int
	start  int
}

// New augments g with a fresh start production and builds the canonical
// LR(1) collection by BFS from closure({[S' -> • S, $]}).
func New(g *grammar.Grammar) *Automaton {
	a := &Automaton{
		g:    g,
		sets: grammar.Analyze(g),
	}

	// Fresh augmented start name: prime the start symbol until unused.
	name := g.Start().Name + "'"
	for used := symbolNames(g); used[name]; {
		name += "'"
	}
	a.augmented = name

	a.prods = append([]grammar.Production{
		{Left: grammar.N(name), Right: []grammar.Symbol{g.Start()}},
	}, g.Productions()...)

	a.byLeft = make(map[grammar.Symbol][]int)
	for i, p := range a.prods {
		a.byLeft[p.Left] = append(a.byLeft[p.Left], i)
	}

	initial := make(itemSet)
	initial.add(Item{Prod: 0, Dot: 0, Lookahead: grammar.End})
	a.closure(initial)

	byKey := map[string]int{}
	a.states = append(a.states, initial)
	a.trans = append(a.trans, make(map[grammar.Symbol]int))
	byKey[initial.key()] = 0
	a.start = 0

	symbols := g.Symbols()
	for i := 0; i < len(a.states); i++ {
		for _, x := range symbols {
			next := a.gotoSet(a.states[i], x)
			if len(next) == 0 {
				continue
			}
			key := next.key()
			j, ok := byKey[key]
			if !ok {
				j = len(a.states)
				byKey[key] = j
				a.states = append(a.states, next)
				a.trans = append(a.trans, make(map[grammar.Symbol]int))
			}
			a.trans[i][x] = j
		}
	}

	return a
}

func symbolNames(g *grammar.Grammar) map[string]bool {
	used := make(map[string]bool)
	for _, s := range g.Symbols() {
		used[s.Name] = true
	}
	return used
}

// rhs returns the effective right-hand side of a production: ε-productions
// behave as empty.
func (a *Automaton) rhs(prod int) []grammar.Symbol {
	p := a.prods[prod]
	if p.IsEpsilon() {
		return nil
	}
	return p.Right
}

// closure saturates the set in place: for every [A -> α • B β, a] with B a
// non-terminal, each production B -> γ joins with every lookahead in
// FIRST(βa).
func (a *Automaton) closure(set itemSet) {
	queue := set.sorted()
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		rhs := a.rhs(it.Prod)
		if it.Dot >= len(rhs) {
			continue
		}
		b := rhs[it.Dot]
		if b.IsTerminal() {
			continue
		}

		seq := append(append([]grammar.Symbol{}, rhs[it.Dot+1:]...), it.Lookahead)
		for _, prod := range a.byLeft[b] {
			for _, la := range a.sets.FirstOfSequence(seq) {
				if la == grammar.Epsilon {
					continue
				}
				next := Item{Prod: prod, Dot: 0, Lookahead: la}
				if set.add(next) {
					queue = append(queue, next)
				}
			}
		}
	}
}

// gotoSet computes CLOSURE of the set of items with the dot advanced over x.
func (a *Automaton) gotoSet(set itemSet, x grammar.Symbol) itemSet {
	moved := make(itemSet)
	for _, it := range set.sorted() {
		rhs := a.rhs(it.Prod)
		if it.Dot < len(rhs) && rhs[it.Dot] == x {
			moved.add(Item{Prod: it.Prod, Dot: it.Dot + 1, Lookahead: it.Lookahead})
		}
	}
	if len(moved) > 0 {
		a.closure(moved)
	}
	return moved
}

// Merge groups states by kernel and unions each group's items, producing the
// LALR(1) automaton. Transitions rewrite through the class map; edges of
// kernel-equivalent states land in the same class, so no duplicates arise.
func (a *Automaton) Merge() *Automaton {
	classByKernel := map[string]int{}
	classOf := make([]int, len(a.states))
	var merged []itemSet

	for i, set := range a.states {
		k := set.kernelKey()
		cls, ok := classByKernel[k]
		if !ok {
			cls = len(merged)
			classByKernel[k] = cls
			merged = append(merged, make(itemSet))
		}
		classOf[i] = cls
		for it := range set {
			merged[cls].add(it)
		}
	}

	trans := make([]map[grammar.Symbol]int, len(merged))
	for i := range trans {
		trans[i] = make(map[grammar.Symbol]int)
	}
	for i, edges := range a.trans {
		for x, j := range edges {
			trans[classOf[i]][x] = classOf[j]
		}
	}

	return &Automaton{
		g:         a.g,
		sets:      a.sets,
		prods:     a.prods,
		byLeft:    a.byLeft,
		augmented: a.augmented,
		states:    merged,
		trans:     trans,
		start:     classOf[a.start],
	}
}

// States returns the number of states.
func (a *Automaton) States() int {
	return len(a.states)
}

// Start returns the initial state id.
func (a *Automaton) Start() int {
	return a.start
}

// Items returns state i's items in canonical order.
func (a *Automaton) Items(i int) []Item {
	return a.states[i].sorted()
}

// Transition returns the target of the edge from state i on x, if present.
func (a *Automaton) Transition(i int, x grammar.Symbol) (int, bool) {
	j, ok := a.trans[i][x]
	return j, ok
}

// AugmentedStart returns the name of the augmented start symbol.
func (a *Automaton) AugmentedStart() string {
	return a.augmented
}

// Productions returns the augmented production list; index 0 is S' -> S.
func (a *Automaton) Productions() []grammar.Production {
	return a.prods
}

// Grammar returns the original, unaugmented grammar.
func (a *Automaton) Grammar() *grammar.Grammar {
	return a.g
}

// ItemString renders an item as [A -> α • β, a].
func (a *Automaton) ItemString(it Item) string {
	p := a.prods[it.Prod]
	rhs := a.rhs(it.Prod)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s ->", p.Left.Name)
	for i, s := range rhs {
		if i == it.Dot {
			sb.WriteString(" •")
		}
		sb.WriteByte(' ')
		sb.WriteString(s.Name)
	}
	if it.Dot == len(rhs) {
		sb.WriteString(" •")
	}
	fmt.Fprintf(&sb, ", %s]", it.Lookahead.Name)
	return sb.String()
}

// String renders every state with its items and outgoing edges.
func (a *Automaton) String() string {
	var sb strings.Builder
	for i := range a.states {
		fmt.Fprintf(&sb, "I%d:\n", i)
		for _, it := range a.Items(i) {
			fmt.Fprintf(&sb, "  %s\n", a.ItemString(it))
		}
		for _, x := range a.g.Symbols() {
			if j, ok := a.trans[i][x]; ok {
				fmt.Fprintf(&sb, "  --%s--> I%d\n", x.Name, j)
			}
		}
	}
	return sb.String()
}
