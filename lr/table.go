package lr

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/coregx/parsekit/grammar"
)

// ActionType identifies the kind of an ACTION table entry.
type ActionType uint8

const (
	// ActionShift pushes a state and consumes the terminal
	ActionShift ActionType = iota

	// ActionReduce pops a production's right-hand side and follows GOTO
	ActionReduce

	// ActionAccept terminates a successful parse
	ActionAccept
)

// String returns a human-readable representation of the ActionType
func (t ActionType) String() string {
	switch t {
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	case ActionAccept:
		return "accept"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}

// Action is one ACTION table entry, a tagged union over the three kinds:
// State is valid for shifts, Production for reduces.
type Action struct {
	Type       ActionType
	State      int
	Production int
}

// String renders the action as s5, r3, or acc.
func (a Action) String() string {
	switch a.Type {
	case ActionShift:
		return fmt.Sprintf("s%d", a.State)
	case ActionReduce:
		return fmt.Sprintf("r%d", a.Production)
	default:
		return "acc"
	}
}

// MarshalJSON implements json.Marshaler with a type-tagged object.
func (a Action) MarshalJSON() ([]byte, error) {
	switch a.Type {
	case ActionShift:
		return json.Marshal(struct {
			Type  string `json:"type"`
			State int    `json:"state"`
		}{"shift", a.State})
	case ActionReduce:
		return json.Marshal(struct {
			Type       string `json:"type"`
			Production int    `json:"production"`
		}{"reduce", a.Production})
	default:
		return json.Marshal(struct {
			Type string `json:"type"`
		}{"accept"})
	}
}

// Conflict records one ACTION cell collision and how it was resolved.
type Conflict struct {
	State    int
	Terminal string
	Kept     Action
	Dropped  Action
}

// String renders the conflict with its resolution.
func (c Conflict) String() string {
	kind := "reduce/reduce"
	if c.Kept.Type == ActionShift || c.Dropped.Type == ActionShift {
		kind = "shift/reduce"
	}
	if c.Kept.Type == ActionAccept || c.Dropped.Type == ActionAccept {
		kind = "accept"
	}
	return fmt.Sprintf("state %d, terminal %q: %s conflict, kept %s, dropped %s",
		c.State, c.Terminal, kind, c.Kept, c.Dropped)
}

// Table holds the filled ACTION and GOTO maps, the initial state, the
// augmented production list the driver reduces against, and every conflict
// met during filling. An empty conflict list means the grammar is LALR(1)
// under this construction.
type Table struct {
	actions   []map[string]Action
	gotos     []map[string]int
	start     int
	prods     []grammar.Production
	conflicts []Conflict
}

// NewTable fills ACTION/GOTO from the automaton's states.
//
// The conflict policy is deterministic and fully logged: shift beats reduce,
// the first reduce written beats later ones, accept beats everything. Items
// are visited in canonical order, so "first reduce" means lowest production
// index.
func NewTable(a *Automaton) (*Table, error) {
	if a.AugmentedStart() == "" {
		return nil, ErrUnconstructed
	}

	t := &Table{
		start:   a.Start(),
		prods:   a.Productions(),
		actions: make([]map[string]Action, a.States()),
		gotos:   make([]map[string]int, a.States()),
	}

	for i := 0; i < a.States(); i++ {
		t.actions[i] = make(map[string]Action)
		t.gotos[i] = make(map[string]int)

		for _, it := range a.Items(i) {
			rhs := a.rhs(it.Prod)
			if it.Dot < len(rhs) {
				x := rhs[it.Dot]
				if !x.IsTerminal() {
					continue
				}
				if j, ok := a.Transition(i, x); ok {
					t.setAction(i, x.Name, Action{Type: ActionShift, State: j})
				}
				continue
			}

			if it.Prod == 0 {
				if it.Lookahead == grammar.End {
					t.setAction(i, grammar.End.Name, Action{Type: ActionAccept})
				}
				continue
			}
			t.setAction(i, it.Lookahead.Name, Action{Type: ActionReduce, Production: it.Prod})
		}

		for _, nt := range a.Grammar().NonTerminals() {
			if j, ok := a.Transition(i, nt); ok {
				t.gotos[i][nt.Name] = j
			}
		}
	}

	return t, nil
}

// setAction writes a cell, applying the conflict policy when it is already
// occupied. Every collision is recorded; none halts construction.
func (t *Table) setAction(state int, terminal string, next Action) {
	cur, ok := t.actions[state][terminal]
	if !ok {
		t.actions[state][terminal] = next
		return
	}
	if cur == next {
		return
	}

	keep := cur
	switch {
	case cur.Type == ActionAccept:
		// accept stays
	case next.Type == ActionAccept:
		keep = next
	case cur.Type == ActionShift && next.Type == ActionReduce:
		// shift stays
	case cur.Type == ActionReduce && next.Type == ActionShift:
		keep = next
	case cur.Type == ActionReduce && next.Type == ActionReduce:
		// first reduce stays
	}

	dropped := next
	if keep == next {
		dropped = cur
	}
	t.actions[state][terminal] = keep
	t.conflicts = append(t.conflicts, Conflict{State: state, Terminal: terminal, Kept: keep, Dropped: dropped})
}

// Action looks up ACTION[state, terminal].
func (t *Table) Action(state int, terminal string) (Action, bool) {
	a, ok := t.actions[state][terminal]
	return a, ok
}

// Goto looks up GOTO[state, nonTerminal].
func (t *Table) Goto(state int, nonTerminal string) (int, bool) {
	j, ok := t.gotos[state][nonTerminal]
	return j, ok
}

// Start returns the initial state id.
func (t *Table) Start() int {
	return t.start
}

// States returns the number of states the table covers.
func (t *Table) States() int {
	return len(t.actions)
}

// Conflicts returns every collision recorded during filling, in encounter
// order. An empty slice means a conflict-free grammar.
func (t *Table) Conflicts() []Conflict {
	return t.conflicts
}

// Production returns the augmented production with the given index.
func (t *Table) Production(id int) grammar.Production {
	return t.prods[id]
}

// MarshalJSON implements json.Marshaler. The encoding is the persisted table
// artifact: ACTION and GOTO keyed by decimal state ids, the augmented
// production list, the initial state, and the conflict strings.
func (t *Table) MarshalJSON() ([]byte, error) {
	actions := make(map[string]map[string]Action, len(t.actions))
	for i, row := range t.actions {
		if len(row) > 0 {
			actions[strconv.Itoa(i)] = row
		}
	}
	gotos := make(map[string]map[string]int, len(t.gotos))
	for i, row := range t.gotos {
		if len(row) > 0 {
			gotos[strconv.Itoa(i)] = row
		}
	}
	prods := make([]string, len(t.prods))
	for i, p := range t.prods {
		prods[i] = p.String()
	}
	conflicts := make([]string, len(t.conflicts))
	for i, c := range t.conflicts {
		conflicts[i] = c.String()
	}

	return json.Marshal(struct {
		Start       int                          `json:"start"`
		States      int                          `json:"states"`
		Action      map[string]map[string]Action `json:"action"`
		Goto        map[string]map[string]int    `json:"goto"`
		Productions []string                     `json:"productions"`
		Conflicts   []string                     `json:"conflicts"`
	}{t.start, len(t.actions), actions, gotos, prods, conflicts})
}

// terminalsOf collects the terminal names a table row mentions, sorted.
func (t *Table) terminalsOf(state int) []string {
	names := make([]string, 0, len(t.actions[state]))
	for name := range t.actions[state] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders the table row by row, for debugging.
func (t *Table) String() string {
	var sb strings.Builder
	for i := range t.actions {
		fmt.Fprintf(&sb, "I%d:", i)
		for _, name := range t.terminalsOf(i) {
			fmt.Fprintf(&sb, " %s=%s", name, t.actions[i][name])
		}
		nts := make([]string, 0, len(t.gotos[i]))
		for name := range t.gotos[i] {
			nts = append(nts, name)
		}
		sort.Strings(nts)
		for _, name := range nts {
			fmt.Fprintf(&sb, " %s->%d", name, t.gotos[i][name])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
