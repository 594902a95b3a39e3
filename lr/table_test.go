package lr

import (
	"encoding/json"
	"testing"

	"github.com/coregx/parsekit/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exprTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable(New(exprGrammar(t)).Merge())
	require.NoError(t, err)
	return table
}

func TestTableExpressionGrammar(t *testing.T) {
	table := exprTable(t)

	assert.Empty(t, table.Conflicts())
	assert.Equal(t, 12, table.States())
}

// In the state holding E -> E + T •, the next '*' must shift (continuing
// T -> T • * F) while '+' reduces; distinct lookaheads keep the cell
// conflict-free.
func TestTableShiftOnStar(t *testing.T) {
	g := exprGrammar(t)
	a := New(g).Merge()
	table, err := NewTable(a)
	require.NoError(t, err)

	// E -> E + T is augmented production 1.
	require.Equal(t, "E -> E + T", a.Productions()[1].String())

	found := false
	for i := 0; i < a.States(); i++ {
		for _, it := range a.Items(i) {
			if it.Prod == 1 && it.Dot == 3 {
				found = true
				act, ok := table.Action(i, "*")
				require.True(t, ok, "state %d needs an action on '*'", i)
				assert.Equal(t, ActionShift, act.Type)

				act, ok = table.Action(i, "+")
				require.True(t, ok)
				assert.Equal(t, ActionReduce, act.Type)
				assert.Equal(t, 1, act.Production)
			}
		}
	}
	assert.True(t, found, "no state holds E -> E + T •")
}

func danglingElseGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	g, err := grammar.New(grammar.N("S"), []grammar.Production{
		{Left: grammar.N("S"), Right: []grammar.Symbol{grammar.T("if"), grammar.N("E"), grammar.T("then"), grammar.N("S")}},
		{Left: grammar.N("S"), Right: []grammar.Symbol{grammar.T("if"), grammar.N("E"), grammar.T("then"), grammar.N("S"), grammar.T("else"), grammar.N("S")}},
		{Left: grammar.N("S"), Right: []grammar.Symbol{grammar.T("a")}},
		{Left: grammar.N("E"), Right: []grammar.Symbol{grammar.T("a")}},
	})
	require.NoError(t, err)
	return g
}

// The dangling else: one shift/reduce conflict on 'else', resolved in favor
// of the shift, and the table still accepts nested conditionals.
func TestTableDanglingElse(t *testing.T) {
	table, err := NewTable(New(danglingElseGrammar(t)).Merge())
	require.NoError(t, err)

	require.Len(t, table.Conflicts(), 1)
	c := table.Conflicts()[0]
	assert.Equal(t, "else", c.Terminal)
	assert.Equal(t, ActionShift, c.Kept.Type)
	assert.Equal(t, ActionReduce, c.Dropped.Type)

	act, ok := table.Action(c.State, "else")
	require.True(t, ok)
	assert.Equal(t, ActionShift, act.Type)

	accepted, err := NewParser(table).Parse([]string{"if", "a", "then", "if", "a", "then", "a", "else", "a"})
	require.NoError(t, err)
	assert.True(t, accepted)
}

// Reduce/reduce: the first reduce written (lowest production index) wins and
// the collision is logged.
func TestTableReduceReduce(t *testing.T) {
	g, err := grammar.New(grammar.N("S"), []grammar.Production{
		{Left: grammar.N("S"), Right: []grammar.Symbol{grammar.N("A")}},
		{Left: grammar.N("S"), Right: []grammar.Symbol{grammar.N("B")}},
		{Left: grammar.N("A"), Right: []grammar.Symbol{grammar.T("a")}},
		{Left: grammar.N("B"), Right: []grammar.Symbol{grammar.T("a")}},
	})
	require.NoError(t, err)

	a := New(g).Merge()
	table, err := NewTable(a)
	require.NoError(t, err)

	require.NotEmpty(t, table.Conflicts())
	c := table.Conflicts()[0]
	assert.Equal(t, "$", c.Terminal)
	assert.Equal(t, ActionReduce, c.Kept.Type)
	assert.Equal(t, ActionReduce, c.Dropped.Type)
	// A -> a is declared before B -> a.
	assert.Equal(t, "A -> a", a.Productions()[c.Kept.Production].String())
	assert.Equal(t, "B -> a", a.Productions()[c.Dropped.Production].String())

	accepted, err := NewParser(table).Parse([]string{"a"})
	require.NoError(t, err)
	assert.True(t, accepted)
}

// S -> ε accepts exactly the empty token sequence.
func TestTableEpsilonOnlyGrammar(t *testing.T) {
	g, err := grammar.New(grammar.N("S"), []grammar.Production{
		{Left: grammar.N("S"), Right: []grammar.Symbol{grammar.Epsilon}},
	})
	require.NoError(t, err)

	table, err := NewTable(New(g).Merge())
	require.NoError(t, err)
	assert.Empty(t, table.Conflicts())

	p := NewParser(table)

	accepted, err := p.Parse(nil)
	require.NoError(t, err)
	assert.True(t, accepted)

	accepted, err = p.Parse([]string{"x"})
	assert.False(t, accepted)
	assert.Error(t, err)
}

func TestNewTableUnconstructed(t *testing.T) {
	_, err := NewTable(&Automaton{})
	assert.ErrorIs(t, err, ErrUnconstructed)
}

// Equal inputs must yield byte-identical table artifacts.
func TestTableJSONDeterministic(t *testing.T) {
	t1, err := json.Marshal(exprTable(t))
	require.NoError(t, err)
	t2, err := json.Marshal(exprTable(t))
	require.NoError(t, err)

	assert.Equal(t, string(t1), string(t2))
	assert.Contains(t, string(t1), `"start"`)
	assert.Contains(t, string(t1), `"conflicts":[]`)
}

// No REDUCE entry ever names the augmented start production.
func TestTableNeverReducesAugmented(t *testing.T) {
	for _, build := range []func(*testing.T) *grammar.Grammar{exprGrammar, danglingElseGrammar} {
		table, err := NewTable(New(build(t)).Merge())
		require.NoError(t, err)
		for state := 0; state < table.States(); state++ {
			for _, term := range table.terminalsOf(state) {
				act, _ := table.Action(state, term)
				if act.Type == ActionReduce {
					assert.NotEqual(t, 0, act.Production)
				}
			}
		}
	}
}
