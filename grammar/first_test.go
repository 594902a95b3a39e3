package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The dragon-book expression grammar.
func exprGrammar(t *testing.T) *Grammar {
	t.Helper()
	g, err := New(N("E"), []Production{
		{Left: N("E"), Right: []Symbol{N("E"), T("+"), N("T")}},
		{Left: N("E"), Right: []Symbol{N("T")}},
		{Left: N("T"), Right: []Symbol{N("T"), T("*"), N("F")}},
		{Left: N("T"), Right: []Symbol{N("F")}},
		{Left: N("F"), Right: []Symbol{T("("), N("E"), T(")")}},
		{Left: N("F"), Right: []Symbol{T("id")}},
	})
	require.NoError(t, err)
	return g
}

func TestFirstExpressionGrammar(t *testing.T) {
	s := Analyze(exprGrammar(t))

	want := []Symbol{T("("), T("id")}
	assert.Equal(t, want, s.First(N("E")))
	assert.Equal(t, want, s.First(N("T")))
	assert.Equal(t, want, s.First(N("F")))

	// FIRST of a terminal is the terminal itself.
	assert.Equal(t, []Symbol{T("+")}, s.First(T("+")))
	assert.Equal(t, []Symbol{Epsilon}, s.First(Epsilon))
}

func TestFollowExpressionGrammar(t *testing.T) {
	s := Analyze(exprGrammar(t))

	assert.Equal(t, []Symbol{End, T(")"), T("+")}, s.Follow(N("E")))
	assert.Equal(t, []Symbol{End, T(")"), T("*"), T("+")}, s.Follow(N("T")))
	assert.Equal(t, []Symbol{End, T(")"), T("*"), T("+")}, s.Follow(N("F")))
}

func TestFirstWithEpsilonProductions(t *testing.T) {
	g, err := New(N("S"), []Production{
		{Left: N("S"), Right: []Symbol{N("A"), N("B")}},
		{Left: N("A"), Right: []Symbol{T("a")}},
		{Left: N("A"), Right: []Symbol{Epsilon}},
		{Left: N("B"), Right: []Symbol{T("b")}},
	})
	require.NoError(t, err)
	s := Analyze(g)

	assert.Equal(t, []Symbol{T("a"), Epsilon}, s.First(N("A")))
	assert.Equal(t, []Symbol{T("a"), T("b")}, s.First(N("S")))
	assert.Equal(t, []Symbol{T("b")}, s.Follow(N("A")))
	assert.Equal(t, []Symbol{End}, s.Follow(N("B")))
}

func TestFirstOfSequence(t *testing.T) {
	g, err := New(N("S"), []Production{
		{Left: N("S"), Right: []Symbol{N("A"), N("B")}},
		{Left: N("A"), Right: []Symbol{T("a")}},
		{Left: N("A"), Right: []Symbol{Epsilon}},
		{Left: N("B"), Right: []Symbol{T("b")}},
	})
	require.NoError(t, err)
	s := Analyze(g)

	assert.Equal(t, []Symbol{T("a"), T("b")}, s.FirstOfSequence([]Symbol{N("A"), N("B")}))
	assert.Equal(t, []Symbol{T("a"), Epsilon}, s.FirstOfSequence([]Symbol{N("A")}))
	assert.Equal(t, []Symbol{Epsilon}, s.FirstOfSequence(nil))
}

// A nullable-only grammar: FOLLOW of the start is {$} and FIRST is {ε}.
func TestEpsilonOnlyGrammar(t *testing.T) {
	g, err := New(N("S"), []Production{
		{Left: N("S"), Right: []Symbol{Epsilon}},
	})
	require.NoError(t, err)
	s := Analyze(g)

	assert.Equal(t, []Symbol{Epsilon}, s.First(N("S")))
	assert.Equal(t, []Symbol{End}, s.Follow(N("S")))
}
