package langdef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/coregx/parsekit/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exprDefinition = `
start: E
tokens:
  - { pattern: "id", type: id, priority: 5 }
  - { pattern: "+", type: "+", priority: 5, literal: true }
  - { pattern: "*", type: "*", priority: 5, literal: true }
  - { pattern: "(", type: "(", priority: 5, literal: true }
  - { pattern: ")", type: ")", priority: 5, literal: true }
productions:
  - "E -> E + T | T"
  - "T -> T * F | F"
  - "F -> ( E ) | id"
`

func TestParseDefinition(t *testing.T) {
	def, err := Parse([]byte(exprDefinition))
	require.NoError(t, err)

	assert.Equal(t, "E", def.Start)
	assert.Len(t, def.Tokens, 5)
	require.Len(t, def.Rules(), 5)
	assert.Equal(t, "id", def.Rules()[0].Type)

	// Operator characters are declared as literal rules.
	assert.Equal(t, "+", def.Rules()[1].Pattern)
	assert.True(t, def.Rules()[1].Literal)
}

func TestDefinitionGrammar(t *testing.T) {
	def, err := Parse([]byte(exprDefinition))
	require.NoError(t, err)

	g, err := def.Grammar()
	require.NoError(t, err)

	assert.Equal(t, grammar.N("E"), g.Start())
	require.Len(t, g.Productions(), 6)
	assert.Equal(t, "E -> E + T", g.Productions()[0].String())
	assert.Equal(t, "E -> T", g.Productions()[1].String())
	assert.Equal(t, "F -> id", g.Productions()[5].String())
	assert.Equal(t, []grammar.Symbol{grammar.N("E"), grammar.N("T"), grammar.N("F")}, g.NonTerminals())
}

func TestDefinitionGrammarEpsilon(t *testing.T) {
	def, err := Parse([]byte(`
start: S
tokens:
  - { pattern: a, type: a, priority: 1 }
productions:
  - "S -> a S | ε"
`))
	require.NoError(t, err)

	g, err := def.Grammar()
	require.NoError(t, err)
	require.Len(t, g.Productions(), 2)
	assert.True(t, g.Productions()[1].IsEpsilon())
}

// An empty alternative is the ε-production too.
func TestDefinitionGrammarEmptyAlternative(t *testing.T) {
	def, err := Parse([]byte(`
start: S
tokens:
  - { pattern: a, type: a, priority: 1 }
productions:
  - "S -> a S |"
`))
	require.NoError(t, err)

	g, err := def.Grammar()
	require.NoError(t, err)
	assert.True(t, g.Productions()[1].IsEpsilon())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad yaml", "a: ["},
		{"missing start", "tokens:\n  - { pattern: a, type: a }\nproductions:\n  - \"S -> a\""},
		{"no productions", "start: S\ntokens:\n  - { pattern: a, type: a }"},
		{"token missing type", "start: S\ntokens:\n  - { pattern: a }\nproductions:\n  - \"S -> a\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestGrammarErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing arrow", "start: S\nproductions:\n  - \"S a\""},
		{"two left symbols", "start: S\nproductions:\n  - \"S S -> a\""},
		{"start unproduced", "start: X\nproductions:\n  - \"S -> a\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			_, err = def.Grammar()
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "expr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(exprDefinition), 0o644))

	def, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "E", def.Start)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
