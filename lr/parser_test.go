package lr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpressionGrammar(t *testing.T) {
	p := NewParser(exprTable(t))

	tests := []struct {
		name   string
		input  []string
		accept bool
	}{
		{"single id", []string{"id"}, true},
		{"sum", []string{"id", "+", "id"}, true},
		{"precedence chain", []string{"id", "+", "id", "*", "id"}, true},
		{"parens", []string{"(", "id", "+", "id", ")", "*", "id"}, true},
		{"trailing operator", []string{"id", "+"}, false},
		{"leading operator", []string{"+", "id"}, false},
		{"empty", nil, false},
		{"unbalanced paren", []string{"(", "id"}, false},
		{"already terminated", []string{"id", "$"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accepted, err := p.Parse(tt.input)
			assert.Equal(t, tt.accept, accepted)
			if tt.accept {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseSyntaxErrorDetail(t *testing.T) {
	p := NewParser(exprTable(t))

	accepted, err := p.Parse([]string{"id", "id"})
	assert.False(t, accepted)

	var serr *SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "id", serr.Terminal)
	assert.Equal(t, 1, serr.Pos)
	assert.Contains(t, serr.Error(), "syntax error")
}

// An unknown terminal is just a missing ACTION entry.
func TestParseUnknownTerminal(t *testing.T) {
	p := NewParser(exprTable(t))

	accepted, err := p.Parse([]string{"id", "%", "id"})
	assert.False(t, accepted)
	assert.Error(t, err)
}

// One table may drive many parsers; parses share no state.
func TestParseReuse(t *testing.T) {
	table := exprTable(t)
	p1 := NewParser(table)
	p2 := NewParser(table)

	for i := 0; i < 3; i++ {
		ok, err := p1.Parse([]string{"id", "*", "id"})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, _ = p2.Parse([]string{"*"})
		assert.False(t, ok)
	}
}
