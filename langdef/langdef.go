// Package langdef loads language definitions from YAML: the token rules
// feeding the lexer and the productions feeding the parser table, in one
// document.
//
// Productions use the conventional arrow syntax, alternatives folded with |:
//
//	start: E
//	tokens:
//	  - { pattern: "id", type: id, priority: 5 }
//	  - { pattern: "+", type: "+", priority: 5, literal: true }
//	productions:
//	  - "E -> E + T | T"
//	  - "A -> ε"
//
// The arrow and | are reserved by this syntax; ε names the empty production.
// Every name appearing on a left-hand side is a non-terminal, everything
// else a terminal. Rules marked literal match their pattern verbatim, which
// is how tokens spelled with regex operator characters are declared.
package langdef

import (
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"

	"github.com/coregx/parsekit/grammar"
	"github.com/coregx/parsekit/lexer"
)

// TokenDef declares one lexer rule.
type TokenDef struct {
	Pattern  string `yaml:"pattern"`
	Type     string `yaml:"type"`
	Priority int    `yaml:"priority"`
	Skip     bool   `yaml:"skip"`
	Literal  bool   `yaml:"literal"`
}

// Definition is a parsed language definition document.
type Definition struct {
	Start       string     `yaml:"start"`
	Tokens      []TokenDef `yaml:"tokens"`
	Productions []string   `yaml:"productions"`
}

// Load reads and parses a definition file.
func Load(path string) (*Definition, error) {
	bin, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading definition %s", path)
	}
	def, err := Parse(bin)
	if err != nil {
		return nil, errors.Wrapf(err, "definition %s", path)
	}
	return def, nil
}

// Parse decodes and validates a definition document.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, errors.Wrap(err, "parsing definition yaml")
	}
	if def.Start == "" {
		return nil, errors.New("definition is missing a start symbol")
	}
	if len(def.Productions) == 0 {
		return nil, errors.New("definition has no productions")
	}
	for _, td := range def.Tokens {
		if td.Pattern == "" || td.Type == "" {
			return nil, errors.Errorf("token rule %+v needs both pattern and type", td)
		}
	}
	return &def, nil
}

// Rules converts the token definitions, preserving declared order.
func (d *Definition) Rules() []lexer.Rule {
	rules := make([]lexer.Rule, len(d.Tokens))
	for i, td := range d.Tokens {
		rules[i] = lexer.Rule{Pattern: td.Pattern, Type: td.Type, Priority: td.Priority, Skip: td.Skip, Literal: td.Literal}
	}
	return rules
}

// Grammar parses the production strings into a grammar. Alternatives expand
// in declared order, left to right, so production indices are reproducible.
func (d *Definition) Grammar() (*grammar.Grammar, error) {
	lhs := make(map[string]bool)
	for _, line := range d.Productions {
		left, _, err := splitProduction(line)
		if err != nil {
			return nil, err
		}
		lhs[left] = true
	}

	symbol := func(name string) grammar.Symbol {
		switch {
		case name == grammar.Epsilon.Name:
			return grammar.Epsilon
		case lhs[name]:
			return grammar.N(name)
		default:
			return grammar.T(name)
		}
	}

	var prods []grammar.Production
	for _, line := range d.Productions {
		left, right, err := splitProduction(line)
		if err != nil {
			return nil, err
		}
		for _, alt := range strings.Split(right, "|") {
			fields := strings.Fields(alt)
			rhs := make([]grammar.Symbol, 0, len(fields))
			for _, f := range fields {
				rhs = append(rhs, symbol(f))
			}
			if len(rhs) == 0 {
				// an empty alternative is the ε-production
				rhs = []grammar.Symbol{grammar.Epsilon}
			}
			prods = append(prods, grammar.Production{Left: grammar.N(left), Right: rhs})
		}
	}

	if !lhs[d.Start] {
		return nil, errors.Errorf("start symbol %q has no production", d.Start)
	}

	g, err := grammar.New(grammar.N(d.Start), prods)
	if err != nil {
		return nil, errors.Wrap(err, "building grammar")
	}
	return g, nil
}

func splitProduction(line string) (left, right string, err error) {
	parts := strings.SplitN(line, "->", 2)
	if len(parts) != 2 {
		return "", "", errors.Errorf("production %q is missing '->'", line)
	}
	left = strings.TrimSpace(parts[0])
	if left == "" || len(strings.Fields(left)) != 1 {
		return "", "", errors.Errorf("production %q needs a single left-hand symbol", line)
	}
	return left, parts[1], nil
}
