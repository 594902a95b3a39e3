// Package grammar models context-free grammars: symbols, productions, and
// the FIRST/FOLLOW analysis that LR construction is built on.
//
// Two terminal names are reserved: ε for the empty string and $ for end of
// input. An ε-production is written with a right-hand side that is exactly
// the single ε symbol; it is detected structurally, not by name mangling.
package grammar

import (
	"errors"
	"fmt"
	"strings"
)

// Kind partitions symbols into terminals and non-terminals.
type Kind uint8

const (
	// Terminal symbols are consumed from the token stream
	Terminal Kind = iota

	// NonTerminal symbols appear on production left-hand sides
	NonTerminal
)

// String returns a human-readable representation of the Kind
func (k Kind) String() string {
	switch k {
	case Terminal:
		return "terminal"
	case NonTerminal:
		return "non-terminal"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Symbol is a (name, kind) pair. Equality is structural, so symbols are
// usable as map keys directly.
type Symbol struct {
	Name string
	Kind Kind
}

// Reserved terminals.
var (
	// Epsilon is the empty-string terminal ε
	Epsilon = Symbol{Name: "ε", Kind: Terminal}

	// End is the end-of-input terminal $
	End = Symbol{Name: "$", Kind: Terminal}
)

// T constructs a terminal symbol.
func T(name string) Symbol {
	return Symbol{Name: name, Kind: Terminal}
}

// N constructs a non-terminal symbol.
func N(name string) Symbol {
	return Symbol{Name: name, Kind: NonTerminal}
}

// IsTerminal reports whether the symbol is a terminal.
func (s Symbol) IsTerminal() bool {
	return s.Kind == Terminal
}

// String returns the symbol's name.
func (s Symbol) String() string {
	return s.Name
}

// Production is one rewrite rule Left → Right. Equality is structural.
type Production struct {
	Left  Symbol
	Right []Symbol
}

// IsEpsilon reports whether the right-hand side is exactly the single ε
// symbol. The parser driver derives a reduce length of 0 from this.
func (p Production) IsEpsilon() bool {
	return len(p.Right) == 1 && p.Right[0] == Epsilon
}

// Equal reports structural equality of two productions.
func (p Production) Equal(o Production) bool {
	if p.Left != o.Left || len(p.Right) != len(o.Right) {
		return false
	}
	for i := range p.Right {
		if p.Right[i] != o.Right[i] {
			return false
		}
	}
	return true
}

// String renders the production as "Left -> X Y Z".
func (p Production) String() string {
	var sb strings.Builder
	sb.WriteString(p.Left.Name)
	sb.WriteString(" ->")
	for _, s := range p.Right {
		sb.WriteByte(' ')
		sb.WriteString(s.Name)
	}
	return sb.String()
}

// Grammar construction errors
var (
	// ErrNoProductions indicates an empty production list
	ErrNoProductions = errors.New("grammar has no productions")

	// ErrBadProduction indicates a production with a terminal left-hand side
	// or a start symbol that is not a non-terminal
	ErrBadProduction = errors.New("invalid production")
)

// Grammar is an immutable set of productions with a designated start symbol
// and the induced terminal/non-terminal partition. Productions keep their
// declared order; every downstream construction iterates them in that order,
// which is what makes state numbering reproducible.
type Grammar struct {
	start        Symbol
	prods        []Production
	terminals    []Symbol
	nonTerminals []Symbol
}

// New validates the productions and computes the symbol partition.
// Terminals and non-terminals are recorded in first-appearance order.
func New(start Symbol, prods []Production) (*Grammar, error) {
	if len(prods) == 0 {
		return nil, ErrNoProductions
	}
	if start.IsTerminal() {
		return nil, fmt.Errorf("%w: start symbol %q is a terminal", ErrBadProduction, start.Name)
	}

	g := &Grammar{start: start, prods: prods}

	seen := make(map[Symbol]bool)
	add := func(s Symbol) {
		if seen[s] || s == Epsilon || s == End {
			return
		}
		seen[s] = true
		if s.IsTerminal() {
			g.terminals = append(g.terminals, s)
		} else {
			g.nonTerminals = append(g.nonTerminals, s)
		}
	}

	add(start)
	for _, p := range prods {
		if p.Left.IsTerminal() {
			return nil, fmt.Errorf("%w: left-hand side %q is a terminal", ErrBadProduction, p.Left.Name)
		}
		add(p.Left)
		for _, s := range p.Right {
			add(s)
		}
	}

	return g, nil
}

// Start returns the start symbol.
func (g *Grammar) Start() Symbol {
	return g.start
}

// Productions returns all productions in declared order.
func (g *Grammar) Productions() []Production {
	return g.prods
}

// ProductionsFor returns the productions with the given left-hand side, in
// declared order.
func (g *Grammar) ProductionsFor(left Symbol) []Production {
	var out []Production
	for _, p := range g.prods {
		if p.Left == left {
			out = append(out, p)
		}
	}
	return out
}

// Terminals returns the terminals in first-appearance order, excluding the
// reserved ε and $.
func (g *Grammar) Terminals() []Symbol {
	return g.terminals
}

// NonTerminals returns the non-terminals in first-appearance order, the
// start symbol first.
func (g *Grammar) NonTerminals() []Symbol {
	return g.nonTerminals
}

// Symbols returns non-terminals then terminals, each in first-appearance
// order. This is the iteration order for GOTO expansion.
func (g *Grammar) Symbols() []Symbol {
	out := make([]Symbol, 0, len(g.nonTerminals)+len(g.terminals))
	out = append(out, g.nonTerminals...)
	out = append(out, g.terminals...)
	return out
}

// String renders the grammar, one production per line, start symbol first.
func (g *Grammar) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "start: %s\n", g.start.Name)
	for _, p := range g.prods {
		sb.WriteString(p.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
