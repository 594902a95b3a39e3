// Package parsekit is a compiler front-end construction toolkit.
//
// The lexical side compiles regular expressions through Thompson NFAs,
// subset construction, and table-filling minimization into longest-match
// token scanners. The syntactic side turns a context-free grammar into an
// LALR(1) ACTION/GOTO table and drives a shift-reduce parser with it. The
// tables are the artifact: construction is deterministic, so equal inputs
// always produce byte-identical tables.
//
// Basic usage:
//
//	// Single pattern matching
//	p, err := parsekit.CompilePattern("a(b|c)*")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p.MatchString("abcb") // true
//
//	// Tokenizing
//	lex, err := parsekit.NewLexer([]lexer.Rule{
//	    {Pattern: "if", Type: "IF", Priority: 10},
//	    {Pattern: "(a|b)(a|b)*", Type: "IDENT", Priority: 5},
//	})
//	tokens := lex.Tokenize("ab if")
//
//	// Parsing
//	parser, err := parsekit.NewParser(g)
//	accepted, err := parser.Accepts(tokens)
//
// Construction results are immutable; lexers, tables, and parsers are safe
// for concurrent use.
package parsekit

import (
	"github.com/coregx/parsekit/dfa"
	"github.com/coregx/parsekit/grammar"
	"github.com/coregx/parsekit/lexer"
	"github.com/coregx/parsekit/lr"
	"github.com/coregx/parsekit/nfa"
)

// Pattern is a compiled regular expression backed by a minimized DFA, with
// the source NFA retained for reference simulation.
type Pattern struct {
	pattern string
	nfa     *nfa.NFA
	dfa     *dfa.DFA
}

// CompilePattern compiles a regular expression over the operators | * + ? ( )
// and single-rune literals. There is no escape syntax; every other rune is a
// literal.
func CompilePattern(pattern string) (*Pattern, error) {
	n, err := nfa.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Pattern{
		pattern: pattern,
		nfa:     n,
		dfa:     dfa.Minimize(dfa.Determinize(n, n.Alphabet())),
	}, nil
}

// MustCompilePattern compiles a pattern and panics if it fails.
// This is useful for patterns known to be valid at compile time.
func MustCompilePattern(pattern string) *Pattern {
	p, err := CompilePattern(pattern)
	if err != nil {
		panic("parsekit: CompilePattern(" + pattern + "): " + err.Error())
	}
	return p
}

// MatchString reports whether the pattern matches the whole input.
func (p *Pattern) MatchString(input string) bool {
	return p.dfa.MatchString(input)
}

// String returns the source pattern.
func (p *Pattern) String() string {
	return p.pattern
}

// DFA returns the minimized automaton.
func (p *Pattern) DFA() *dfa.DFA {
	return p.dfa
}

// NFA returns the Thompson automaton the DFA was derived from.
func (p *Pattern) NFA() *nfa.NFA {
	return p.nfa
}

// NewLexer builds a longest-match scanner from prioritized token rules.
func NewLexer(rules []lexer.Rule) (*lexer.Lexer, error) {
	return lexer.New(rules)
}

// Parser couples an LALR(1) table with its shift-reduce driver.
type Parser struct {
	table  *lr.Table
	driver *lr.Parser
}

// NewParser builds the canonical LR(1) collection for g, merges it to
// LALR(1), and fills the parsing table. Grammar conflicts do not fail
// construction; they are reported by Conflicts.
func NewParser(g *grammar.Grammar) (*Parser, error) {
	table, err := lr.NewTable(lr.New(g).Merge())
	if err != nil {
		return nil, err
	}
	return &Parser{table: table, driver: lr.NewParser(table)}, nil
}

// Table returns the filled ACTION/GOTO table.
func (p *Parser) Table() *lr.Table {
	return p.table
}

// Conflicts returns the collisions met while filling the table; empty means
// the grammar is LALR(1) under this construction.
func (p *Parser) Conflicts() []lr.Conflict {
	return p.table.Conflicts()
}

// Accepts runs the driver over a token stream, keying ACTION on token type
// names. The lexer's trailing EOF token doubles as the $ terminal.
func (p *Parser) Accepts(tokens []lexer.Token) (bool, error) {
	terminals := make([]string, len(tokens))
	for i, tok := range tokens {
		terminals[i] = tok.Type
	}
	return p.driver.Parse(terminals)
}
