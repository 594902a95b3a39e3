// Package lexer builds longest-match token scanners from prioritized regex
// rules.
//
// Every rule compiles to a Thompson NFA fragment in one shared arena; a
// virtual start state ties the fragments into a single machine, subset
// construction turns it into a token DFA carrying (type, priority) accept
// labels, and table-filling minimization shrinks it. Scanning then walks the
// minimized DFA remembering the last accepting position.
//
// Rule sets whose patterns are all plain literals additionally get an
// Aho-Corasick automaton and skip the DFA walk entirely, the same engine
// bypass coregex applies to large literal alternations.
package lexer

import (
	"errors"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/parsekit/dfa"
	"github.com/coregx/parsekit/nfa"
)

// ErrNoRules indicates a lexer was constructed with an empty rule set.
var ErrNoRules = errors.New("lexer needs at least one rule")

// Rule declares one token: a regex pattern, the emitted type name, and a
// priority that breaks ties when several rules accept the same lexeme.
// Skip rules match and consume input but emit nothing; whitespace that must
// not reach the parser is modeled this way. Literal rules match their
// pattern verbatim, which is the only way to tokenize the regex operator
// characters themselves.
type Rule struct {
	Pattern  string
	Type     string
	Priority int
	Skip     bool
	Literal  bool
}

// Lexer is an immutable scanner definition. It is safe for concurrent use;
// Tokenize allocates all per-run state.
type Lexer struct {
	rules []Rule
	dfa   *dfa.DFA
	skip  map[string]bool

	// literal fast path, nil unless every rule is a plain literal
	literals    *ahocorasick.Automaton
	literalRule map[string]int
}

// New compiles the rules, in declared order, into a minimized token DFA.
func New(rules []Rule) (*Lexer, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}

	b := nfa.NewBuilder()
	c := nfa.NewCompiler(b)

	frags := make([]nfa.Fragment, len(rules))
	for i, r := range rules {
		var frag nfa.Fragment
		var err error
		if r.Literal {
			frag, err = c.CompileLiteral(r.Pattern)
		} else {
			frag, err = c.Compile(r.Pattern)
		}
		if err != nil {
			return nil, err
		}
		frags[i] = frag
	}

	start := b.AddState(false)
	tokenRules := make([]dfa.TokenRule, len(rules))
	for i, frag := range frags {
		b.AddEpsilon(start, frag.Start)
		tokenRules[i] = dfa.TokenRule{Final: frag.End, Type: rules[i].Type, Priority: rules[i].Priority}
	}

	machine, err := b.Build(start, nfa.InvalidState)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]bool)
	for _, r := range rules {
		if r.Skip {
			skip[r.Type] = true
		}
	}

	l := &Lexer{
		rules: rules,
		dfa:   dfa.Minimize(dfa.DeterminizeTokens(machine, tokenRules, b.Alphabet())),
		skip:  skip,
	}
	l.buildLiteralScanner()
	return l, nil
}

// DFA returns the minimized token DFA backing the scanner.
func (l *Lexer) DFA() *dfa.DFA {
	return l.dfa
}

// Tokenize scans the whole input and returns the token stream, skip tokens
// suppressed, terminated by a TypeEOF token.
func (l *Lexer) Tokenize(input string) []Token {
	if l.literals != nil {
		return l.tokenizeLiterals(input)
	}
	return l.tokenizeDFA(input)
}

// tokenizeDFA is the general longest-match scan: from each position walk the
// DFA as far as transitions exist, remembering the last accepting
// configuration, then emit it and resume right after it.
func (l *Lexer) tokenizeDFA(input string) []Token {
	var out []Token
	p := 0
	for p < len(input) {
		q := l.dfa.Start()
		i := p
		lastEnd := -1
		var lastLabel *dfa.Label

		for i < len(input) {
			r, size := utf8.DecodeRuneInString(input[i:])
			next, ok := l.dfa.Next(q, r)
			if !ok {
				break
			}
			q = next
			i += size
			if st := l.dfa.State(q); st.IsFinal() {
				lastEnd = i
				lastLabel = st.Label()
			}
		}

		if lastEnd < 0 {
			p = l.emitUnmatched(&out, input, p)
			continue
		}

		l.emit(&out, lastLabel.Type, input[p:lastEnd], p, lastEnd)
		p = lastEnd
	}

	out = append(out, Token{Type: TypeEOF, Start: len(input), End: len(input)})
	return out
}

// tokenizeLiterals is the all-literal engine bypass. Patterns were added to
// the automaton longest-first, so the match reported at a position is the
// longest one under both leftmost-first and leftmost-longest semantics.
func (l *Lexer) tokenizeLiterals(input string) []Token {
	haystack := []byte(input)
	var out []Token
	p := 0
	for p < len(input) {
		m := l.literals.Find(haystack, p)
		if m == nil || m.Start != p {
			p = l.emitUnmatched(&out, input, p)
			continue
		}
		lexeme := input[m.Start:m.End]
		l.emit(&out, l.rules[l.literalRule[lexeme]].Type, lexeme, m.Start, m.End)
		p = m.End
	}

	out = append(out, Token{Type: TypeEOF, Start: len(input), End: len(input)})
	return out
}

// emitUnmatched handles a position no rule matches from: whitespace is
// dropped, anything else becomes a single-rune UNKNOWN token. Returns the
// next scan position.
func (l *Lexer) emitUnmatched(out *[]Token, input string, p int) int {
	r, size := utf8.DecodeRuneInString(input[p:])
	if !unicode.IsSpace(r) {
		*out = append(*out, Token{Type: TypeUnknown, Lexeme: input[p : p+size], Start: p, End: p + size})
	}
	return p + size
}

func (l *Lexer) emit(out *[]Token, typ, lexeme string, start, end int) {
	if l.skip[typ] {
		return
	}
	*out = append(*out, Token{Type: typ, Lexeme: lexeme, Start: start, End: end})
}

// buildLiteralScanner installs the Aho-Corasick fast path when every rule
// pattern is a plain literal. Duplicate literals keep the rule of greatest
// priority, the first-declared on ties, matching the token DFA's labeling.
func (l *Lexer) buildLiteralScanner() {
	byLiteral := make(map[string]int)
	for i, r := range l.rules {
		if !r.Literal && !isLiteral(r.Pattern) {
			return
		}
		if j, ok := byLiteral[r.Pattern]; !ok || r.Priority > l.rules[j].Priority {
			byLiteral[r.Pattern] = i
		}
	}

	literals := make([]string, 0, len(byLiteral))
	for lit := range byLiteral {
		literals = append(literals, lit)
	}
	sort.Slice(literals, func(i, j int) bool {
		if len(literals[i]) != len(literals[j]) {
			return len(literals[i]) > len(literals[j])
		}
		return literals[i] < literals[j]
	})

	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern([]byte(lit))
	}
	auto, err := builder.Build()
	if err != nil {
		return
	}
	l.literals = auto
	l.literalRule = byLiteral
}

// isLiteral reports whether pattern contains no regex operators.
func isLiteral(pattern string) bool {
	if pattern == "" {
		return false
	}
	for _, r := range pattern {
		switch r {
		case '|', '*', '+', '?', '(', ')', nfa.Concat:
			return false
		}
	}
	return true
}
