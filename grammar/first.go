package grammar

import "sort"

type symbolSet map[Symbol]bool

// add inserts s and reports whether the set grew.
func (ss symbolSet) add(s Symbol) bool {
	if ss[s] {
		return false
	}
	ss[s] = true
	return true
}

func (ss symbolSet) sorted() []Symbol {
	out := make([]Symbol, 0, len(ss))
	for s := range ss {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Sets holds the FIRST and FOLLOW sets of a grammar's symbols.
type Sets struct {
	g      *Grammar
	first  map[Symbol]symbolSet
	follow map[Symbol]symbolSet
}

// Analyze computes FIRST and FOLLOW for every symbol by changed-flag
// iteration to a fixed point.
func Analyze(g *Grammar) *Sets {
	s := &Sets{
		g:      g,
		first:  make(map[Symbol]symbolSet),
		follow: make(map[Symbol]symbolSet),
	}
	s.computeFirst()
	s.computeFollow()
	return s
}

// First returns FIRST(sym), sorted by name. For a terminal that is {sym}
// itself; ε's FIRST is {ε}.
func (s *Sets) First(sym Symbol) []Symbol {
	return s.firstOf(sym).sorted()
}

// FirstOfSequence returns FIRST over a sequence of symbols, sorted by name.
// An empty sequence yields {ε}.
func (s *Sets) FirstOfSequence(seq []Symbol) []Symbol {
	return s.firstOfSeq(seq).sorted()
}

// Follow returns FOLLOW(sym) for a non-terminal, sorted by name.
func (s *Sets) Follow(sym Symbol) []Symbol {
	return s.follow[sym].sorted()
}

func (s *Sets) firstOf(sym Symbol) symbolSet {
	if sym.IsTerminal() {
		return symbolSet{sym: true}
	}
	if set, ok := s.first[sym]; ok {
		return set
	}
	return symbolSet{}
}

// firstOfSeq applies the sequence rule: accumulate FIRST(Xᵢ)\{ε} while every
// prefix symbol derives ε; if all do, ε joins the result.
func (s *Sets) firstOfSeq(seq []Symbol) symbolSet {
	out := make(symbolSet)
	allNullable := true
	for _, sym := range seq {
		f := s.firstOf(sym)
		for t := range f {
			if t != Epsilon {
				out[t] = true
			}
		}
		if !f[Epsilon] {
			allNullable = false
			break
		}
	}
	if allNullable {
		out[Epsilon] = true
	}
	return out
}

func (s *Sets) computeFirst() {
	for _, nt := range s.g.NonTerminals() {
		s.first[nt] = make(symbolSet)
	}

	for changed := true; changed; {
		changed = false
		for _, p := range s.g.Productions() {
			target := s.first[p.Left]

			rhs := p.Right
			if p.IsEpsilon() {
				rhs = nil
			}
			for t := range s.firstOfSeq(rhs) {
				if target.add(t) {
					changed = true
				}
			}
		}
	}
}

func (s *Sets) computeFollow() {
	for _, nt := range s.g.NonTerminals() {
		s.follow[nt] = make(symbolSet)
	}
	s.follow[s.g.Start()].add(End)

	for changed := true; changed; {
		changed = false
		for _, p := range s.g.Productions() {
			if p.IsEpsilon() {
				continue
			}
			for i, sym := range p.Right {
				if sym.IsTerminal() {
					continue
				}
				beta := p.Right[i+1:]
				fb := s.firstOfSeq(beta)
				for t := range fb {
					if t == Epsilon {
						continue
					}
					if s.follow[sym].add(t) {
						changed = true
					}
				}
				if fb[Epsilon] {
					for t := range s.follow[p.Left] {
						if s.follow[sym].add(t) {
							changed = true
						}
					}
				}
			}
		}
	}
}
