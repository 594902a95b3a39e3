package lr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coregx/parsekit/grammar"
)

// Item is an LR(1) item: a production (by index into the augmented
// production list), a dot position over its effective right-hand side, and a
// lookahead terminal. Equality is structural on all three, so items are map
// keys directly.
type Item struct {
	Prod      int
	Dot       int
	Lookahead grammar.Symbol
}

// kernelEntry is an item stripped of its lookahead. Two states belong to the
// same LALR(1) class iff their kernel-entry sets are equal.
type kernelEntry struct {
	Prod int
	Dot  int
}

type itemSet map[Item]struct{}

func (s itemSet) add(it Item) bool {
	if _, ok := s[it]; ok {
		return false
	}
	s[it] = struct{}{}
	return true
}

// sorted returns the items ordered by (production, dot, lookahead name).
// Every iteration that affects observable output goes through this.
func (s itemSet) sorted() []Item {
	out := make([]Item, 0, len(s))
	for it := range s {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Prod != out[j].Prod {
			return out[i].Prod < out[j].Prod
		}
		if out[i].Dot != out[j].Dot {
			return out[i].Dot < out[j].Dot
		}
		return out[i].Lookahead.Name < out[j].Lookahead.Name
	})
	return out
}

// key canonicalizes the set for state identity lookups.
func (s itemSet) key() string {
	var sb strings.Builder
	for _, it := range s.sorted() {
		fmt.Fprintf(&sb, "%d.%d.%s;", it.Prod, it.Dot, it.Lookahead.Name)
	}
	return sb.String()
}

// kernelKey canonicalizes the kernel-entry set: items with the dot past
// position 0, plus the augmented start item, lookaheads dropped.
func (s itemSet) kernelKey() string {
	seen := make(map[kernelEntry]bool)
	var entries []kernelEntry
	for it := range s {
		if it.Dot == 0 && it.Prod != 0 {
			continue
		}
		e := kernelEntry{Prod: it.Prod, Dot: it.Dot}
		if !seen[e] {
			seen[e] = true
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Prod != entries[j].Prod {
			return entries[i].Prod < entries[j].Prod
		}
		return entries[i].Dot < entries[j].Dot
	})

	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%d.%d;", e.Prod, e.Dot)
	}
	return sb.String()
}
