package dfa

// Minimize collapses equivalent states with the table-filling algorithm.
//
// A pair of states is distinguishable when their final flags differ, when
// their accept labels name different token types, or when some symbol leads
// exactly one of them onward or leads both to a distinguishable pair. All
// remaining pairs are merged through a union-find; the rebuilt automaton
// assigns new ids by first encounter over the id-sorted originals, so
// minimizing equal inputs yields identical results.
func Minimize(d *DFA) *DFA {
	n := d.States()
	if n == 0 {
		return d
	}

	// dist[i][j] with i < j marks distinguishable pairs.
	dist := make([][]bool, n)
	for i := range dist {
		dist[i] = make([]bool, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			si, sj := &d.states[i], &d.states[j]
			if si.final != sj.final || !sameLabel(si.label, sj.label) {
				dist[i][j] = true
			}
		}
	}

	for changed := true; changed; {
		changed = false
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if dist[i][j] {
					continue
				}
				if d.pairDistinguishable(i, j, dist) {
					dist[i][j] = true
					changed = true
				}
			}
		}
	}

	// Merge unmarked pairs with union-find: path compression, naive union.
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !dist[i][j] {
				union(i, j)
			}
		}
	}

	// Rebuild one representative state per equivalence class.
	newID := make(map[int]StateID)
	var order []int
	for i := 0; i < n; i++ {
		root := find(i)
		if _, ok := newID[root]; !ok {
			newID[root] = StateID(len(order))
			order = append(order, root)
		}
	}

	states := make([]State, len(order))
	for idx, root := range order {
		old := &d.states[root]
		trans := make(map[rune]StateID, len(old.trans))
		for r, t := range old.trans {
			trans[r] = newID[find(int(t))]
		}
		states[idx] = State{
			id:    StateID(idx),
			set:   old.set,
			final: old.final,
			label: old.label,
			trans: trans,
		}
	}

	return &DFA{
		states:   states,
		start:    newID[find(int(d.start))],
		alphabet: d.alphabet,
	}
}

// pairDistinguishable checks one refinement step for an unmarked pair.
func (d *DFA) pairDistinguishable(i, j int, dist [][]bool) bool {
	si, sj := &d.states[i], &d.states[j]
	for _, r := range d.alphabet {
		ti, oki := si.trans[r]
		tj, okj := sj.trans[r]
		if oki != okj {
			return true
		}
		if !oki {
			continue
		}
		a, b := int(ti), int(tj)
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		if dist[a][b] {
			return true
		}
	}
	return false
}

// sameLabel compares accept labels by token type. Distinct types must stay
// distinguishable so minimization cannot merge away token identity.
func sameLabel(a, b *Label) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Type == b.Type
}
