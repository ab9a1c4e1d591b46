package resolve

import "sort"

// tarjanSCC partitions g into strongly connected components, per §4.3
// step 4. Only components that are genuinely cyclic are returned: every
// multi-member component, plus any singleton that has an edge to
// itself. Acyclic singletons are dropped since the IR builder has no
// use for them (they need no indirection).
//
// Traversal order over g.edges is made deterministic by sorting nodes
// by QualifiedName before the initial DFS pass, and each returned
// component's members are sorted by QualifiedName too, matching §4.3's
// "members are sorted by QualifiedName for determinism" tie-break.
func tarjanSCC(g *Graph) [][]Key {
	nodes := allNodes(g)

	var (
		index   = map[Key]int{}
		lowlink = map[Key]int{}
		onStack = map[Key]bool{}
		stack   []Key
		counter int
		result  [][]Key
	)

	var strongconnect func(v Key)
	strongconnect = func(v Key) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		neighbors := append([]Key(nil), g.edges[v]...)
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].QName.String() < neighbors[j].QName.String() })

		for _, w := range neighbors {
			if _, visited := index[w]; !visited {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if index[w] < lowlink[v] {
					lowlink[v] = index[w]
				}
			}
		}

		if lowlink[v] == index[v] {
			var component []Key
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			if isCyclic(g, component) {
				sort.Slice(component, func(i, j int) bool { return component[i].QName.String() < component[j].QName.String() })
				result = append(result, component)
			}
		}
	}

	for _, n := range nodes {
		if _, visited := index[n]; !visited {
			strongconnect(n)
		}
	}
	return result
}

func isCyclic(g *Graph, component []Key) bool {
	if len(component) > 1 {
		return true
	}
	v := component[0]
	for _, w := range g.edges[v] {
		if w == v {
			return true
		}
	}
	return false
}

// allNodes returns every Key that appears as an edge source or target,
// sorted by QualifiedName so the DFS visiting order (and thus which
// member becomes a component's "root" during the walk) is stable across
// runs.
func allNodes(g *Graph) []Key {
	seen := map[Key]bool{}
	var out []Key
	for from, tos := range g.edges {
		if !seen[from] {
			seen[from] = true
			out = append(out, from)
		}
		for _, to := range tos {
			if !seen[to] {
				seen[to] = true
				out = append(out, to)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QName.String() < out[j].QName.String() })
	return out
}
