package graph

// reach returns every node reachable from start through dependency edges,
// start included, both in breadth-first order and as a set.
//
// The visited set makes the walk terminate on cyclic input; each node is
// expanded at most once.
func reach(start string, deps map[string][]string) ([]string, Set) {
	visited := NewSet(start)
	order := []string{start}

	for i := 0; i < len(order); i++ {
		for _, dep := range deps[order[i]] {
			if visited.Has(dep) {
				continue
			}
			visited.Add(dep)
			order = append(order, dep)
		}
	}
	return order, visited
}

// countLeaves counts members of chain without dependencies.
func countLeaves(chain Set, deps map[string][]string) int {
	count := 0
	for name := range chain {
		if len(deps[name]) == 0 {
			count++
		}
	}
	return count
}

// referencedFromOutside reports whether any member of chain has a dependent
// that is not itself a member. It stops at the first such dependent.
func referencedFromOutside(chain Set, incoming map[string]Set) bool {
	for name := range chain {
		for dependent := range incoming[name] {
			if !chain.Has(dependent) {
				return true
			}
		}
	}
	return false
}

// externalReferences counts the members of chain that have at least one
// dependent outside it, and the distinct outside dependents.
func externalReferences(chain Set, incoming map[string]Set) (nodes, referencers int) {
	outside := make(Set)
	for name := range chain {
		found := false
		for dependent := range incoming[name] {
			if !chain.Has(dependent) {
				outside.Add(dependent)
				found = true
			}
		}
		if found {
			nodes++
		}
	}
	return nodes, len(outside)
}
