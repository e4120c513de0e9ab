package dependency

import (
	"errors"
	"sort"

	"github.com/tfcanvas/canvas/internal/diagram"
)

// ErrCycle is returned when the dependency graph contains a cycle.
var ErrCycle = errors.New("dependency cycle detected")

// Resolve builds the dependency graph from edges and returns:
// - ordered: node IDs in topological order (dependencies first)
// - tiers: node IDs grouped by depth (tier 0 = no deps, tier 1 = depend only on tier 0, etc.)
//
// Within a tier nodes keep diagram order. Self-loops, duplicate edges and
// edges to unknown nodes are ignored.
func Resolve(d *diagram.Diagram) (ordered []string, tiers [][]string, err error) {
	if d == nil || len(d.Nodes) == 0 {
		return nil, nil, nil
	}

	index := make(map[string]int, len(d.Nodes))
	for i := range d.Nodes {
		if _, dup := index[d.Nodes[i].ID]; !dup {
			index[d.Nodes[i].ID] = i
		}
	}

	// target depends on source => inDegree[target] = number of edges into target
	inDegree := make(map[string]int, len(index))
	next := make(map[string][]string)
	seen := make(map[[2]string]bool)
	for _, e := range d.Edges {
		_, okS := index[e.Source]
		_, okT := index[e.Target]
		if !okS || !okT || e.Source == e.Target {
			continue
		}
		k := [2]string{e.Source, e.Target}
		if seen[k] {
			continue
		}
		seen[k] = true
		inDegree[e.Target]++
		next[e.Source] = append(next[e.Source], e.Target)
	}

	var queue []string
	for i := range d.Nodes {
		id := d.Nodes[i].ID
		if index[id] == i && inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	ordered = make([]string, 0, len(index))
	for len(queue) > 0 {
		tier := make([]string, len(queue))
		copy(tier, queue)
		tiers = append(tiers, tier)
		var released []string
		for _, u := range queue {
			ordered = append(ordered, u)
			for _, v := range next[u] {
				inDegree[v]--
				if inDegree[v] == 0 {
					released = append(released, v)
				}
			}
		}
		sortByIndex(released, index)
		queue = released
	}

	if len(ordered) != len(index) {
		return nil, nil, ErrCycle
	}
	return ordered, tiers, nil
}

func sortByIndex(ids []string, index map[string]int) {
	sort.Slice(ids, func(i, j int) bool { return index[ids[i]] < index[ids[j]] })
}
