package graph

import (
	"slices"
	"strings"

	"github.com/NielsdaWheelz/wsgen/internal/errors"
)

// checkAcyclic reports the first cycle as E_CYCLIC_DEPENDENCY. The cycle
// starts at the lexicographically smallest node that lies on any cycle and
// follows sorted neighbours, so the report is stable across runs.
func checkAcyclic(g *Graph) error {
	sccs := stronglyConnected(g)
	var start string
	var members map[string]bool
	for _, scc := range sccs {
		cyclic := len(scc) > 1
		if len(scc) == 1 {
			n := g.nodes[scc[0]]
			cyclic = slices.Contains(n.DependsOn, n.ID)
		}
		if !cyclic {
			continue
		}
		smallest := slices.Min(scc)
		if start == "" || smallest < start {
			start = smallest
			members = make(map[string]bool, len(scc))
			for _, id := range scc {
				members[id] = true
			}
		}
	}
	if start == "" {
		return nil
	}
	cycle := findCycle(g, start, members)
	return errors.WithHint(
		errors.NewWithDetails(errors.ECyclicDependency,
			"workspace dependencies form a cycle: "+strings.Join(cycle, " -> "),
			map[string]string{"cycle": strings.Join(cycle, " -> ")}),
		"remove one of the package_links entries that close the cycle")
}

// stronglyConnected runs Tarjan's algorithm over the graph in insertion order.
func stronglyConnected(g *Graph) [][]string {
	var (
		index   = make(map[string]int, len(g.order))
		low     = make(map[string]int, len(g.order))
		onStack = make(map[string]bool, len(g.order))
		stack   []string
		next    int
		out     [][]string
	)
	var visit func(id string)
	visit = func(id string) {
		index[id] = next
		low[id] = next
		next++
		stack = append(stack, id)
		onStack[id] = true

		for _, dep := range g.nodes[id].DependsOn {
			if _, seen := index[dep]; !seen {
				visit(dep)
				low[id] = min(low[id], low[dep])
			} else if onStack[dep] {
				low[id] = min(low[id], index[dep])
			}
		}

		if low[id] == index[id] {
			var scc []string
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				scc = append(scc, top)
				if top == id {
					break
				}
			}
			out = append(out, scc)
		}
	}
	for _, id := range g.order {
		if _, seen := index[id]; !seen {
			visit(id)
		}
	}
	return out
}

// findCycle returns a path start -> ... -> start within one SCC, taking
// neighbours in sorted order.
func findCycle(g *Graph, start string, members map[string]bool) []string {
	visited := map[string]bool{}
	var path []string
	var dfs func(id string) bool
	dfs = func(id string) bool {
		path = append(path, id)
		deps := slices.Clone(g.nodes[id].DependsOn)
		slices.Sort(deps)
		for _, dep := range deps {
			if !members[dep] {
				continue
			}
			if dep == start {
				path = append(path, start)
				return true
			}
			if !visited[dep] {
				visited[dep] = true
				if dfs(dep) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		return false
	}
	visited[start] = true
	dfs(start)
	return path
}

// TopoOrder returns node ids with every dependency before its dependents.
// Ties keep insertion order.
func (g *Graph) TopoOrder() ([]string, error) {
	levels, err := g.levelIDs()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, lvl := range levels {
		out = append(out, lvl...)
	}
	return out, nil
}

// Levels groups nodes by dependency depth: level 0 has no dependencies and
// every node sits one level above its deepest dependency. Nodes within a
// level are independent of each other and keep insertion order.
func (g *Graph) Levels() [][]*Node {
	ids, err := g.levelIDs()
	if err != nil {
		// Build rejects cyclic graphs.
		panic(err)
	}
	out := make([][]*Node, len(ids))
	for i, lvl := range ids {
		for _, id := range lvl {
			out[i] = append(out[i], g.nodes[id])
		}
	}
	return out
}

func (g *Graph) levelIDs() ([][]string, error) {
	depth := make(map[string]int, len(g.order))
	remaining := slices.Clone(g.order)
	for len(remaining) > 0 {
		progressed := false
		var next []string
		for _, id := range remaining {
			d, ready := 0, true
			for _, dep := range g.nodes[id].DependsOn {
				dd, done := depth[dep]
				if !done {
					ready = false
					break
				}
				d = max(d, dd+1)
			}
			if ready {
				depth[id] = d
				progressed = true
			} else {
				next = append(next, id)
			}
		}
		if !progressed {
			return nil, errors.NewWithDetails(errors.ECyclicDependency,
				"workspace dependencies form a cycle",
				map[string]string{"nodes": strings.Join(next, ",")})
		}
		remaining = next
	}

	var out [][]string
	for _, id := range g.order {
		d := depth[id]
		for len(out) <= d {
			out = append(out, nil)
		}
		out[d] = append(out[d], id)
	}
	return out, nil
}
