package pipeline

import (
	"errors"
	"fmt"
	"slices"
)

type node struct {
	index    int
	name     string
	system   System
	requires []ResourceState
	produces []ResourceState
	parallel bool

	deps  []int
	layer int
}

// Compile orders the declarations into stages.
//
// Every required state must be produced by some other system; a system's own
// produced states never satisfy its own requirements. A system's layer is one
// more than the highest layer of its producers, or zero without requirements.
// Within a layer, systems in sequence each get a stage of their own, while
// parallel systems share a stage unless one produces a state another
// requires. Stages follow declaration order inside a layer.
//
// Compile returns UnsatisfiedDependencyError (joined when several are found),
// DependencyCycleError, ErrDuplicateSystem or ErrNoSystems.
func Compile(decls ...*Declaration) (*Plan, error) {
	if len(decls) == 0 {
		return nil, ErrNoSystems
	}

	nodes := make([]*node, len(decls))
	names := make(map[string]bool, len(decls))
	for i, d := range decls {
		if names[d.name] {
			return nil, fmt.Errorf("pipeline: %w: %q", ErrDuplicateSystem, d.name)
		}
		names[d.name] = true

		nodes[i] = &node{
			index:    i,
			name:     d.name,
			system:   d.system,
			requires: slices.Clone(d.requires),
			produces: slices.Clone(d.produces),
			parallel: d.parallel,
		}
	}

	if err := linkProducers(nodes); err != nil {
		return nil, err
	}
	if err := assignLayers(nodes); err != nil {
		return nil, err
	}

	return &Plan{
		nodes:  nodes,
		stages: splitStages(nodes),
		graph:  newGraph(nodes),
	}, nil
}

// linkProducers builds the dependency edges from producers to consumers.
func linkProducers(nodes []*node) error {
	producers := make(map[ResourceState][]int)
	for _, n := range nodes {
		for _, rs := range n.produces {
			if !slices.Contains(producers[rs], n.index) {
				producers[rs] = append(producers[rs], n.index)
			}
		}
	}

	var unsatisfied []error
	for _, n := range nodes {
		for _, rs := range n.requires {
			found := false
			for _, p := range producers[rs] {
				if p == n.index {
					continue
				}
				found = true
				if !slices.Contains(n.deps, p) {
					n.deps = append(n.deps, p)
				}
			}
			if !found {
				unsatisfied = append(unsatisfied, &UnsatisfiedDependencyError{System: n.name, Requires: rs})
			}
		}
		slices.Sort(n.deps)
	}

	switch len(unsatisfied) {
	case 0:
		return nil
	case 1:
		return unsatisfied[0]
	default:
		return errors.Join(unsatisfied...)
	}
}

// assignLayers runs a layered topological sort over the dependency edges.
func assignLayers(nodes []*node) error {
	indegree := make([]int, len(nodes))
	dependents := make([][]int, len(nodes))
	for _, n := range nodes {
		for _, p := range n.deps {
			dependents[p] = append(dependents[p], n.index)
			indegree[n.index]++
		}
	}

	queue := make([]int, 0, len(nodes))
	for _, n := range nodes {
		if indegree[n.index] == 0 {
			queue = append(queue, n.index)
		}
	}

	processed := 0
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		processed++

		for _, c := range dependents[i] {
			if layer := nodes[i].layer + 1; layer > nodes[c].layer {
				nodes[c].layer = layer
			}
			indegree[c]--
			if indegree[c] == 0 {
				queue = append(queue, c)
			}
		}
	}

	if processed < len(nodes) {
		return &DependencyCycleError{Systems: findCycle(nodes, indegree)}
	}
	return nil
}

// findCycle walks unresolved producer edges from the first unresolved node
// until a node repeats. Every unresolved node has at least one unresolved
// producer, so the walk always closes a cycle.
func findCycle(nodes []*node, indegree []int) []string {
	start := slices.IndexFunc(indegree, func(d int) bool { return d > 0 })

	position := make(map[int]int)
	var path []int
	for current := start; ; {
		if at, seen := position[current]; seen {
			path = path[at:]
			break
		}
		position[current] = len(path)
		path = append(path, current)

		for _, p := range nodes[current].deps {
			if indegree[p] > 0 {
				current = p
				break
			}
		}
	}

	// path runs consumer -> producer; report producer -> consumer starting
	// from the earliest declared system.
	slices.Reverse(path)
	first := slices.Index(path, slices.Min(path))
	path = append(path[first:], path[:first]...)

	names := make([]string, len(path))
	for i, idx := range path {
		names[i] = nodes[idx].name
	}
	return names
}

type group struct {
	nodes    []*node
	parallel bool
}

// splitStages turns layers into stages. Members of one layer never require a
// state produced by another member: any such producer is a dependency and sits
// in an earlier layer. Every parallel member of a layer therefore joins the
// layer's single parallel group.
func splitStages(nodes []*node) []Stage {
	maxLayer := 0
	for _, n := range nodes {
		maxLayer = max(maxLayer, n.layer)
	}

	layers := make([][]*node, maxLayer+1)
	for _, n := range nodes {
		layers[n.layer] = append(layers[n.layer], n)
	}

	var stages []Stage
	for layer, members := range layers {
		var groups []*group
		var parallel *group
		for _, n := range members {
			if !n.parallel {
				groups = append(groups, &group{nodes: []*node{n}})
				continue
			}

			if parallel == nil {
				parallel = &group{parallel: true}
				groups = append(groups, parallel)
			}
			parallel.nodes = append(parallel.nodes, n)
		}

		for _, g := range groups {
			stages = append(stages, newStage(len(stages), layer, g))
		}
	}
	return stages
}
