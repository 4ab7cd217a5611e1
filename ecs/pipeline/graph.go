package pipeline

import "slices"

// Graph is the resource state graph of a compiled plan: every resource, the
// states it passes through in one frame, and which systems produce and
// consume each state.
type Graph struct {
	resources []string
	states    map[string][]string
	producers map[ResourceState][]string
	consumers map[ResourceState][]string
}

func newGraph(nodes []*node) *Graph {
	g := &Graph{
		states:    make(map[string][]string),
		producers: make(map[ResourceState][]string),
		consumers: make(map[ResourceState][]string),
	}

	for _, n := range nodes {
		for _, rs := range n.produces {
			g.addState(rs)
			if !slices.Contains(g.producers[rs], n.name) {
				g.producers[rs] = append(g.producers[rs], n.name)
			}
		}
	}
	for _, n := range nodes {
		for _, rs := range n.requires {
			if !slices.Contains(g.consumers[rs], n.name) {
				g.consumers[rs] = append(g.consumers[rs], n.name)
			}
		}
	}
	return g
}

func (g *Graph) addState(rs ResourceState) {
	states, known := g.states[rs.Resource]
	if !known {
		g.resources = append(g.resources, rs.Resource)
	}
	if !slices.Contains(states, rs.State) {
		g.states[rs.Resource] = append(states, rs.State)
	}
}

// Resources returns resource names in order of first production.
func (g *Graph) Resources() []string {
	return slices.Clone(g.resources)
}

// States returns the produced states of resource in order of first production.
func (g *Graph) States(resource string) []string {
	return slices.Clone(g.states[resource])
}

// Producers returns the systems producing rs, in declaration order.
func (g *Graph) Producers(rs ResourceState) []string {
	return slices.Clone(g.producers[rs])
}

// Consumers returns the systems requiring rs, in declaration order.
func (g *Graph) Consumers(rs ResourceState) []string {
	return slices.Clone(g.consumers[rs])
}
