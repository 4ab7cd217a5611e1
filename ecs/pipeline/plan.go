package pipeline

import (
	"fmt"
	"strings"
)

// Stage is a set of systems that run together. Stages are separated by a
// barrier: every member of a stage finishes before the next stage starts.
type Stage struct {
	Index    int
	Layer    int
	Parallel bool
	Systems  []string

	nodes []*node
}

func newStage(index, layer int, g *group) Stage {
	s := Stage{
		Index:    index,
		Layer:    layer,
		Parallel: g.parallel,
		nodes:    g.nodes,
	}
	for _, n := range g.nodes {
		s.Systems = append(s.Systems, n.name)
	}
	return s
}

// concurrent reports whether members may be dispatched concurrently.
func (s *Stage) concurrent() bool {
	return s.Parallel && len(s.nodes) > 1
}

// Plan is an immutable, compiled stage ordering. Recompile whenever the
// declarations change.
type Plan struct {
	nodes  []*node
	stages []Stage
	graph  *Graph
}

// Stages returns the compiled stages in execution order.
func (p *Plan) Stages() []Stage {
	stages := make([]Stage, len(p.stages))
	for i, s := range p.stages {
		s.Systems = append([]string(nil), s.Systems...)
		stages[i] = s
	}
	return stages
}

// Len returns the number of stages.
func (p *Plan) Len() int {
	return len(p.stages)
}

// Systems returns system names in declaration order.
func (p *Plan) Systems() []string {
	names := make([]string, len(p.nodes))
	for i, n := range p.nodes {
		names[i] = n.name
	}
	return names
}

// StageOf returns the stage index of the named system.
func (p *Plan) StageOf(name string) (int, bool) {
	for _, s := range p.stages {
		for _, n := range s.nodes {
			if n.name == name {
				return s.Index, true
			}
		}
	}
	return 0, false
}

// Graph returns the resource state graph the plan was compiled from.
func (p *Plan) Graph() *Graph {
	return p.graph
}

func (p *Plan) String() string {
	var sb strings.Builder
	for _, s := range p.stages {
		fmt.Fprintf(&sb, "stage %d: [%s]", s.Index, strings.Join(s.Systems, ", "))
		if s.concurrent() {
			sb.WriteString(" (parallel)")
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
