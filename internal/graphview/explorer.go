// Package graphview exposes a finalized project model as a traversable
// directed graph for consumers that render diagrams or answer dependency
// queries. It only reads the model; the model stays immutable.
package graphview

import (
	"fmt"
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/jlens/jlens/internal/model"
)

// Explorer answers neighborhood and reachability queries over the
// relationship edge set of one project model.
type Explorer struct {
	model *model.ProjectModel
	graph graph.Graph[string, model.ClassRecord]

	// Reverse indexes per direction, built once.
	outgoing map[string][]model.RelationshipEdge
	incoming map[string][]model.RelationshipEdge
}

// NewExplorer builds the in-memory graph from the model's classes and
// edges. Every edge endpoint is guaranteed present in the class map by the
// aggregator, so vertex lookups cannot dangle.
func NewExplorer(m *model.ProjectModel) (*Explorer, error) {
	e := &Explorer{
		model:    m,
		graph:    graph.New(func(c model.ClassRecord) string { return c.QualifiedName }, graph.Directed()),
		outgoing: make(map[string][]model.RelationshipEdge),
		incoming: make(map[string][]model.RelationshipEdge),
	}

	for _, class := range m.Classes() {
		if err := e.graph.AddVertex(class); err != nil {
			return nil, fmt.Errorf("failed to add class %s: %w", class.QualifiedName, err)
		}
	}

	for _, edge := range m.Edges() {
		// Parallel edges of different kinds collapse into one graph edge;
		// the kind-level detail stays in the indexes.
		_ = e.graph.AddEdge(edge.From, edge.To)
		e.outgoing[edge.From] = append(e.outgoing[edge.From], edge)
		e.incoming[edge.To] = append(e.incoming[edge.To], edge)
	}

	return e, nil
}

// Outgoing returns the edges leaving the given class.
func (e *Explorer) Outgoing(qualifiedName string) []model.RelationshipEdge {
	return append([]model.RelationshipEdge(nil), e.outgoing[qualifiedName]...)
}

// Incoming returns the edges arriving at the given class.
func (e *Explorer) Incoming(qualifiedName string) []model.RelationshipEdge {
	return append([]model.RelationshipEdge(nil), e.incoming[qualifiedName]...)
}

// Supertypes returns the classes the given class extends or implements.
func (e *Explorer) Supertypes(qualifiedName string) []string {
	var out []string
	for _, edge := range e.outgoing[qualifiedName] {
		if edge.Kind == model.EdgeInheritance || edge.Kind == model.EdgeImplementation {
			out = append(out, edge.To)
		}
	}
	sort.Strings(out)
	return out
}

// Subtypes returns the classes that extend or implement the given class.
func (e *Explorer) Subtypes(qualifiedName string) []string {
	var out []string
	for _, edge := range e.incoming[qualifiedName] {
		if edge.Kind == model.EdgeInheritance || edge.Kind == model.EdgeImplementation {
			out = append(out, edge.From)
		}
	}
	sort.Strings(out)
	return out
}

// Reachable walks outgoing edges breadth-first up to depth hops and returns
// the reached classes (excluding the start) in deterministic order:
// ascending depth, then qualified name.
func (e *Explorer) Reachable(qualifiedName string, depth int) ([]string, error) {
	if _, err := e.graph.Vertex(qualifiedName); err != nil {
		return nil, fmt.Errorf("unknown class %s: %w", qualifiedName, err)
	}
	if depth <= 0 {
		depth = 1
	}

	type visit struct {
		name  string
		depth int
	}

	seen := map[string]bool{qualifiedName: true}
	queue := []visit{{name: qualifiedName, depth: 0}}
	var reached []visit

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.depth == depth {
			continue
		}

		var next []string
		for _, edge := range e.outgoing[current.name] {
			next = append(next, edge.To)
		}
		sort.Strings(next)

		for _, name := range next {
			if seen[name] {
				continue
			}
			seen[name] = true
			v := visit{name: name, depth: current.depth + 1}
			reached = append(reached, v)
			queue = append(queue, v)
		}
	}

	sort.SliceStable(reached, func(i, j int) bool {
		if reached[i].depth != reached[j].depth {
			return reached[i].depth < reached[j].depth
		}
		return reached[i].name < reached[j].name
	})

	out := make([]string, 0, len(reached))
	for _, v := range reached {
		out = append(out, v.name)
	}
	return out, nil
}
