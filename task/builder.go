package task

import "fmt"

// GraphBuilder assembles a task Graph programmatically. It replaces the
// teacher's compiler package, which parsed a text DSL (.subs) into a
// model.Graph; this engine builds pipelines in code, so there is no
// parser here, only a fluent construction API over the same underlying
// graph substrate the compiler used to emit.
type GraphBuilder struct {
	g    *Graph
	byID map[string]*Node
}

// NewGraphBuilder creates an empty builder.
func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{g: NewGraph(), byID: make(map[string]*Node)}
}

// AddNode creates a new task node wrapping body and returns its ID for
// use with Connect.
func (b *GraphBuilder) AddNode(name string, body Body, caps Capability) (string, error) {
	n := NewNode(name, body, caps)
	if err := b.g.AddNode(n.ID, n); err != nil {
		return "", err
	}
	b.byID[n.ID] = n
	return n.ID, nil
}

// Connect wires an edge between two previously added nodes under label.
func (b *GraphBuilder) Connect(from, to, label string) error {
	if _, ok := b.byID[from]; !ok {
		return fmt.Errorf("task: builder: unknown source node %q", from)
	}
	if _, ok := b.byID[to]; !ok {
		return fmt.Errorf("task: builder: unknown destination node %q", to)
	}
	return b.g.Connect(from, to, label)
}

// Graph returns the constructed task graph.
func (b *GraphBuilder) Graph() *Graph { return b.g }
