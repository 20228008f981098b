// Package graph implements the generic directed-acyclic-graph substrate
// the dataflow engine builds pipelines on top of. A Graph carries an
// arbitrary payload type per node - task.Node in the common case - and
// knows nothing about scheduling, capabilities, or buffers; everything
// here is pure topology: edges, traversal, path enumeration and the
// structural split transform.
//
// The traversal style (adjacency maps plus Kahn's algorithm for ordering)
// is carried over from model.Graph's topologicalSort, generalized from a
// fixed opcode-node shape to an arbitrary payload type via a Go generic.
package graph

import (
	"fmt"
)

// Edge connects two nodes by ID under a label. Labels distinguish between
// multiple input ports on the same consumer node (e.g. a reducer's "data"
// and "weights" inputs).
type Edge struct {
	From, To string
	Label    string
}

// Graph is a directed acyclic graph of nodes carrying a T payload each.
type Graph[T any] struct {
	order   []string // insertion order, used to make traversal deterministic
	payload map[string]T
	out     map[string][]Edge
	in      map[string][]Edge
}

// New creates an empty graph.
func New[T any]() *Graph[T] {
	return &Graph[T]{
		payload: make(map[string]T),
		out:     make(map[string][]Edge),
		in:      make(map[string][]Edge),
	}
}

// AddNode registers a node under id with the given payload. AddNode
// returns an error if id is already present, mirroring model.Graph's
// duplicate-ID rejection in Validate.
func (g *Graph[T]) AddNode(id string, payload T) error {
	if _, exists := g.payload[id]; exists {
		return fmt.Errorf("graph: duplicate node id %q", id)
	}
	g.order = append(g.order, id)
	g.payload[id] = payload
	return nil
}

// Connect adds a directed edge from -> to under label. Both nodes must
// already exist.
func (g *Graph[T]) Connect(from, to, label string) error {
	if _, ok := g.payload[from]; !ok {
		return fmt.Errorf("graph: unknown source node %q", from)
	}
	if _, ok := g.payload[to]; !ok {
		return fmt.Errorf("graph: unknown destination node %q", to)
	}
	e := Edge{From: from, To: to, Label: label}
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)
	return nil
}

// NodeIDs returns every node ID in insertion order.
func (g *Graph[T]) NodeIDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// Payload returns the payload stored for id and whether id exists.
func (g *Graph[T]) Payload(id string) (T, bool) {
	p, ok := g.payload[id]
	return p, ok
}

// SetPayload replaces the payload stored for an existing node. Used by
// transforms (task.Map) that annotate nodes in place after the graph has
// been built.
func (g *Graph[T]) SetPayload(id string, payload T) {
	if _, ok := g.payload[id]; ok {
		g.payload[id] = payload
	}
}

// Successors returns the outgoing edges of id.
func (g *Graph[T]) Successors(id string) []Edge {
	return g.out[id]
}

// Predecessors returns the incoming edges of id.
func (g *Graph[T]) Predecessors(id string) []Edge {
	return g.in[id]
}

// Roots returns nodes with no incoming edges, in insertion order.
func (g *Graph[T]) Roots() []string {
	var roots []string
	for _, id := range g.order {
		if len(g.in[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// Leaves returns nodes with no outgoing edges, in insertion order.
func (g *Graph[T]) Leaves() []string {
	var leaves []string
	for _, id := range g.order {
		if len(g.out[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

// TopologicalOrder returns node IDs in dependency order using Kahn's
// algorithm, the same approach model.Graph.topologicalSort used for a
// fixed-shape node. It returns an error if the graph contains a cycle.
func (g *Graph[T]) TopologicalOrder() ([]string, error) {
	inDegree := make(map[string]int, len(g.order))
	for _, id := range g.order {
		inDegree[id] = len(g.in[id])
	}

	queue := make([]string, 0)
	for _, id := range g.order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(g.order))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		for _, e := range g.out[current] {
			inDegree[e.To]--
			if inDegree[e.To] == 0 {
				queue = append(queue, e.To)
			}
		}
	}

	if len(order) != len(g.order) {
		return nil, fmt.Errorf("graph: cycle detected (%d of %d nodes ordered)", len(order), len(g.order))
	}
	return order, nil
}

// Paths enumerates every maximal simple path through nodes that satisfy
// include, starting a new path whenever a node fails the predicate or an
// included node has more than one included predecessor. This is the
// structural building block task.Split uses to find the GPU-only runs in
// a pipeline: include would be "is this task GPU-capable".
func (g *Graph[T]) Paths(include func(id string, payload T) bool) [][]string {
	order, err := g.TopologicalOrder()
	if err != nil {
		// a cyclic graph has no well-defined path set; callers validate
		// acyclicity before building a pipeline, so this is defensive.
		order = g.order
	}

	var paths [][]string
	var current []string

	includedPredecessorCount := func(id string) int {
		n := 0
		for _, e := range g.in[id] {
			if p, ok := g.payload[e.From]; ok && include(e.From, p) {
				n++
			}
		}
		return n
	}

	flush := func() {
		if len(current) > 0 {
			paths = append(paths, current)
			current = nil
		}
	}

	for _, id := range order {
		p := g.payload[id]
		if !include(id, p) {
			flush()
			continue
		}
		if includedPredecessorCount(id) != 1 {
			flush()
		}
		current = append(current, id)
	}
	flush()
	return paths
}
