package task

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/srgblnch/ufoengine/graph"
)

// Graph is a task graph: a generic DAG substrate whose node payloads are
// *Node. All of this package's graph-level operations (Split, Map) work
// against this alias rather than the bare graph.Graph[*Node] spelling.
type Graph = graph.Graph[*Node]

// NewGraph creates an empty task graph.
func NewGraph() *Graph { return graph.New[*Node]() }

func isGPUCapable(_ string, n *Node) bool { return n != nil && n.IsGPU() }

// Split duplicates every maximal GPU-only run through g so that it runs
// gpuCount times in parallel, one copy per available GPU, following
// ufo_task_graph_split. If gpuCount <= 1 there is at most one GPU to use
// and Split is a no-op.
func Split(g *Graph, gpuCount int) error {
	if gpuCount < 1 {
		gpuCount = 1
	}
	clone := func(n *Node) *Node {
		c := &Node{
			ID:           uuid.NewString(),
			Name:         n.Name,
			Body:         n.Body,
			Capabilities: n.Capabilities,
		}
		return c
	}
	newID := func(original string, i int) string {
		return fmt.Sprintf("%s/split%d", original, i)
	}
	return g.Split(isGPUCapable, gpuCount, clone, newID)
}

// Map assigns every capability-tagged node in g to a concrete resource
// from arch, following map_proc_node: a depth-first walk from the
// graph's roots assigns GPU-capable and input-source nodes round-robin
// across arch.GPUs (proc_index advances by one at every successor
// visited, wrapping modulo len(arch.GPUs)), while remote-capable nodes
// are always handed to arch.Selector regardless of the walk position.
// CPU-only nodes are left with a nil Proc.
func Map(g *Graph, arch *ArchGraph) error {
	visited := make(map[string]bool)
	for _, root := range g.Roots() {
		// Start at -1 so the first child visited (offset 0 among its
		// siblings) lands on fanout index 0, not 1: the root itself
		// consumes no GPU slot, but its children's branch offsets must
		// start counting from zero.
		if err := mapFrom(g, arch, root, -1, visited); err != nil {
			return err
		}
	}
	return nil
}

func mapFrom(g *Graph, arch *ArchGraph, id string, procIndex int, visited map[string]bool) error {
	if visited[id] {
		return nil
	}
	visited[id] = true

	n, ok := g.Payload(id)
	if !ok {
		return fmt.Errorf("task: map: unknown node %q", id)
	}

	switch {
	case n.IsRemote():
		selector := arch.Selector
		if selector == nil {
			selector = FirstRemoteNode{}
		}
		remote, err := selector.Select(arch.Remotes, n)
		if err != nil {
			return err
		}
		n.Proc = remote
	case n.IsGPU() || n.IsInputSource():
		if len(arch.GPUs) == 0 {
			return fmt.Errorf("task: map: node %q requires a GPU but none are enumerated", n.Name)
		}
		slot := procIndex % len(arch.GPUs)
		if slot < 0 {
			slot += len(arch.GPUs)
		}
		n.Proc = arch.GPUs[slot]
	}

	nextIndex := procIndex
	for _, e := range g.Successors(id) {
		if err := mapFrom(g, arch, e.To, nextIndex+1, visited); err != nil {
			return err
		}
		nextIndex++
	}
	return nil
}
