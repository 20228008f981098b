package graph

import "fmt"

// Split duplicates each path returned by Paths(include) copies-1
// additional times, so that a single GPU-only run through the pipeline
// becomes n independent parallel runs - one per available GPU. clone
// produces an independent payload for a duplicated node; newID generates
// a fresh, unused node ID for the i'th duplicate (i starting at 1) of the
// node original.
//
// Rewiring follows the same convention ufo_task_graph_split uses: for
// each predecessor of the path's head, an edge is added to every
// duplicate head under the same label the original edge carried; for
// each successor of the path's tail, an edge is added from every
// duplicate tail under the same label. The original path and its edges
// are left untouched - Split is purely additive.
func (g *Graph[T]) Split(include func(id string, payload T) bool, copies int, clone func(T) T, newID func(original string, i int) string) error {
	if copies < 1 {
		return fmt.Errorf("graph: split requires copies >= 1, got %d", copies)
	}
	if copies == 1 {
		return nil
	}

	paths := g.Paths(include)
	for _, path := range paths {
		if err := g.splitPath(path, copies, clone, newID); err != nil {
			return err
		}
	}
	return nil
}

func (g *Graph[T]) splitPath(path []string, copies int, clone func(T) T, newID func(string, int) string) error {
	head, tail := path[0], path[len(path)-1]
	preds := append([]Edge(nil), g.in[head]...)
	succs := append([]Edge(nil), g.out[tail]...)

	for i := 1; i < copies; i++ {
		idMap := make(map[string]string, len(path))
		for _, original := range path {
			idMap[original] = newID(original, i)
		}

		for _, original := range path {
			payload, ok := g.payload[original]
			if !ok {
				return fmt.Errorf("graph: split: node %q missing payload", original)
			}
			if err := g.AddNode(idMap[original], clone(payload)); err != nil {
				return err
			}
		}

		for j := 0; j < len(path)-1; j++ {
			from, to := path[j], path[j+1]
			label := edgeLabel(g.out[from], to)
			if err := g.Connect(idMap[from], idMap[to], label); err != nil {
				return err
			}
		}

		for _, e := range preds {
			if err := g.Connect(e.From, idMap[head], e.Label); err != nil {
				return err
			}
		}
		for _, e := range succs {
			if err := g.Connect(idMap[tail], e.To, e.Label); err != nil {
				return err
			}
		}
	}
	return nil
}

func edgeLabel(edges []Edge, to string) string {
	for _, e := range edges {
		if e.To == to {
			return e.Label
		}
	}
	return ""
}

// Fuse is an explicit no-op, mirroring ufo_task_graph_fuse: merging
// adjacent single-consumer nodes into one scheduling unit is a real
// optimization this engine does not yet implement.
func (g *Graph[T]) Fuse() {}
