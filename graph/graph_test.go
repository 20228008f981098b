package graph

import (
	"reflect"
	"testing"
)

func TestAddNodeRejectsDuplicates(t *testing.T) {
	t.Parallel()
	g := New[int]()
	if err := g.AddNode("a", 1); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	if err := g.AddNode("a", 2); err == nil {
		t.Error("AddNode() with duplicate id should fail")
	}
}

func TestConnectRequiresExistingNodes(t *testing.T) {
	t.Parallel()
	g := New[int]()
	g.AddNode("a", 1)
	if err := g.Connect("a", "b", "default"); err == nil {
		t.Error("Connect() to unknown node should fail")
	}
}

func TestRootsAndLeaves(t *testing.T) {
	t.Parallel()
	g := New[int]()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(id, 0)
	}
	g.Connect("a", "b", "default")
	g.Connect("b", "c", "default")

	if got := g.Roots(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Roots() = %v, want [a]", got)
	}
	if got := g.Leaves(); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("Leaves() = %v, want [c]", got)
	}
}

func TestTopologicalOrderDetectsCycle(t *testing.T) {
	t.Parallel()
	g := New[int]()
	g.AddNode("a", 0)
	g.AddNode("b", 0)
	g.Connect("a", "b", "default")
	g.Connect("b", "a", "default")

	if _, err := g.TopologicalOrder(); err == nil {
		t.Error("TopologicalOrder() on cyclic graph should fail")
	}
}

func TestPathsSplitsAtExclusion(t *testing.T) {
	t.Parallel()
	g := New[string]()
	g.AddNode("a", "cpu")
	g.AddNode("b", "gpu")
	g.AddNode("c", "gpu")
	g.AddNode("d", "cpu")
	g.Connect("a", "b", "default")
	g.Connect("b", "c", "default")
	g.Connect("c", "d", "default")

	isGPU := func(_ string, kind string) bool { return kind == "gpu" }
	paths := g.Paths(isGPU)
	if len(paths) != 1 {
		t.Fatalf("Paths() returned %d paths, want 1", len(paths))
	}
	if !reflect.DeepEqual(paths[0], []string{"b", "c"}) {
		t.Errorf("Paths()[0] = %v, want [b c]", paths[0])
	}
}

func TestPathsBreaksAtFanIn(t *testing.T) {
	t.Parallel()
	g := New[string]()
	g.AddNode("a", "gpu")
	g.AddNode("b", "gpu")
	g.AddNode("c", "gpu")
	g.Connect("a", "c", "default")
	g.Connect("b", "c", "default")

	isGPU := func(_ string, kind string) bool { return kind == "gpu" }
	paths := g.Paths(isGPU)
	if len(paths) != 3 {
		t.Fatalf("Paths() returned %d paths, want 3 (a, b, c each isolated by fan-in)", len(paths))
	}
}

func TestSplitDuplicatesPathAndRewires(t *testing.T) {
	t.Parallel()
	g := New[string]()
	g.AddNode("src", "cpu")
	g.AddNode("gpu1", "gpu")
	g.AddNode("sink", "cpu")
	g.Connect("src", "gpu1", "default")
	g.Connect("gpu1", "sink", "default")

	isGPU := func(_ string, kind string) bool { return kind == "gpu" }
	clone := func(kind string) string { return kind }
	newID := func(original string, i int) string { return original + "#" + string(rune('0'+i)) }

	if err := g.Split(isGPU, 3, clone, newID); err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if len(g.Successors("src")) != 3 {
		t.Errorf("src has %d successors, want 3", len(g.Successors("src")))
	}
	if len(g.Predecessors("sink")) != 3 {
		t.Errorf("sink has %d predecessors, want 3", len(g.Predecessors("sink")))
	}
}
