package task

import (
	"context"
	"testing"

	"github.com/srgblnch/ufoengine/core"
)

type noopBody struct{}

func (noopBody) Process(ctx context.Context, inputs, outputs []*core.Buffer) error { return nil }

func buildLinearPipeline(t *testing.T, caps ...Capability) (*GraphBuilder, []string) {
	t.Helper()
	b := NewGraphBuilder()
	var ids []string
	for i, c := range caps {
		id, err := b.AddNode("n", noopBody{}, c)
		if err != nil {
			t.Fatalf("AddNode() error = %v", err)
		}
		ids = append(ids, id)
		if i > 0 {
			if err := b.Connect(ids[i-1], id, "default"); err != nil {
				t.Fatalf("Connect() error = %v", err)
			}
		}
	}
	return b, ids
}

func TestSplitWithThreeGPUs(t *testing.T) {
	t.Parallel()
	b, ids := buildLinearPipeline(t, CapabilityCPU, CapabilityGPU, CapabilityCPU)
	g := b.Graph()

	if err := Split(g, 3); err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	src := ids[0]
	sink := ids[2]
	if got := len(g.Successors(src)); got != 3 {
		t.Errorf("source has %d successors after split, want 3", got)
	}
	if got := len(g.Predecessors(sink)); got != 3 {
		t.Errorf("sink has %d predecessors after split, want 3", got)
	}
}

func TestSplitNoopWithOneGPU(t *testing.T) {
	t.Parallel()
	b, ids := buildLinearPipeline(t, CapabilityCPU, CapabilityGPU, CapabilityCPU)
	g := b.Graph()

	if err := Split(g, 1); err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if got := len(g.Successors(ids[0])); got != 1 {
		t.Errorf("source has %d successors, want 1 (no split)", got)
	}
}

func TestMapAssignsGPURoundRobin(t *testing.T) {
	t.Parallel()
	b := NewGraphBuilder()
	src, _ := b.AddNode("src", noopBody{}, CapabilityCPU)
	g1, _ := b.AddNode("g1", noopBody{}, CapabilityGPU)
	g2, _ := b.AddNode("g2", noopBody{}, CapabilityGPU)
	sink, _ := b.AddNode("sink", noopBody{}, CapabilityCPU)
	b.Connect(src, g1, "default")
	b.Connect(g1, g2, "default")
	b.Connect(g2, sink, "default")

	arch := NewArchGraph(2)
	if err := Map(b.Graph(), arch); err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	n1, _ := b.Graph().Payload(g1)
	n2, _ := b.Graph().Payload(g2)
	if n1.Proc == nil || n2.Proc == nil {
		t.Fatal("GPU nodes should have a non-nil Proc after Map")
	}
	if n1.Proc.ResourceID() == n2.Proc.ResourceID() {
		t.Error("adjacent GPU nodes should round-robin across distinct GPUs")
	}
}

// TestMapFanoutIndexRoundRobinsPerBranch is scenario S4: graph
// R -> G1 -> G2; R -> G3 with gpu_nodes=[gA, gB] maps G1 to gA, G2 to
// gB, and G3 to gB (the second branch's fanout index lands on the same
// slot as G2, one past G1's).
func TestMapFanoutIndexRoundRobinsPerBranch(t *testing.T) {
	t.Parallel()
	b := NewGraphBuilder()
	r, _ := b.AddNode("r", noopBody{}, CapabilityCPU)
	g1, _ := b.AddNode("g1", noopBody{}, CapabilityGPU)
	g2, _ := b.AddNode("g2", noopBody{}, CapabilityGPU)
	g3, _ := b.AddNode("g3", noopBody{}, CapabilityGPU)
	b.Connect(r, g1, "default")
	b.Connect(g1, g2, "default")
	b.Connect(r, g3, "default")

	arch := NewArchGraph(2)
	if err := Map(b.Graph(), arch); err != nil {
		t.Fatalf("Map() error = %v", err)
	}

	n1, _ := b.Graph().Payload(g1)
	n2, _ := b.Graph().Payload(g2)
	n3, _ := b.Graph().Payload(g3)
	gA, gB := arch.GPUs[0].ResourceID(), arch.GPUs[1].ResourceID()
	if n1.Proc.ResourceID() != gA {
		t.Errorf("g1.Proc = %v, want %v", n1.Proc.ResourceID(), gA)
	}
	if n2.Proc.ResourceID() != gB {
		t.Errorf("g2.Proc = %v, want %v", n2.Proc.ResourceID(), gB)
	}
	if n3.Proc.ResourceID() != gB {
		t.Errorf("g3.Proc = %v, want %v", n3.Proc.ResourceID(), gB)
	}
}

// TestMapAssignsGPUToInputSourceNode covers map_proc_node's
// UFO_IS_INPUT_TASK branch: an input-source node with no GPU capability
// bit set still needs a device proc node when it feeds a GPU pipeline.
func TestMapAssignsGPUToInputSourceNode(t *testing.T) {
	t.Parallel()
	b := NewGraphBuilder()
	src, _ := b.AddNode("src", noopBody{}, CapabilityInputSource)

	arch := NewArchGraph(2)
	if err := Map(b.Graph(), arch); err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	n, _ := b.Graph().Payload(src)
	if n.Proc == nil {
		t.Fatal("input-source node should have a non-nil Proc after Map")
	}
}

func TestMapFailsWithoutGPUs(t *testing.T) {
	t.Parallel()
	b := NewGraphBuilder()
	id, _ := b.AddNode("g", noopBody{}, CapabilityGPU)
	_ = id

	arch := NewArchGraph(0)
	if err := Map(b.Graph(), arch); err == nil {
		t.Error("Map() should fail when a GPU node exists but no GPUs are enumerated")
	}
}

func TestMapUsesFirstRemoteNodeByDefault(t *testing.T) {
	t.Parallel()
	b := NewGraphBuilder()
	id, _ := b.AddNode("r", noopBody{}, CapabilityRemote)

	arch := NewArchGraph(0)
	arch.AddRemote("kiro://10.0.0.1:5555")
	arch.AddRemote("kiro://10.0.0.2:5555")

	if err := Map(b.Graph(), arch); err != nil {
		t.Fatalf("Map() error = %v", err)
	}
	n, _ := b.Graph().Payload(id)
	if n.Proc.ResourceID() != arch.Remotes[0].ResourceID() {
		t.Errorf("Proc = %v, want first remote node", n.Proc.ResourceID())
	}
}

func TestInputTaskStopStopsProcessing(t *testing.T) {
	t.Parallel()
	it := NewInputTask(noopBody{}, 1, 1)
	it.ReleaseInputBuffer(0, core.NewBuffer(core.Requisition{}))

	if err := it.Process(context.Background(), nil, nil); err != nil {
		t.Fatalf("Process() error = %v, want nil before Stop", err)
	}

	it.Stop()
	it.ReleaseInputBuffer(0, core.NewBuffer(core.Requisition{}))
	if err := it.Process(context.Background(), nil, nil); err != ErrEndOfStream {
		t.Errorf("Process() error = %v, want ErrEndOfStream after Stop", err)
	}
}
