package plugin

import (
	"context"
	"testing"
	"time"

	"github.com/srgblnch/ufoengine/kernels"
	"github.com/srgblnch/ufoengine/sched"
	"github.com/srgblnch/ufoengine/task"
)

func TestSourceEmitsFramesInOrderThenEndsStream(t *testing.T) {
	t.Parallel()
	src := NewSource([][]float32{{1, 2}, {3, 4}})

	b := task.NewGraphBuilder()
	snk := &Sink{}
	srcID, _ := b.AddNode("source", src, task.CapabilityCPU)
	snkID, _ := b.AddNode("sink", snk, task.CapabilityCPU)
	if err := b.Connect(srcID, snkID, "default"); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	engine := sched.NewEngine(b.Graph(), sched.EngineOptions{QueueCapacity: 2, Logger: sched.NopLogger{}})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := engine.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(snk.Frames) != 2 {
		t.Fatalf("sink received %d frames, want 2", len(snk.Frames))
	}
	if snk.Frames[0][0] != 1 || snk.Frames[1][1] != 4 {
		t.Errorf("sink frames = %v, want [[1 2] [3 4]]", snk.Frames)
	}
}

func TestIdentityPassesFramesThroughUnchanged(t *testing.T) {
	t.Parallel()
	src := NewSource([][]float32{{5, 6, 7}})

	b := task.NewGraphBuilder()
	id := Identity{}
	snk := &Sink{}
	srcID, _ := b.AddNode("source", src, task.CapabilityCPU)
	idID, _ := b.AddNode("identity", id, task.CapabilityCPU)
	snkID, _ := b.AddNode("sink", snk, task.CapabilityCPU)
	b.Connect(srcID, idID, "default")
	b.Connect(idID, snkID, "default")

	engine := sched.NewEngine(b.Graph(), sched.EngineOptions{QueueCapacity: 2, Logger: sched.NopLogger{}})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := engine.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(snk.Frames) != 1 || snk.Frames[0][2] != 7 {
		t.Errorf("sink frames = %v, want [[5 6 7]]", snk.Frames)
	}
}

func TestKernelAppliesCatalogOpcodeInPlace(t *testing.T) {
	t.Parallel()
	src := NewSource([][]float32{{-2, 3}})

	b := task.NewGraphBuilder()
	k := NewKernel(kernels.OpReLU)
	snk := &Sink{}
	srcID, _ := b.AddNode("source", src, task.CapabilityCPU)
	kID, _ := b.AddNode("relu", k, task.CapabilityCPU)
	snkID, _ := b.AddNode("sink", snk, task.CapabilityCPU)
	b.Connect(srcID, kID, "default")
	b.Connect(kID, snkID, "default")

	engine := sched.NewEngine(b.Graph(), sched.EngineOptions{QueueCapacity: 2, Logger: sched.NopLogger{}})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := engine.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(snk.Frames) != 1 {
		t.Fatalf("sink received %d frames, want 1", len(snk.Frames))
	}
	want := []float32{0, 3}
	got := snk.Frames[0]
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("relu'd frame = %v, want %v", got, want)
	}
}

func TestSumReducerAccumulatesAcrossStream(t *testing.T) {
	t.Parallel()
	src := NewSource([][]float32{{1, 1}, {2, 2}, {3, 3}})

	b := task.NewGraphBuilder()
	red := &SumReducer{}
	snk := &Sink{}
	srcID, _ := b.AddNode("source", src, task.CapabilityCPU)
	redID, _ := b.AddNode("reducer", red, task.CapabilityCPU)
	snkID, _ := b.AddNode("sink", snk, task.CapabilityCPU)
	b.Connect(srcID, redID, "default")
	b.Connect(redID, snkID, "default")

	engine := sched.NewEngine(b.Graph(), sched.EngineOptions{QueueCapacity: 2, Logger: sched.NopLogger{}})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := engine.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(snk.Frames) != 1 {
		t.Fatalf("sink received %d frames, want exactly 1 from the reducer", len(snk.Frames))
	}
	want := []float32{6, 6}
	got := snk.Frames[0]
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("reduced frame = %v, want %v", got, want)
	}
}
