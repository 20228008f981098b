// Package plugin provides a small set of concrete task bodies - source,
// sink, identity, a kernels.Catalog opcode applier, and a summing
// reducer - used by the test suite and the
// example CLI to exercise the engine end to end. SPEC_FULL.md treats real
// filter/reduce task bodies as out of scope for the core, but a runnable
// repository needs at least these trivial ones to demonstrate it.
//
// Each body treats a buffer's host array as a slice of float32 elements
// via an unsafe reinterpretation, the same zero-allocation, in-place
// style kernels.ops.go's functions use on a Sublate payload.
package plugin

import (
	"context"
	"unsafe"

	"github.com/srgblnch/ufoengine/core"
	"github.com/srgblnch/ufoengine/kernels"
	"github.com/srgblnch/ufoengine/sched"
	"github.com/srgblnch/ufoengine/task"
)

func asFloat32(b []byte) []float32 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), len(b)/4)
}

// Source hands out successive float32 slices from a fixed in-memory
// dataset, one slice per call, returning sched.ErrEndOfStream once
// exhausted.
type Source struct {
	frames [][]float32
	next   int
}

// NewSource wraps a pre-built sequence of frames to emit in order.
func NewSource(frames [][]float32) *Source {
	return &Source{frames: frames}
}

func (s *Source) Process(ctx context.Context, inputs, outputs []*core.Buffer) error {
	if s.next >= len(s.frames) {
		return sched.ErrEndOfStream
	}
	frame := s.frames[s.next]
	s.next++

	req := core.Requisition{NDims: 1}
	req.Dims[0] = len(frame)
	outputs[0].Resize(req)
	host, err := outputs[0].GetHostArray()
	if err != nil {
		return err
	}
	copy(asFloat32(host), frame)
	return nil
}

// Sink appends every received frame's float32 contents to Frames.
type Sink struct {
	Frames [][]float32
}

func (s *Sink) Process(ctx context.Context, inputs, outputs []*core.Buffer) error {
	host, err := inputs[0].GetHostArray()
	if err != nil {
		return err
	}
	floats := asFloat32(host)
	frame := make([]float32, len(floats))
	copy(frame, floats)
	s.Frames = append(s.Frames, frame)
	return nil
}

// Identity copies its single input to its single output unchanged. It is
// the simplest possible relay node, useful as a placeholder when
// building and testing graph topology independent of real task logic.
type Identity struct{}

func (Identity) Process(ctx context.Context, inputs, outputs []*core.Buffer) error {
	outputs[0].Resize(inputs[0].Requisition())
	return outputs[0].Copy(inputs[0])
}

// Kernel applies one of kernels.Catalog's in-place opcode functions to
// its single input, copied into the output buffer first. It is the
// bridge between the task-graph world and the plain []byte kernels
// still operate on.
type Kernel struct {
	Op byte
}

// NewKernel wraps a kernels.Catalog opcode as a task body.
func NewKernel(op byte) *Kernel {
	return &Kernel{Op: op}
}

func (k *Kernel) Process(ctx context.Context, inputs, outputs []*core.Buffer) error {
	outputs[0].Resize(inputs[0].Requisition())
	if err := outputs[0].Copy(inputs[0]); err != nil {
		return err
	}
	host, err := outputs[0].GetHostArray()
	if err != nil {
		return err
	}
	fn := kernels.Catalog[k.Op]
	if fn == nil {
		return nil
	}
	fn(host)
	return nil
}

// SumReducer accumulates the elementwise sum of every input buffer it
// sees and emits one frame holding the running total once the stream
// ends, matching the teacher's vectorSum kernel but spread across an
// entire stream instead of one buffer.
type SumReducer struct {
	task.BaseReducer
	acc []float32
}

func (r *SumReducer) Process(ctx context.Context, inputs, outputs []*core.Buffer) error {
	return nil
}

func (r *SumReducer) Initialize(req core.Requisition) error {
	r.acc = make([]float32, req.Count())
	return nil
}

func (r *SumReducer) Collect(ctx context.Context, input *core.Buffer) error {
	host, err := input.GetHostArray()
	if err != nil {
		return err
	}
	floats := asFloat32(host)
	if r.acc == nil {
		r.acc = make([]float32, len(floats))
	}
	for i, v := range floats {
		if i >= len(r.acc) {
			break
		}
		r.acc[i] += v
	}
	return nil
}

func (r *SumReducer) Reduce(ctx context.Context, output *core.Buffer) (bool, error) {
	req := core.Requisition{NDims: 1}
	req.Dims[0] = len(r.acc)
	output.Resize(req)
	host, err := output.GetHostArray()
	if err != nil {
		return false, err
	}
	copy(asFloat32(host), r.acc)
	return false, nil
}
