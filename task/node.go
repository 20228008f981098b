// Package task defines the unit of work the scheduler runs: a Node
// wrapping a task Body with capability tags, plus the architecture graph
// and structural transforms (Split, Map) that assign nodes to concrete
// processing resources before the pipeline starts executing.
//
// Node is the Go-native reshaping of model.Node (which carried a fixed
// Kernel opcode and Topo neighbor list for a single compute kind) into a
// capability-tagged wrapper around an arbitrary Body, generalizing the
// teacher's opcode dispatch into an interface dispatch.
package task

import (
	"context"

	"github.com/google/uuid"
	"github.com/srgblnch/ufoengine/core"
)

// Capability is a bitset of compute kinds a task Body can run on.
type Capability uint32

const (
	CapabilityCPU Capability = 1 << iota
	CapabilityGPU
	CapabilityRemote
	// CapabilityInputSource marks a node as the graph-external boundary
	// an InputTask bridges in from (a detector frame grabber, a network
	// listener). Map treats it the same as CapabilityGPU: an input
	// source node needing device-resident buffers for what it feeds
	// downstream is assigned a GPU proc node exactly like a GPU-capable
	// one, mirroring map_proc_node's identical UFO_IS_INPUT_TASK branch.
	CapabilityInputSource
)

func (c Capability) Has(bit Capability) bool { return c&bit != 0 }

// Body is the unit of actual work a Node wraps. Process consumes one
// buffer per input port and produces one buffer per output port; a
// source task has no inputs, a sink task has no outputs.
type Body interface {
	Process(ctx context.Context, inputs []*core.Buffer, outputs []*core.Buffer) error
}

// Reducer is a Body that also participates in reduce-mode coordination:
// Collect is called once per input buffer seen across the whole stream,
// and Reduce is called repeatedly once the upstream source reaches
// end-of-stream, each call producing one accumulated output buffer,
// until it reports cont=false. Initialize runs before the first Collect
// call and may use the first requisition to size an accumulator. This
// mirrors UfoFilterReduce's three-phase virtual method contract -
// including the "not implemented" default behavior for a Body that only
// implements Process - generalized so a reducer whose output phase
// genuinely needs to emit more than one buffer (not just the common
// single-accumulator case) can do so.
type Reducer interface {
	Body
	Initialize(req core.Requisition) error
	Collect(ctx context.Context, input *core.Buffer) error
	Reduce(ctx context.Context, output *core.Buffer) (cont bool, err error)
}

// ProcessingNode is the concrete resource a Node has been mapped onto:
// a GPU, a remote worker, or nil for plain CPU execution.
type ProcessingNode interface {
	ResourceID() string
}

// Node is one vertex of a task graph: a Body annotated with the
// capabilities it supports and, once Map has run, the resource it has
// been assigned to.
type Node struct {
	ID           string
	Name         string
	Body         Body
	Capabilities Capability

	// Proc is nil until Map assigns this node to a concrete resource.
	// A node with only CapabilityCPU is never assigned - it always runs
	// on the worker goroutine's own CPU.
	Proc ProcessingNode
}

// NewNode wraps body in a Node with a generated ID, suitable for use as
// a graph.Graph[*Node] payload.
func NewNode(name string, body Body, caps Capability) *Node {
	return &Node{
		ID:           uuid.NewString(),
		Name:         name,
		Body:         body,
		Capabilities: caps,
	}
}

func (n *Node) IsGPU() bool    { return n.Capabilities.Has(CapabilityGPU) }
func (n *Node) IsRemote() bool { return n.Capabilities.Has(CapabilityRemote) }

// IsInputSource reports whether n is the graph-external boundary an
// InputTask wraps. Map assigns such a node a GPU proc node the same way
// it would a GPU-capable one.
func (n *Node) IsInputSource() bool { return n.Capabilities.Has(CapabilityInputSource) }
