package task

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/srgblnch/ufoengine/core"
)

// InputTask wraps a Body that wants pull-based buffer handoff - call
// ReleaseInputBuffer to hand it a new buffer on some port, call
// GetInputBuffer to retrieve the buffer it released back once done with
// it - and itself implements Body, so sched.Engine can drive it directly
// as a source node: the graph sees a normal push-based Process call, but
// an external producer (e.g. a detector frame grabber outside the graph
// entirely) feeds it through the pull-based queue pair instead of a
// graph edge. It is the Go reshaping of UfoInputTask, which bridged a
// GLib async-queue producer/consumer pair onto a single UfoTask's
// process() call.
//
// Each input port gets its own pair of queues: inbound (buffers waiting
// to be processed) and released (buffers the wrapped task has finished
// reading and handed back, typically so the scheduler can recycle them).
type InputTask struct {
	wrapped  Body
	nInputs  int
	inbound  []chan *core.Buffer
	released []chan *core.Buffer
	active   atomic.Bool

	mu sync.Mutex
}

// NewInputTask wraps body, allocating nInputs pairs of bounded queues of
// the given per-queue capacity.
func NewInputTask(body Body, nInputs, queueCapacity int) *InputTask {
	it := &InputTask{
		wrapped:  body,
		nInputs:  nInputs,
		inbound:  make([]chan *core.Buffer, nInputs),
		released: make([]chan *core.Buffer, nInputs),
	}
	for i := 0; i < nInputs; i++ {
		it.inbound[i] = make(chan *core.Buffer, queueCapacity)
		it.released[i] = make(chan *core.Buffer, queueCapacity)
	}
	it.active.Store(true)
	return it
}

// Stop marks the input task inactive. The next Process call returns
// ErrEndOfStream, matching ufo_input_task_stop.
func (it *InputTask) Stop() { it.active.Store(false) }

// Active reports whether the task is still willing to process input.
func (it *InputTask) Active() bool { return it.active.Load() }

// ReleaseInputBuffer hands buf to the wrapped task on the given input
// port. It blocks if that port's inbound queue is full.
func (it *InputTask) ReleaseInputBuffer(port int, buf *core.Buffer) {
	it.inbound[port] <- buf
}

// GetInputBuffer retrieves a buffer the wrapped task has finished with on
// the given port. ok is false once CloseReleased has been called and the
// port's released queue is drained.
func (it *InputTask) GetInputBuffer(port int) (buf *core.Buffer, ok bool) {
	b, open := <-it.released[port]
	return b, open
}

// Process implements Body, making InputTask usable directly as a graph
// source node: graphInputs is ignored (an InputTask has no graph
// predecessors - its real inputs arrive from outside the graph via
// ReleaseInputBuffer), and outputs is the node's normal output set.
//
// It pulls one buffer per port from the inbound queues an external
// producer feeds via ReleaseInputBuffer, invokes the wrapped Body, and
// pushes every consumed input buffer onto its released queue so the
// producer can reclaim it via GetInputBuffer. Once Stop has been called,
// the next call returns ErrEndOfStream before pulling any further input,
// matching ufo_input_task_process's active-flag check.
func (it *InputTask) Process(ctx context.Context, graphInputs, outputs []*core.Buffer) error {
	if !it.Active() {
		return ErrEndOfStream
	}

	inputs := make([]*core.Buffer, it.nInputs)
	for i := 0; i < it.nInputs; i++ {
		select {
		case b, ok := <-it.inbound[i]:
			if !ok {
				return ErrEndOfStream
			}
			inputs[i] = b
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := it.wrapped.Process(ctx, inputs, outputs); err != nil {
		return err
	}

	for i, b := range inputs {
		it.released[i] <- b
	}
	return nil
}

// CloseInbound closes every port's inbound queue. A Process call already
// blocked waiting for input observes the close as end-of-stream
// immediately, rather than waiting on a producer that has stopped
// sending - call this after the last ReleaseInputBuffer so Stop takes
// effect without racing the next Process call's own Active check.
func (it *InputTask) CloseInbound() {
	it.mu.Lock()
	defer it.mu.Unlock()
	for _, ch := range it.inbound {
		close(ch)
	}
}

// CloseReleased closes every port's released queue, unblocking any
// GetInputBuffer callers once the wrapped task has stopped for good.
func (it *InputTask) CloseReleased() {
	it.mu.Lock()
	defer it.mu.Unlock()
	for _, ch := range it.released {
		close(ch)
	}
}
