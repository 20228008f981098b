// Package sched implements the concurrent scheduler/executor that runs a
// mapped task graph to completion: one worker goroutine per task node,
// bounded per-edge queues for back-pressure, a recycle back-channel so a
// consumer can hand a spent buffer back to its producer, end-of-stream
// propagated by closing channels rather than an in-band sentinel value,
// and reduce-mode coordination for nodes whose Body is a task.Reducer.
//
// The worker-per-node goroutine shape and the use of errgroup to join
// workers and surface the first failure are carried over from
// runtime.Engine.runStreaming/worker, generalized from a fixed
// dependency-group scheduler over model.Node to a push-based pipeline
// over an arbitrary task.Graph.
package sched

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/srgblnch/ufoengine/core"
	"github.com/srgblnch/ufoengine/task"
)

// link is the bounded channel pair backing one graph edge: data carries
// produced buffers downstream, recycle carries spent buffers back to the
// producer so it can reuse them instead of allocating afresh.
type link struct {
	data    chan *core.Buffer
	recycle chan *core.Buffer
}

// Engine runs one task.Graph to completion.
type Engine struct {
	g    *task.Graph
	opts EngineOptions
}

// NewEngine wraps a mapped task graph (the output of task.Map) for
// execution. The graph is not copied; callers should not mutate it
// concurrently with Run.
func NewEngine(g *task.Graph, opts EngineOptions) *Engine {
	if opts.QueueCapacity <= 0 {
		opts.QueueCapacity = 4
	}
	if opts.Logger == nil {
		opts.Logger = NewStdLogger()
	}
	return &Engine{g: g, opts: opts}
}

// Run executes every node's worker loop until every source has signalled
// end-of-stream and every node downstream of it has drained, or until ctx
// is cancelled or a task returns a non-EOS error. The first such error
// (if any) is returned; all other workers are given the chance to observe
// ctx cancellation and exit promptly rather than being forcibly killed.
func (e *Engine) Run(ctx context.Context) error {
	ids, err := e.g.TopologicalOrder()
	if err != nil {
		return fmt.Errorf("sched: %w", err)
	}

	links := make(map[string]*link)
	linkFor := func(from, to, label string) *link {
		key := from + "->" + to + ":" + label
		l, ok := links[key]
		if !ok {
			l = &link{
				data:    make(chan *core.Buffer, e.opts.QueueCapacity),
				recycle: make(chan *core.Buffer, e.opts.QueueCapacity),
			}
			links[key] = l
		}
		return l
	}
	for _, id := range ids {
		for _, edge := range e.g.Successors(id) {
			linkFor(edge.From, edge.To, edge.Label)
		}
	}

	group, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		n, ok := e.g.Payload(id)
		if !ok {
			return fmt.Errorf("sched: unknown node %q", id)
		}
		inEdges := e.g.Predecessors(id)
		outEdges := e.g.Successors(id)

		inLinks := make([]*link, len(inEdges))
		for i, edge := range inEdges {
			inLinks[i] = linkFor(edge.From, edge.To, edge.Label)
		}
		outLinks := make([]*link, len(outEdges))
		for i, edge := range outEdges {
			outLinks[i] = linkFor(edge.From, edge.To, edge.Label)
		}

		group.Go(func() error {
			return e.runWorker(gctx, n, inLinks, outLinks)
		})
	}

	return group.Wait()
}

func (e *Engine) runWorker(ctx context.Context, n *task.Node, inLinks, outLinks []*link) error {
	if reducer, ok := n.Body.(task.Reducer); ok {
		return e.runReducer(ctx, n, reducer, inLinks, outLinks)
	}
	if len(inLinks) == 0 {
		return e.runSource(ctx, n, outLinks)
	}
	return e.runRelay(ctx, n, inLinks, outLinks)
}

// runSource repeatedly calls Process with no inputs, allocating a fresh
// (or recycled) output buffer per edge each iteration, until Body returns
// ErrEndOfStream.
func (e *Engine) runSource(ctx context.Context, n *task.Node, outLinks []*link) error {
	defer closeAll(outLinks)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		outputs := acquireOutputs(outLinks)
		start := time.Now()
		err := n.Body.Process(ctx, nil, outputs)
		e.observe(n, start, err)

		if err == ErrEndOfStream {
			return nil
		}
		if err != nil {
			return fmt.Errorf("sched: node %q: %w", n.Name, err)
		}
		if err := sendAll(ctx, outLinks, outputs); err != nil {
			return err
		}
	}
}

// runRelay implements the multi-input fan-in barrier: it pulls one
// buffer from every input edge per iteration, and treats the first edge
// to close as the whole node reaching end-of-stream. This assumes
// upstream branches are synchronized (the common case for a split
// pipeline, where every parallel copy processes the same number of
// frames); a producer that legitimately finishes early on one port while
// another is still open is outside what this barrier models.
func (e *Engine) runRelay(ctx context.Context, n *task.Node, inLinks, outLinks []*link) error {
	defer closeAll(outLinks)

	for {
		inputs := make([]*core.Buffer, len(inLinks))
		for i, l := range inLinks {
			select {
			case buf, ok := <-l.data:
				if !ok {
					return nil
				}
				inputs[i] = buf
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		outputs := acquireOutputs(outLinks)
		start := time.Now()
		err := n.Body.Process(ctx, inputs, outputs)
		e.observe(n, start, err)
		if err != nil {
			return fmt.Errorf("sched: node %q: %w", n.Name, err)
		}

		recycleAll(inLinks, inputs)
		if err := sendAll(ctx, outLinks, outputs); err != nil {
			return err
		}
	}
}

// runReducer implements the collect/reduce coordination: Collect runs
// once per input buffer on the node's single input edge, and once that
// edge closes, Reduce runs repeatedly - each call producing one
// accumulated buffer that is cloned across every outgoing edge - until
// it reports cont=false. A reducer whose output phase only ever emits
// one buffer (the common case) simply returns cont=false on its first
// call.
func (e *Engine) runReducer(ctx context.Context, n *task.Node, reducer task.Reducer, inLinks, outLinks []*link) error {
	defer closeAll(outLinks)

	if len(inLinks) != 1 {
		return fmt.Errorf("sched: reduce node %q must have exactly one input edge, has %d", n.Name, len(inLinks))
	}
	in := inLinks[0]

	initialized := false
	for {
		select {
		case buf, ok := <-in.data:
			if !ok {
				goto drained
			}
			if !initialized {
				if err := reducer.Initialize(buf.Requisition()); err != nil {
					return fmt.Errorf("sched: reduce node %q initialize: %w", n.Name, err)
				}
				initialized = true
			}
			start := time.Now()
			err := reducer.Collect(ctx, buf)
			e.observe(n, start, err)
			if err != nil {
				return fmt.Errorf("sched: reduce node %q collect: %w", n.Name, err)
			}
			select {
			case in.recycle <- buf:
			default:
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

drained:
	for {
		outputs := acquireOutputs(outLinks)
		var master *core.Buffer
		if len(outputs) > 0 {
			master = outputs[0]
		} else {
			master = core.NewBuffer(core.Requisition{})
		}

		start := time.Now()
		cont, err := reducer.Reduce(ctx, master)
		e.observe(n, start, err)
		if err != nil {
			return fmt.Errorf("sched: reduce node %q reduce: %w", n.Name, err)
		}

		for i := range outputs {
			if i == 0 {
				continue
			}
			outputs[i] = master.Dup()
		}
		if err := sendAll(ctx, outLinks, outputs); err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}

func (e *Engine) observe(n *task.Node, start time.Time, err error) {
	if e.opts.Profiler != nil {
		e.opts.Profiler.Observe(n.Name, time.Since(start), err)
	}
	if err != nil && err != ErrEndOfStream {
		e.opts.Logger.Printf("node %q: %v", n.Name, err)
	}
}

func acquireOutputs(outLinks []*link) []*core.Buffer {
	outputs := make([]*core.Buffer, len(outLinks))
	for i, l := range outLinks {
		select {
		case buf := <-l.recycle:
			outputs[i] = buf
		default:
			outputs[i] = core.NewBuffer(core.Requisition{})
		}
	}
	return outputs
}

func sendAll(ctx context.Context, outLinks []*link, outputs []*core.Buffer) error {
	for i, l := range outLinks {
		select {
		case l.data <- outputs[i]:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func recycleAll(inLinks []*link, inputs []*core.Buffer) {
	for i, l := range inLinks {
		if inputs[i] == nil {
			continue
		}
		select {
		case l.recycle <- inputs[i]:
		default:
		}
	}
}

func closeAll(links []*link) {
	for _, l := range links {
		close(l.data)
	}
}
