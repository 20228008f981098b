// Package ufoengine implements a dataflow execution engine for streaming
// multi-dimensional numeric data (images, volumes, projections) across
// heterogeneous compute resources.
//
// A pipeline is expressed as a directed acyclic graph of task nodes. Each
// node is assigned to a processing resource - a CPU, a GPU, or a remote
// worker reachable through a messenger - and the scheduler runs one worker
// goroutine per node, moving buffers along bounded per-edge queues until
// every source has signalled end-of-stream.
//
// # Architecture Overview
//
// The engine consists of the following components:
//
//   - core: dual-residency Buffer type with an explicit host/device location
//     state machine and cache-aligned host allocation
//   - graph: a generic labeled-edge DAG substrate with path enumeration
//   - task: task nodes, capability tags, the architecture graph, and the
//     split/map structural transforms
//   - sched: the concurrent scheduler/executor that runs a pipeline to
//     completion
//   - messenger: a minimal blocking transport contract used by remote tasks
//   - config: run-time configuration (plugin search paths, profiling level)
//   - profile: an optional Prometheus-backed profiling sink
//   - plugin: a small set of example task bodies used by tests and the CLI
//
// # Basic usage
//
//	b := task.NewGraphBuilder()
//	out := &plugin.Sink{}
//	src, _ := b.AddNode("source", plugin.NewSource(data), task.CapabilityCPU)
//	snk, _ := b.AddNode("sink", out, task.CapabilityCPU)
//	b.Connect(src, snk, "default")
//
//	g := b.Graph()
//	arch := task.NewArchGraph(1)
//	if err := task.Map(g, arch); err != nil {
//	    log.Fatal(err)
//	}
//
//	engine := sched.NewEngine(g, sched.DefaultEngineOptions())
//	if err := engine.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// For more on the data model and invariants this package implements, see
// SPEC_FULL.md in the repository root.
package ufoengine
