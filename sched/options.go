package sched

// EngineOptions configures the queue depth and instrumentation an Engine
// runs with. The Options/Default*Options shape mirrors
// runtime.EngineOptions/DefaultEngineOptions from the teacher repo.
type EngineOptions struct {
	// QueueCapacity bounds every per-edge data and recycle channel. A
	// small capacity applies back-pressure quickly; a large one smooths
	// out bursty producers at the cost of more buffers in flight.
	QueueCapacity int

	// Logger receives structured progress and error messages. If nil,
	// NewEngine installs a StdLogger writing to os.Stderr.
	Logger Logger

	// Profiler receives per-node timing samples. If nil, no profiling
	// data is recorded.
	Profiler Profiler
}

// DefaultEngineOptions returns sensible defaults: a small bounded queue
// per edge, a stderr logger, and no profiler.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		QueueCapacity: 4,
		Logger:        NewStdLogger(),
	}
}
