package sched

import "github.com/srgblnch/ufoengine/task"

// ErrEndOfStream is returned by a source task Body (a node with no
// predecessors) to signal it has no more data to produce. The scheduler
// treats it as normal completion rather than a task failure: the node's
// worker closes its outgoing edges and exits without propagating the
// error through errgroup. It is an alias of task.ErrEndOfStream so that
// task.InputTask, which cannot import this package, can return the same
// sentinel the engine checks for.
var ErrEndOfStream = task.ErrEndOfStream
