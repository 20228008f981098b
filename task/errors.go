package task

import "errors"

// ErrEndOfStream is returned by a source Body - a node with no
// predecessor edges, including an InputTask wrapping an external
// producer - to signal it has no more data to produce. sched.Engine
// treats it as normal completion rather than a task failure.
var ErrEndOfStream = errors.New("task: end of stream")
