package sched

import "time"

// Profiler receives one sample per task invocation. The profile package
// provides a Prometheus-backed implementation; Engine never imports it
// directly to keep metrics optional and avoid a dependency cycle between
// sched and profile.
type Profiler interface {
	Observe(nodeName string, d time.Duration, err error)
}
