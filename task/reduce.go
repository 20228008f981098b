package task

import (
	"context"

	"github.com/srgblnch/ufoengine/core"
)

// BaseReducer gives a reduce-mode task body Reducer's three-phase
// contract (Initialize/Collect/Reduce) with the same "not implemented"
// defaults ufo_filter_reduce_class_init installed: Initialize is a
// silent no-op, but Collect and Reduce raise a classified error unless a
// concrete reducer embeds BaseReducer and overrides them. Process itself
// is left for the embedder to implement; the scheduler's reduce-mode
// coordination calls Collect for every input buffer and, at end-of-stream,
// Reduce repeatedly until it reports cont=false, instead of calling
// Process directly (see sched.Engine).
type BaseReducer struct{}

func (BaseReducer) Initialize(req core.Requisition) error { return nil }

func (BaseReducer) Collect(ctx context.Context, input *core.Buffer) error {
	return core.NewError(core.KindTaskNotImplemented, "virtual method Collect is not implemented")
}

func (BaseReducer) Reduce(ctx context.Context, output *core.Buffer) (bool, error) {
	return false, core.NewError(core.KindTaskNotImplemented, "virtual method Reduce is not implemented")
}
