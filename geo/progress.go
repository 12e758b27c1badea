package geo

import (
	"context"

	"mol-render/task"
)

// updateBatch is how many locations are processed between update checks.
// Inputs smaller than a batch are only checked at the first location, so
// the color builders check once more before installing their array.
const updateBatch = 10000

// checkpoint is called with the running location count. Every updateBatch
// locations it notices cancellation and, when the runtime asks for it,
// reports progress.
func checkpoint(ctx context.Context, rt task.Runtime, msg string, i, max int) error {
	if i%updateBatch != 0 {
		return nil
	}
	if err := task.Check(ctx); err != nil {
		return err
	}
	if rt.ShouldUpdate() {
		return rt.Update(ctx, task.Progress{Message: msg, Current: i, Max: max, CanAbort: true})
	}
	return nil
}
