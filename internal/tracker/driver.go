package tracker

import (
	"context"

	"github.com/slok/scanboard/internal/model"
)

// drive arms the progress driver timers of a new operation. Ticking and
// finalization are independent: the finalize timer completes the operation
// whatever the tick accumulated progress is.
//
// Must be called with the lock held.
func (t *Tracker) drive(r *run) {
	r.finalize = t.clock.AfterFunc(r.profile.FinalizeAfter, func() { t.onFinalize(r) })
	t.armTick(r)
}

func (t *Tracker) armTick(r *run) {
	if r.profile.TickInterval <= 0 {
		r.tick = nil
		return
	}
	r.tick = t.clock.AfterFunc(r.profile.TickInterval, func() { t.onTick(r) })
}

func (t *Tracker) onTick(r *run) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Lost the race against a cancel or the finalize timer.
	if r.op.Status != model.OperationStatusRunning {
		return
	}
	r.tick = nil

	limit := r.profile.progressCap()
	progress := r.op.Progress + t.increment(r.profile.MaxIncrement)
	if progress > limit {
		progress = limit
	}

	// Reaching the cap in finalize mode completes the operation, 100 is only
	// reported by the completion.
	if progress >= limit && r.profile.Saturation == SaturationFinalize {
		r.stop()
		t.finish(context.Background(), r, model.OperationStatusCompleted)
		return
	}

	if progress > r.op.Progress {
		r.op.Progress = progress
		t.emit(model.EventTypeProgress, r)
	}

	// Saturated operations stop ticking and wait for the finalize timer.
	if progress < limit {
		t.armTick(r)
	}
}

func (t *Tracker) onFinalize(r *run) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if r.op.Status != model.OperationStatusRunning {
		return
	}
	r.finalize = nil

	r.stop()
	t.finish(context.Background(), r, model.OperationStatusCompleted)
}

// stop stops both driver timers, must be called with the lock held.
func (r *run) stop() {
	if r.tick != nil {
		r.tick.Stop()
		r.tick = nil
	}
	if r.finalize != nil {
		r.finalize.Stop()
		r.finalize = nil
	}
}
