// Package engine is the host the ware runs on: a single-threaded frame loop
// with cancelable timers, tweens, input listeners, update/draw handlers and
// sounds. Nothing here blocks; "suspending" something means pausing its
// handle.
package engine

// Handle is any cancelable, pausable resource registered with the host.
type Handle interface {
	Paused() bool
	SetPaused(bool)
	Cancel()
	Canceled() bool
}

type handle struct {
	paused   bool
	canceled bool
	onCancel func()
}

func (h *handle) Paused() bool {
	return h.paused
}

func (h *handle) SetPaused(p bool) {
	if h.canceled {
		return
	}
	h.paused = p
}

// Cancel is idempotent.
func (h *handle) Cancel() {
	if h.canceled {
		return
	}
	h.canceled = true
	if h.onCancel != nil {
		h.onCancel()
	}
}

func (h *handle) Canceled() bool {
	return h.canceled
}

func (h *handle) active() bool {
	return !h.paused && !h.canceled
}

// EventHandle is returned by every On* registration.
type EventHandle struct {
	handle
}
