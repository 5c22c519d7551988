package observer

import "errors"

type tickQueue struct {
	callbacks []func() error
	pending   bool
	draining  bool
}

// NextTick defers fn to the next microtask checkpoint. When Config.Defer is
// set it is asked to schedule the checkpoint, once per batch; otherwise the
// owner of the System must call Tick.
func (s *System) NextTick(fn func() error) {
	t := &s.ticks
	t.callbacks = append(t.callbacks, fn)
	if t.pending {
		return
	}
	t.pending = true
	if s.cfg.Defer != nil {
		s.cfg.Defer(s.drain)
	}
}

func (s *System) drain() {
	if err := s.Tick(); err != nil {
		s.HandleError(err, nil, "nextTick")
	}
}

// Tick runs the microtask checkpoint: every pending NextTick callback,
// including those queued while it runs, in the order they were queued.
// Callback errors are joined. A Tick called from inside a callback returns
// at once; the outer drain picks up anything it queued.
func (s *System) Tick() error {
	t := &s.ticks
	if t.draining {
		return nil
	}
	t.draining = true
	defer func() {
		t.draining = false
		t.pending = false
	}()

	var errs []error
	for len(t.callbacks) > 0 {
		batch := t.callbacks
		t.callbacks = nil
		for _, cb := range batch {
			if err := cb(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Pending reports whether callbacks are waiting for Tick.
func (s *System) Pending() bool {
	return len(s.ticks.callbacks) > 0
}
