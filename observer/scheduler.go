package observer

import (
	"errors"
	"fmt"
	"slices"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

type scheduler struct {
	queue []*Watcher
	has   mapset.Set[uint64]

	// re-queue counts and loop-broken watchers for the current flush
	circular   map[uint64]int
	suppressed mapset.Set[uint64]

	waiting  bool
	flushing bool
	index    int

	lastFlush time.Time
}

func newScheduler() scheduler {
	return scheduler{
		has:        mapset.NewThreadUnsafeSet[uint64](),
		circular:   map[uint64]int{},
		suppressed: mapset.NewThreadUnsafeSet[uint64](),
	}
}

// queueWatcher pushes w into the watcher queue. Watchers already queued are
// skipped unless the queue is being flushed and w has already run.
func (s *System) queueWatcher(w *Watcher) {
	q := &s.sched
	if q.flushing && q.suppressed.Contains(w.id) {
		return
	}
	if !q.has.Add(w.id) {
		return
	}
	if !q.flushing {
		q.queue = append(q.queue, w)
	} else {
		// keep ids ascending after the cursor
		i := len(q.queue) - 1
		for i > q.index && q.queue[i].id > w.id {
			i--
		}
		q.queue = slices.Insert(q.queue, i+1, w)
	}

	if q.waiting {
		return
	}
	q.waiting = true
	if s.cfg.Synchronous {
		if err := s.flushSchedulerQueue(); err != nil {
			s.HandleError(err, nil, "scheduler flush")
		}
		return
	}
	s.NextTick(s.flushSchedulerQueue)
}

// Flushing reports whether the scheduler is running watchers right now.
func (s *System) Flushing() bool {
	return s.sched.flushing
}

// LastFlush returns when the most recent flush started.
func (s *System) LastFlush() time.Time {
	return s.sched.lastFlush
}

// flushSchedulerQueue runs every queued watcher in ascending id order.
// Sorting ensures that:
//  1. scopes are updated from parent to child, parents are always created
//     first;
//  2. user watchers of a scope run before its render watcher;
//  3. a watcher torn down while its parent's watcher runs is skipped.
//
// Errors returned by non-user watchers do not stop the flush; they are
// joined and returned.
func (s *System) flushSchedulerQueue() error {
	q := &s.sched
	q.lastFlush = time.Now()
	q.flushing = true
	defer func() {
		if r := recover(); r != nil {
			s.resetSchedulerState()
			panic(r)
		}
	}()

	slices.SortFunc(q.queue, func(a, b *Watcher) int {
		return compareIDs(a.id, b.id)
	})
	fo := s.cfg.FlushObserver
	if fo != nil {
		fo.FlushStarted(len(q.queue))
	}

	var (
		errs []error
		ran  int
	)
	// queue may grow while running
	for q.index = 0; q.index < len(q.queue); q.index++ {
		w := q.queue[q.index]
		if q.suppressed.Contains(w.id) {
			continue
		}
		if w.before != nil {
			w.before()
		}
		q.has.Remove(w.id)
		if err := w.Run(); err != nil {
			errs = append(errs, fmt.Errorf("watcher %q: %w", w.expression, err))
		}
		ran++
		if fo != nil {
			fo.WatcherRan(w)
		}

		if !q.has.Contains(w.id) {
			continue
		}
		q.circular[w.id]++
		if q.circular[w.id] > s.maxUpdateCount() {
			s.warn(
				fmt.Sprintf("You may have an infinite update loop in watcher with expression %q", w.expression),
				w.scope,
				zap.Uint64("watcher_id", w.id),
			)
			q.suppressed.Add(w.id)
			if fo != nil {
				fo.LoopDetected(w)
			}
		}
	}

	updatedQueue := slices.Clone(q.queue)
	s.resetSchedulerState()
	s.callUpdatedHooks(updatedQueue)

	if fo != nil {
		fo.FlushFinished(ran, time.Since(q.lastFlush))
	}
	return errors.Join(errs...)
}

func compareIDs(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (s *System) resetSchedulerState() {
	q := &s.sched
	clear(q.queue)
	q.queue = q.queue[:0]
	q.index = 0
	q.has.Clear()
	clear(q.circular)
	q.suppressed.Clear()
	q.waiting = false
	q.flushing = false
}

// callUpdatedHooks fires the updated hook once for every mounted scope whose
// render watcher ran, in ascending watcher id order.
func (s *System) callUpdatedHooks(queue []*Watcher) {
	seen := mapset.NewThreadUnsafeSet[uint64]()
	for _, w := range queue {
		sc := w.scope
		if sc.renderWatcher != w || !sc.mounted || sc.destroyed {
			continue
		}
		if !seen.Add(sc.id) {
			continue
		}
		sc.CallHook(HookUpdated)
	}
}
