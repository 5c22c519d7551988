package observer

import (
	"fmt"
	"reflect"
	"runtime"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Getter is the expression a Watcher evaluates.
type Getter func() (any, error)

// Callback receives the new and previous value of a Watcher.
type Callback func(value, oldValue any) error

func noopCallback(any, any) error { return nil }

type WatcherOptions struct {
	// Deep reads every nested property of the value so that any nested
	// mutation re-runs the watcher.
	Deep bool
	// User marks watchers created through the watch API. Their getter and
	// callback errors are reported instead of returned.
	User bool
	// Lazy watchers only mark themselves dirty on change and compute on
	// Evaluate.
	Lazy bool
	// Sync watchers run inline on notification instead of being queued.
	Sync bool
	// Before runs right before the scheduler runs the watcher.
	Before func()
	// Expression labels the watcher in diagnostics. Defaults to the getter's
	// function name.
	Expression string
}

// Watcher evaluates a getter, records the Deps it read and re-runs when any
// of them notify.
type Watcher struct {
	sys   *System
	scope *Scope

	id         uint64
	expression string
	getter     Getter
	cb         Callback
	before     func()

	deep, user, lazy, sync bool
	dirty, active          bool

	deps, newDeps      []*Dep
	depIDs, newDepIDs mapset.Set[uint64]

	value any
}

// NewWatcher creates a watcher owned by scope. Unless lazy it evaluates
// immediately; a failing first evaluation of a non-user watcher is returned
// with the watcher already registered.
func NewWatcher(scope *Scope, getter Getter, cb Callback, opts WatcherOptions, isRenderWatcher bool) (*Watcher, error) {
	sys := scope.sys
	w := &Watcher{
		sys:        sys,
		scope:      scope,
		id:         sys.nextWatcherID(),
		expression: opts.Expression,
		getter:     getter,
		cb:         cb,
		before:     opts.Before,
		deep:       opts.Deep,
		user:       opts.User,
		lazy:       opts.Lazy,
		sync:       opts.Sync,
		dirty:      opts.Lazy,
		active:     true,
		depIDs:     mapset.NewThreadUnsafeSet[uint64](),
		newDepIDs:  mapset.NewThreadUnsafeSet[uint64](),
	}
	if w.cb == nil {
		w.cb = noopCallback
	}
	if w.expression == "" {
		w.expression = funcName(getter)
	}
	if isRenderWatcher {
		scope.renderWatcher = w
	}
	scope.watchers = append(scope.watchers, w)

	if w.lazy {
		return w, nil
	}
	value, err := w.Get()
	if err != nil {
		return w, err
	}
	w.value = value
	return w, nil
}

// newPathWatcher resolves path against target on every evaluation. An
// unparsable path yields a watcher that always evaluates to nil.
func newPathWatcher(scope *Scope, target any, path string, cb Callback, opts WatcherOptions) *Watcher {
	opts.Expression = path
	resolve, ok := parsePath(path)
	if !ok {
		scope.sys.warn(
			fmt.Sprintf("Failed watching path: %q: %s. For full control, use a function instead.", path, ErrInvalidPath),
			scope,
		)
		resolve = func(any) any { return nil }
	}
	w, _ := NewWatcher(scope, func() (any, error) {
		return resolve(target), nil
	}, cb, opts, false)
	return w
}

func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return ""
}

func (w *Watcher) ID() uint64 {
	return w.id
}

func (w *Watcher) Expression() string {
	return w.expression
}

func (w *Watcher) Scope() *Scope {
	return w.scope
}

// Value returns the last computed value.
func (w *Watcher) Value() any {
	return w.value
}

func (w *Watcher) Dirty() bool {
	return w.dirty
}

func (w *Watcher) Active() bool {
	return w.active
}

func (w *Watcher) Lazy() bool {
	return w.lazy
}

// User reports whether the watcher was created through the watch API.
func (w *Watcher) User() bool {
	return w.user
}

// Deps returns the Deps collected by the last evaluation.
func (w *Watcher) Deps() []*Dep {
	return slices.Clone(w.deps)
}

// Get evaluates the getter and re-collects dependencies.
func (w *Watcher) Get() (any, error) {
	w.sys.pushTarget(w)
	defer w.cleanupDeps()
	defer w.sys.popTarget()

	value, err := w.getter()
	if err != nil {
		if !w.user {
			return nil, err
		}
		w.sys.HandleError(err, w.scope, fmt.Sprintf("getter for watcher %q", w.expression))
		value = nil
	}
	if w.deep {
		traverse(value)
	}
	return value, nil
}

func (w *Watcher) addDep(d *Dep) {
	if !w.newDepIDs.Add(d.id) {
		return
	}
	w.newDeps = append(w.newDeps, d)
	if !w.depIDs.Contains(d.id) {
		d.addSub(w)
	}
}

// cleanupDeps drops subscriptions the last evaluation no longer reached and
// promotes the new dependency set.
func (w *Watcher) cleanupDeps() {
	for i := len(w.deps) - 1; i >= 0; i-- {
		dep := w.deps[i]
		if !w.newDepIDs.Contains(dep.id) {
			dep.removeSub(w)
		}
	}
	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	w.newDepIDs.Clear()

	old := w.deps
	w.deps = w.newDeps
	clear(old)
	w.newDeps = old[:0]
}

// Update is called by a Dep when one of the watcher's dependencies changes.
func (w *Watcher) Update() {
	switch {
	case w.lazy:
		w.dirty = true
	case w.sync:
		if err := w.Run(); err != nil {
			w.sys.HandleError(err, w.scope, fmt.Sprintf("sync watcher %q", w.expression))
		}
	default:
		w.sys.queueWatcher(w)
	}
}

// Run re-evaluates the watcher and fires its callback when the value
// changed. Objects and deep watchers always fire since their contents may
// have mutated in place.
func (w *Watcher) Run() error {
	if !w.active {
		return nil
	}
	value, err := w.Get()
	if err != nil {
		return err
	}
	if strictEqual(value, w.value) && !isObject(value) && !w.deep {
		return nil
	}

	oldValue := w.value
	w.value = value
	if !w.user {
		return w.cb(value, oldValue)
	}
	if err := w.cb(value, oldValue); err != nil {
		w.sys.HandleError(err, w.scope, fmt.Sprintf("callback for watcher %q", w.expression))
	}
	return nil
}

// Evaluate computes the value of a lazy watcher and clears its dirty flag.
func (w *Watcher) Evaluate() error {
	value, err := w.Get()
	if err != nil {
		return err
	}
	w.value = value
	w.dirty = false
	return nil
}

// Depend makes the current target depend on everything this watcher
// depends on.
func (w *Watcher) Depend() {
	for i := len(w.deps) - 1; i >= 0; i-- {
		w.deps[i].Depend()
	}
}

// Teardown unsubscribes the watcher from all of its dependencies.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	// the whole scope is discarded anyway
	if !w.scope.beingDestroyed {
		w.scope.removeWatcher(w)
	}
	for i := len(w.deps) - 1; i >= 0; i-- {
		w.deps[i].removeSub(w)
	}
	w.active = false
}
