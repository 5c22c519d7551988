package observer

import (
	"slices"
)

// Hook names a lifecycle signal fired on a Scope.
type Hook string

const (
	HookBeforeCreate  Hook = "beforeCreate"
	HookCreated       Hook = "created"
	HookBeforeMount   Hook = "beforeMount"
	HookMounted       Hook = "mounted"
	HookBeforeUpdate  Hook = "beforeUpdate"
	HookUpdated       Hook = "updated"
	HookBeforeDestroy Hook = "beforeDestroy"
	HookDestroyed     Hook = "destroyed"
)

// ErrorCapturedHook sees errors raised by descendant scopes. Returning false
// stops further propagation.
type ErrorCapturedHook func(err error, from *Scope, info string) bool

// Scope owns a set of watchers, typically one component instance. Tearing
// the scope down tears all of them down.
type Scope struct {
	sys    *System
	id     uint64
	name   string
	parent *Scope

	watchers      []*Watcher
	renderWatcher *Watcher

	mounted        bool
	beingDestroyed bool
	destroyed      bool

	hooks         map[Hook][]func() error
	errorCaptured []ErrorCapturedHook
}

func (s *System) NewScope(name string, parent *Scope) *Scope {
	s.lastScopeID++
	return &Scope{
		sys:    s,
		id:     s.lastScopeID,
		name:   name,
		parent: parent,
		hooks:  map[Hook][]func() error{},
	}
}

func (sc *Scope) System() *System {
	return sc.sys
}

func (sc *Scope) ID() uint64 {
	return sc.id
}

func (sc *Scope) Name() string {
	if sc == nil {
		return ""
	}
	return sc.name
}

func (sc *Scope) Parent() *Scope {
	return sc.parent
}

// Watchers returns the active watchers in creation order.
func (sc *Scope) Watchers() []*Watcher {
	return slices.Clone(sc.watchers)
}

// RenderWatcher returns the watcher created with isRenderWatcher, if any.
func (sc *Scope) RenderWatcher() *Watcher {
	return sc.renderWatcher
}

func (sc *Scope) Mounted() bool {
	return sc.mounted
}

func (sc *Scope) SetMounted() {
	sc.mounted = true
}

func (sc *Scope) BeingDestroyed() bool {
	return sc.beingDestroyed
}

func (sc *Scope) Destroyed() bool {
	return sc.destroyed
}

func (sc *Scope) removeWatcher(w *Watcher) {
	for i, sw := range sc.watchers {
		if sw == w {
			sc.watchers = slices.Delete(sc.watchers, i, i+1)
			return
		}
	}
}

// On registers fn for hook.
func (sc *Scope) On(hook Hook, fn func() error) {
	sc.hooks[hook] = append(sc.hooks[hook], fn)
}

func (sc *Scope) OnErrorCaptured(fn ErrorCapturedHook) {
	sc.errorCaptured = append(sc.errorCaptured, fn)
}

// CallHook runs the handlers for hook without collecting dependencies.
// Handler errors are reported through HandleError.
func (sc *Scope) CallHook(hook Hook) {
	handlers := sc.hooks[hook]
	if len(handlers) == 0 {
		return
	}
	sc.sys.PauseTracking()
	defer sc.sys.ResumeTracking()
	for _, fn := range handlers {
		if err := fn(); err != nil {
			sc.sys.HandleError(err, sc, string(hook)+" hook")
		}
	}
}

// Teardown tears down every watcher owned by the scope and marks it
// destroyed. It is idempotent.
func (sc *Scope) Teardown() {
	if sc.beingDestroyed {
		return
	}
	sc.beingDestroyed = true
	if sc.renderWatcher != nil {
		sc.renderWatcher.Teardown()
	}
	for i := len(sc.watchers) - 1; i >= 0; i-- {
		sc.watchers[i].Teardown()
	}
	sc.destroyed = true
}

// WatchOptions configure the watch API.
type WatchOptions struct {
	Deep      bool
	Immediate bool
	Sync      bool
}

// Watch calls cb whenever the value returned by getter changes. The
// returned function stops watching.
func (sc *Scope) Watch(getter Getter, cb Callback, opts WatchOptions) (unwatch func()) {
	w, _ := NewWatcher(sc, getter, cb, WatcherOptions{
		Deep: opts.Deep,
		Sync: opts.Sync,
		User: true,
	}, false)
	sc.immediate(w, opts)
	return w.Teardown
}

// WatchPath watches a dot-delimited path such as "a.b.c" resolved against
// target.
func (sc *Scope) WatchPath(target any, path string, cb Callback, opts WatchOptions) (unwatch func()) {
	w := newPathWatcher(sc, target, path, cb, WatcherOptions{
		Deep: opts.Deep,
		Sync: opts.Sync,
		User: true,
	})
	sc.immediate(w, opts)
	return w.Teardown
}

func (sc *Scope) immediate(w *Watcher, opts WatchOptions) {
	if !opts.Immediate {
		return
	}
	sc.sys.PauseTracking()
	defer sc.sys.ResumeTracking()
	if err := w.cb(w.value, nil); err != nil {
		sc.sys.HandleError(err, sc, "callback for immediate watcher \""+w.expression+"\"")
	}
}

// Computed returns an on-demand derived value owned by the scope.
func (sc *Scope) Computed(getter Getter) *Computed {
	w, _ := NewWatcher(sc, getter, nil, WatcherOptions{Lazy: true}, false)
	return &Computed{w: w}
}

func (s *System) Watch(getter Getter, cb Callback, opts WatchOptions) (unwatch func()) {
	return s.root.Watch(getter, cb, opts)
}

func (s *System) WatchPath(target any, path string, cb Callback, opts WatchOptions) (unwatch func()) {
	return s.root.WatchPath(target, path, cb, opts)
}

func (s *System) Computed(getter Getter) *Computed {
	return s.root.Computed(getter)
}
