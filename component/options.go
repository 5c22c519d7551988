// Package component ties the observer and vdom packages together. An
// Instance owns reactive root data, computed properties and watchers, and a
// render watcher whose re-runs are patched into the host tree.
package component

import (
	"context"

	"github.com/delaneyj/reactor/observer"
	"github.com/delaneyj/reactor/perf"
	"github.com/delaneyj/reactor/vdom"
)

// ComputedDef declares a computed property.
type ComputedDef struct {
	Name string
	Get  func(vm *Instance) (any, error)
}

// WatchDef declares a watcher. Path, resolved against the instance, takes
// precedence over Getter.
type WatchDef struct {
	Path    string
	Getter  func(vm *Instance) (any, error)
	Handler func(vm *Instance, value, oldValue any) error

	Deep      bool
	Immediate bool
	Sync      bool
}

type Hook func(vm *Instance) error

// Options describe a component.
type Options struct {
	Name string

	// Props lists the keys accepted from the parent.
	Props []string

	// Data returns the root data object. It runs without dependency
	// tracking and may read props.
	Data func(vm *Instance) *observer.Object

	Computed []ComputedDef
	Watch    []WatchDef

	Render func(vm *Instance) (*vdom.VNode, error)

	BeforeCreate  Hook
	Created       Hook
	BeforeMount   Hook
	Mounted       Hook
	BeforeUpdate  Hook
	Updated       Hook
	BeforeDestroy Hook
	Destroyed     Hook

	// ErrorCaptured sees errors raised by descendants. Returning false
	// stops propagation.
	ErrorCaptured func(vm *Instance, err error, from *observer.Scope, info string) bool
}

func (o *Options) hooks() map[observer.Hook]Hook {
	return map[observer.Hook]Hook{
		observer.HookBeforeCreate:  o.BeforeCreate,
		observer.HookCreated:       o.Created,
		observer.HookBeforeMount:   o.BeforeMount,
		observer.HookMounted:       o.Mounted,
		observer.HookBeforeUpdate:  o.BeforeUpdate,
		observer.HookUpdated:       o.Updated,
		observer.HookBeforeDestroy: o.BeforeDestroy,
		observer.HookDestroyed:     o.Destroyed,
	}
}

// Runtime creates instances that share a System and a Patcher.
type Runtime struct {
	sys     *observer.System
	patcher *vdom.Patcher
	tracer  *perf.Tracer
	ctx     context.Context

	// set while a parent pushes new props into a child
	updatingChild bool
}

type RuntimeOption func(*Runtime)

// WithTracer overrides the tracer derived from Config.Performance.
func WithTracer(t *perf.Tracer) RuntimeOption {
	return func(rt *Runtime) {
		rt.tracer = t
	}
}

// WithContext sets the parent context of init spans.
func WithContext(ctx context.Context) RuntimeOption {
	return func(rt *Runtime) {
		rt.ctx = ctx
	}
}

func NewRuntime(sys *observer.System, patcher *vdom.Patcher, opts ...RuntimeOption) *Runtime {
	rt := &Runtime{
		sys:     sys,
		patcher: patcher,
		tracer:  perf.New(sys.Config().Performance),
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Runtime) System() *observer.System {
	return rt.sys
}

func (rt *Runtime) Patcher() *vdom.Patcher {
	return rt.patcher
}

// New creates a root instance. It is not rendered until Mount.
func (rt *Runtime) New(opts *Options, props map[string]any) (*Instance, error) {
	return rt.newInstance(opts, props, nil)
}
