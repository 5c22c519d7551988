package component

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/delaneyj/reactor/observer"
	"github.com/delaneyj/reactor/perf"
	"github.com/delaneyj/reactor/vdom"
)

var (
	ErrAlreadyMounted = errors.New("component is already mounted")
	ErrNoRender       = errors.New("component has no render function")
)

// Instance is a live component.
type Instance struct {
	rt     *Runtime
	opts   *Options
	ctx    context.Context
	scope  *observer.Scope
	parent *Instance

	children []*Instance

	props    *observer.Object
	data     *observer.Object
	computed map[string]*observer.Computed

	// placeholder is the parent's component vnode, nil for a root.
	placeholder *vdom.VNode
	vnode       *vdom.VNode
	el          vdom.Node

	destroying bool
}

var _ observer.KeyResolver = (*Instance)(nil)

func (rt *Runtime) newInstance(opts *Options, propsData map[string]any, parent *Instance) (*Instance, error) {
	if opts.Render == nil {
		return nil, fmt.Errorf("%q: %w", opts.Name, ErrNoRender)
	}
	var parentScope *observer.Scope
	ctx := rt.ctx
	if parent != nil {
		parentScope = parent.scope
		ctx = parent.ctx
	}

	vm := &Instance{
		rt:       rt,
		opts:     opts,
		parent:   parent,
		computed: map[string]*observer.Computed{},
	}
	vm.scope = rt.sys.NewScope(opts.Name, parentScope)
	ctx, end := rt.tracer.Start(ctx, opts.Name, vm.scope.ID(), perf.PhaseInit)
	vm.ctx = ctx
	if parent != nil {
		parent.children = append(parent.children, vm)
	}

	for hook, fn := range opts.hooks() {
		if fn == nil {
			continue
		}
		vm.scope.On(hook, func() error {
			return fn(vm)
		})
	}
	if opts.ErrorCaptured != nil {
		vm.scope.OnErrorCaptured(func(err error, from *observer.Scope, info string) bool {
			return opts.ErrorCaptured(vm, err, from, info)
		})
	}

	vm.scope.CallHook(observer.HookBeforeCreate)
	vm.initProps(propsData)
	vm.initData()
	vm.initComputed()
	vm.initWatch()
	vm.scope.CallHook(observer.HookCreated)
	end(nil)
	return vm, nil
}

func (vm *Instance) initProps(propsData map[string]any) {
	sys := vm.rt.sys
	vm.props = observer.NewObject()
	for _, key := range vm.opts.Props {
		sys.DefineReactive(vm.props, key, propsData[key], observer.DefineOptions{
			// values belong to the parent, which observes them if needed
			Shallow: true,
			CustomSetter: func() {
				if !vm.rt.updatingChild {
					sys.Warn(fmt.Sprintf(
						"Avoid mutating a prop directly since the value will be overwritten whenever the parent component re-renders. Prop being mutated: %q",
						key,
					), vm.scope)
				}
			},
		})
	}
}

func (vm *Instance) initData() {
	sys := vm.rt.sys
	var data *observer.Object
	if vm.opts.Data != nil {
		sys.Untracked(func() {
			data = vm.opts.Data(vm)
		})
	}
	if data == nil {
		data = observer.NewObject()
	}
	for _, key := range data.Keys() {
		if slices.Contains(vm.opts.Props, key) {
			sys.Warn(fmt.Sprintf("The data property %q is already declared as a prop. Use prop default value instead.", key), vm.scope)
		}
	}
	vm.data = data
	sys.Observe(data, true)
}

func (vm *Instance) initComputed() {
	sys := vm.rt.sys
	for _, def := range vm.opts.Computed {
		switch {
		case vm.data.Has(def.Name):
			sys.Warn(fmt.Sprintf("The computed property %q is already defined in data.", def.Name), vm.scope)
			continue
		case slices.Contains(vm.opts.Props, def.Name):
			sys.Warn(fmt.Sprintf("The computed property %q is already defined as a prop.", def.Name), vm.scope)
			continue
		}
		get := def.Get
		vm.computed[def.Name] = vm.scope.Computed(func() (any, error) {
			return get(vm)
		})
	}
}

func (vm *Instance) initWatch() {
	for _, def := range vm.opts.Watch {
		handler := def.Handler
		cb := func(value, oldValue any) error {
			if handler == nil {
				return nil
			}
			return handler(vm, value, oldValue)
		}
		opts := observer.WatchOptions{Deep: def.Deep, Immediate: def.Immediate, Sync: def.Sync}
		if def.Path != "" {
			vm.scope.WatchPath(vm, def.Path, cb, opts)
			continue
		}
		if def.Getter == nil {
			continue
		}
		getter := def.Getter
		vm.scope.Watch(func() (any, error) {
			return getter(vm)
		}, cb, opts)
	}
}

func (vm *Instance) measure(phase perf.Phase) perf.Measure {
	_, end := vm.rt.tracer.Start(vm.ctx, vm.opts.Name, vm.scope.ID(), phase)
	return end
}

// Mount renders a root instance into container and fires mounted.
func (vm *Instance) Mount(container vdom.Node) error {
	if vm.scope.Mounted() || vm.scope.RenderWatcher() != nil {
		return ErrAlreadyMounted
	}
	if _, err := vm.mount(container); err != nil {
		return err
	}
	if vm.placeholder == nil {
		vm.scope.SetMounted()
		vm.scope.CallHook(observer.HookMounted)
	}
	return nil
}

// mount creates the render watcher and patches its first render. A nil
// container leaves the tree detached for the parent to insert.
func (vm *Instance) mount(container vdom.Node) (vdom.Node, error) {
	vm.scope.CallHook(observer.HookBeforeMount)

	w, err := observer.NewWatcher(vm.scope, vm.render, vm.update, observer.WatcherOptions{
		Before:     vm.beforeUpdate,
		Expression: vm.Name() + " render",
	}, true)
	if err != nil {
		return nil, err
	}
	vnode, _ := w.Value().(*vdom.VNode)
	if vnode == nil {
		vnode = vdom.Empty()
	}

	end := vm.measure(perf.PhasePatch)
	var el vdom.Node
	if container != nil {
		el, err = vm.rt.patcher.Mount(container, vnode)
	} else {
		el, err = vm.rt.patcher.Patch(nil, vnode)
	}
	end(err)
	if err != nil {
		return nil, fmt.Errorf("mount %s: %w", vm.Name(), err)
	}
	vm.vnode = vnode
	vm.el = el
	return el, nil
}

// render is the render watcher's getter. A failing render is reported and
// keeps the previous tree.
func (vm *Instance) render() (any, error) {
	end := vm.measure(perf.PhaseRender)
	vnode, err := vm.opts.Render(vm)
	end(err)
	if err != nil {
		vm.rt.sys.HandleError(err, vm.scope, "render")
		if vm.vnode != nil {
			return vm.vnode, nil
		}
		return vdom.Empty(), nil
	}
	if vnode == nil {
		vnode = vdom.Empty()
	}
	return vnode, nil
}

// update is the render watcher's callback.
func (vm *Instance) update(value, oldValue any) error {
	vnode, _ := value.(*vdom.VNode)
	prev, _ := oldValue.(*vdom.VNode)
	if vnode == nil || vnode == prev {
		return nil
	}

	end := vm.measure(perf.PhasePatch)
	el, err := vm.rt.patcher.Patch(prev, vnode)
	end(err)
	if err != nil {
		return fmt.Errorf("patch %s: %w", vm.Name(), err)
	}
	vm.vnode = vnode
	vm.el = el
	if vm.placeholder != nil {
		vm.placeholder.Elm = el
	}
	return nil
}

func (vm *Instance) beforeUpdate() {
	if vm.scope.Mounted() && !vm.scope.Destroyed() {
		vm.scope.CallHook(observer.HookBeforeUpdate)
	}
}

// ForceUpdate schedules a re-render even though no dependency changed.
func (vm *Instance) ForceUpdate() {
	if w := vm.scope.RenderWatcher(); w != nil {
		w.Update()
	}
}

// NextTick runs fn after the next flush.
func (vm *Instance) NextTick(fn func() error) {
	vm.rt.sys.NextTick(fn)
}

// Destroy tears down the instance, its watchers and its children.
func (vm *Instance) Destroy() {
	if vm.destroying {
		return
	}
	vm.scope.CallHook(observer.HookBeforeDestroy)
	vm.destroying = true

	if p := vm.parent; p != nil && !p.destroying {
		if i := slices.Index(p.children, vm); i >= 0 {
			p.children = slices.Delete(p.children, i, i+1)
		}
	}
	vm.scope.Teardown()
	if ob := vm.data.Observer(); ob != nil {
		ob.ReleaseRoot()
	}
	if vm.vnode != nil {
		if _, err := vm.rt.patcher.Patch(vm.vnode, nil); err != nil {
			vm.rt.sys.HandleError(err, vm.scope, "destroy")
		}
	}
	vm.scope.CallHook(observer.HookDestroyed)
}

// Get reads a computed property, a data key or a prop, in that order.
func (vm *Instance) Get(key string) any {
	if c, ok := vm.computed[key]; ok {
		v, err := c.Value()
		if err != nil {
			vm.rt.sys.HandleError(err, vm.scope, fmt.Sprintf("computed property %q", key))
			return nil
		}
		return v
	}
	if vm.data.Has(key) {
		return vm.data.Get(key)
	}
	if vm.props.Has(key) {
		return vm.props.Get(key)
	}
	vm.rt.sys.Warn(fmt.Sprintf("Property %q is not defined on the instance.", key), vm.scope)
	return nil
}

// ResolveKey lets path watchers walk the instance.
func (vm *Instance) ResolveKey(key string) any {
	return vm.Get(key)
}

// Set writes a data key. Writing a prop warns; adding a key to root data
// is refused by observer.Set.
func (vm *Instance) Set(key string, value any) {
	switch {
	case vm.data.Has(key):
		vm.data.Put(key, value)
	case vm.props.Has(key):
		vm.props.Put(key, value)
	default:
		observer.Set(vm.data, key, value)
	}
}

// Computed returns the named computed property.
func (vm *Instance) Computed(name string) (*observer.Computed, bool) {
	c, ok := vm.computed[name]
	return c, ok
}

func (vm *Instance) Watch(getter observer.Getter, cb observer.Callback, opts observer.WatchOptions) (unwatch func()) {
	return vm.scope.Watch(getter, cb, opts)
}

func (vm *Instance) WatchPath(path string, cb observer.Callback, opts observer.WatchOptions) (unwatch func()) {
	return vm.scope.WatchPath(vm, path, cb, opts)
}

func (vm *Instance) Name() string {
	if vm.opts.Name == "" {
		return "<Anonymous>"
	}
	return vm.opts.Name
}

// UID is the id of the instance's scope.
func (vm *Instance) UID() uint64 {
	return vm.scope.ID()
}

func (vm *Instance) Data() *observer.Object {
	return vm.data
}

func (vm *Instance) Props() *observer.Object {
	return vm.props
}

func (vm *Instance) Scope() *observer.Scope {
	return vm.scope
}

func (vm *Instance) Runtime() *Runtime {
	return vm.rt
}

func (vm *Instance) Parent() *Instance {
	return vm.parent
}

func (vm *Instance) Children() []*Instance {
	return slices.Clone(vm.children)
}

// El returns the root host node.
func (vm *Instance) El() vdom.Node {
	return vm.el
}

// VNode returns the last patched tree.
func (vm *Instance) VNode() *vdom.VNode {
	return vm.vnode
}

func (vm *Instance) Mounted() bool {
	return vm.scope.Mounted()
}

func (vm *Instance) Destroyed() bool {
	return vm.scope.Destroyed()
}
