package component

import (
	"fmt"

	"github.com/delaneyj/reactor/observer"
	"github.com/delaneyj/reactor/vdom"
)

// Child returns a placeholder vnode for a child component. The child
// instance is created when the placeholder is first patched and receives
// props on every re-render of vm.
func (vm *Instance) Child(opts *Options, props map[string]any, key string) *vdom.VNode {
	return vdom.Component(opts.Name, childHooks{parent: vm, opts: opts}, props, key)
}

type childHooks struct {
	parent *Instance
	opts   *Options
}

func (h childHooks) Init(vnode *vdom.VNode) (vdom.Node, error) {
	child, err := h.parent.rt.newInstance(h.opts, vnode.Component.Props, h.parent)
	if err != nil {
		return nil, err
	}
	child.placeholder = vnode
	vnode.Component.Instance = child
	return child.mount(nil)
}

func (h childHooks) Prepatch(old, vnode *vdom.VNode) error {
	child, ok := old.Component.Instance.(*Instance)
	if !ok {
		return fmt.Errorf("component %q was never initialised", old.Component.Name)
	}
	vnode.Component.Instance = child
	child.placeholder = vnode
	child.updateProps(vnode.Component.Props)
	return nil
}

func (h childHooks) Insert(vnode *vdom.VNode) {
	child, ok := vnode.Component.Instance.(*Instance)
	if !ok || child.scope.Mounted() {
		return
	}
	child.scope.SetMounted()
	child.scope.CallHook(observer.HookMounted)
}

func (h childHooks) Destroy(vnode *vdom.VNode) {
	if child, ok := vnode.Component.Instance.(*Instance); ok {
		child.Destroy()
	}
}

func (vm *Instance) updateProps(propsData map[string]any) {
	vm.rt.updatingChild = true
	defer func() {
		vm.rt.updatingChild = false
	}()
	for _, key := range vm.opts.Props {
		vm.props.Put(key, propsData[key])
	}
}
