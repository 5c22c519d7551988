package vdom

import (
	"slices"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement VKind = iota
	KindText
	KindComment
	KindComponent
)

func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Node is a host node created through NodeOps.
type Node any

// VNode is the virtual DOM node produced by a render function. The patcher
// records the host node it created in Elm.
type VNode struct {
	Kind     VKind
	Tag      string
	Attrs    Attrs
	Children []*VNode
	Key      string
	Text     string

	// Component is set for KindComponent nodes.
	Component *ComponentData

	Elm Node
}

// Attrs holds element attributes.
type Attrs map[string]string

// sortedKeys returns the attribute names in a stable order so host
// mutations are deterministic.
func (a Attrs) sortedKeys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ComponentData describes a child component placeholder.
type ComponentData struct {
	Name  string
	Props map[string]any
	Hooks ComponentHooks

	// Instance is set by ComponentHooks.Init and carried over to the
	// replacing vnode by Prepatch.
	Instance any
}

// ComponentHooks create, update and destroy the component behind a
// KindComponent vnode.
type ComponentHooks interface {
	// Init creates and renders the component and returns its root host node.
	Init(vnode *VNode) (Node, error)
	// Prepatch moves the instance from old to vnode and applies new props.
	Prepatch(old, vnode *VNode) error
	// Insert runs once the host node is attached.
	Insert(vnode *VNode)
	Destroy(vnode *VNode)
}

// IsVoidElement reports whether tag cannot have children.
func IsVoidElement(tag string) bool {
	switch strings.ToLower(tag) {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// sameVnode reports whether b can be patched in place of a.
func sameVnode(a, b *VNode) bool {
	if a.Key != b.Key || a.Kind != b.Kind || a.Tag != b.Tag {
		return false
	}
	if a.Kind == KindComponent {
		return a.Component != nil && b.Component != nil && a.Component.Name == b.Component.Name
	}
	return true
}
