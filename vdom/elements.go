package vdom

import "fmt"

// Attr is a single attribute argument to H.
type Attr struct {
	Key   string
	Value string
}

func A(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

// Key sets the reconciliation key of the element it is passed to.
type Key string

// H creates an element. Arguments can be nil, Attr, Attrs, Key, *VNode,
// []*VNode, string (a text child) or any fmt.Stringer.
func H(tag string, args ...any) *VNode {
	node := &VNode{
		Kind: KindElement,
		Tag:  tag,
	}
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// allows conditional children
		case Attr:
			node.setAttr(v.Key, v.Value)
		case Attrs:
			for k, val := range v {
				node.setAttr(k, val)
			}
		case Key:
			node.Key = string(v)
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		case fmt.Stringer:
			node.Children = append(node.Children, Text(v.String()))
		default:
			node.Children = append(node.Children, Text(fmt.Sprint(v)))
		}
	}
	return node
}

func (v *VNode) setAttr(key, value string) {
	if key == "" {
		return
	}
	if key == "key" {
		v.Key = value
		return
	}
	if v.Attrs == nil {
		v.Attrs = Attrs{}
	}
	v.Attrs[key] = value
}

func Text(s string) *VNode {
	return &VNode{Kind: KindText, Text: s}
}

func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Comment is also what an empty render produces.
func Comment(s string) *VNode {
	return &VNode{Kind: KindComment, Text: s}
}

// Empty is the placeholder for a render that produced nothing.
func Empty() *VNode {
	return Comment("")
}

// Component creates a placeholder for a child component.
func Component(name string, hooks ComponentHooks, props map[string]any, key string) *VNode {
	return &VNode{
		Kind: KindComponent,
		Tag:  "component-" + name,
		Key:  key,
		Component: &ComponentData{
			Name:  name,
			Props: props,
			Hooks: hooks,
		},
	}
}
