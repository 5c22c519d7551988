// Package memdom is an in-memory host for vdom.Patcher. Trees can be
// serialized to HTML and fingerprinted, which makes render output easy to
// assert on in tests and benchmarks.
package memdom

//go:generate qtc -file=html.qtpl

import (
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/reactor/vdom"
)

type Kind uint8

const (
	ElementNode Kind = iota
	TextNode
	CommentNode
)

type Node struct {
	Kind     Kind
	Tag      string
	Text     string
	Attrs    map[string]string
	Parent   *Node
	Children []*Node
}

type attr struct {
	Key   string
	Value string
}

func (n *Node) sortedAttrs() []attr {
	attrs := make([]attr, 0, len(n.Attrs))
	for k, v := range n.Attrs {
		attrs = append(attrs, attr{Key: k, Value: v})
	}
	slices.SortFunc(attrs, func(a, b attr) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		}
		return 0
	})
	return attrs
}

// Void reports whether the element is written without a closing tag.
func (n *Node) Void() bool {
	return vdom.IsVoidElement(n.Tag)
}

func (n *Node) HTML() string {
	return NodeHTML(n)
}

// InnerHTML serializes the children of n.
func (n *Node) InnerHTML() string {
	return ChildrenHTML(n)
}

// Checksum fingerprints the serialized subtree.
func (n *Node) Checksum() uint64 {
	d := xxhash.New()
	WriteNodeHTML(d, n)
	return d.Sum64()
}

// TextContent concatenates all descendant text.
func (n *Node) TextContent() string {
	if n.Kind != ElementNode {
		return n.Text
	}
	var s string
	for _, c := range n.Children {
		if c.Kind != CommentNode {
			s += c.TextContent()
		}
	}
	return s
}

func (n *Node) index() int {
	if n.Parent == nil {
		return -1
	}
	return slices.Index(n.Parent.Children, n)
}

func (n *Node) detach() {
	if i := n.index(); i >= 0 {
		n.Parent.Children = slices.Delete(n.Parent.Children, i, i+1)
	}
	n.Parent = nil
}

// Document implements vdom.NodeOps over Nodes and counts mutations.
type Document struct {
	Body *Node

	Mutations int
}

func NewDocument() *Document {
	return &Document{
		Body: &Node{Kind: ElementNode, Tag: "body"},
	}
}

var _ vdom.NodeOps = (*Document)(nil)

func asNode(n vdom.Node) *Node {
	if n == nil {
		return nil
	}
	return n.(*Node)
}

// wrap keeps a nil *Node from turning into a non-nil interface.
func wrap(n *Node) vdom.Node {
	if n == nil {
		return nil
	}
	return n
}

func (d *Document) CreateElement(tag string) vdom.Node {
	return &Node{Kind: ElementNode, Tag: tag}
}

func (d *Document) CreateTextNode(text string) vdom.Node {
	return &Node{Kind: TextNode, Text: text}
}

func (d *Document) CreateComment(text string) vdom.Node {
	return &Node{Kind: CommentNode, Text: text}
}

func (d *Document) InsertBefore(parent, node, ref vdom.Node) {
	p, n, r := asNode(parent), asNode(node), asNode(ref)
	n.detach()
	i := len(p.Children)
	if r != nil && r.Parent == p {
		i = r.index()
	}
	p.Children = slices.Insert(p.Children, i, n)
	n.Parent = p
	d.Mutations++
}

func (d *Document) RemoveChild(parent, node vdom.Node) {
	n := asNode(node)
	if n.Parent != asNode(parent) {
		return
	}
	n.detach()
	d.Mutations++
}

func (d *Document) AppendChild(parent, node vdom.Node) {
	p, n := asNode(parent), asNode(node)
	n.detach()
	p.Children = append(p.Children, n)
	n.Parent = p
	d.Mutations++
}

func (d *Document) ParentNode(node vdom.Node) vdom.Node {
	n := asNode(node)
	if n == nil {
		return nil
	}
	return wrap(n.Parent)
}

func (d *Document) NextSibling(node vdom.Node) vdom.Node {
	n := asNode(node)
	if n == nil {
		return nil
	}
	i := n.index()
	if i < 0 || i+1 >= len(n.Parent.Children) {
		return nil
	}
	return n.Parent.Children[i+1]
}

func (d *Document) TagName(node vdom.Node) string {
	return asNode(node).Tag
}

func (d *Document) SetTextContent(node vdom.Node, text string) {
	n := asNode(node)
	d.Mutations++
	if n.Kind != ElementNode {
		n.Text = text
		return
	}
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = []*Node{{Kind: TextNode, Text: text, Parent: n}}
}

func (d *Document) SetAttribute(node vdom.Node, key, value string) {
	n := asNode(node)
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	n.Attrs[key] = value
	d.Mutations++
}

func (d *Document) RemoveAttribute(node vdom.Node, key string) {
	delete(asNode(node).Attrs, key)
	d.Mutations++
}
