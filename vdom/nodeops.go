package vdom

// NodeOps performs host node mutations for the Patcher. A browser DOM, a
// terminal renderer or an in-memory tree can sit behind it.
type NodeOps interface {
	CreateElement(tag string) Node
	CreateTextNode(text string) Node
	CreateComment(text string) Node
	InsertBefore(parent, node, ref Node)
	RemoveChild(parent, node Node)
	AppendChild(parent, node Node)
	ParentNode(node Node) Node
	NextSibling(node Node) Node
	TagName(node Node) string
	SetTextContent(node Node, text string)
	SetAttribute(node Node, key, value string)
	RemoveAttribute(node Node, key string)
}
