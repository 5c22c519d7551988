package vdom_test

import (
	"testing"

	"github.com/delaneyj/reactor/vdom"
	"github.com/stretchr/testify/assert"
)

type label string

func (l label) String() string { return "label:" + string(l) }

func TestHArguments(t *testing.T) {
	var missing *vdom.VNode
	n := vdom.H("div",
		nil,
		vdom.A("class", "x"),
		vdom.Attrs{"id": "y", "key": "k1"},
		vdom.Span("child"),
		missing,
		[]*vdom.VNode{vdom.P(), nil, vdom.Text("t")},
		"plain",
		label("l"),
		42,
	)

	assert.Equal(t, vdom.KindElement, n.Kind)
	assert.Equal(t, "k1", n.Key)
	assert.Equal(t, vdom.Attrs{"class": "x", "id": "y"}, n.Attrs)
	assert.Len(t, n.Children, 6)
	assert.Equal(t, "plain", n.Children[3].Text)
	assert.Equal(t, "label:l", n.Children[4].Text)
	assert.Equal(t, "42", n.Children[5].Text)

	assert.Equal(t, "k2", vdom.Li(vdom.Key("k2")).Key)
}

func TestVoidElements(t *testing.T) {
	assert.True(t, vdom.IsVoidElement("br"))
	assert.True(t, vdom.IsVoidElement("IMG"))
	assert.False(t, vdom.IsVoidElement("div"))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Comment", vdom.KindComment.String())
	assert.Equal(t, "Unknown", vdom.VKind(99).String())
}
