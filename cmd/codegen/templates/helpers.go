package templates

import (
	"strings"
)

// Tag is an element constructor to generate.
type Tag struct {
	Name string
	Tag  string
	Void bool
}

// renamed holds tags whose exported name would clash with other vdom
// identifiers.
var renamed = map[string]string{
	"a": "Anchor",
}

var voidTags = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true,
}

// HTMLTags returns the constructors generated into the vdom package.
func HTMLTags() []Tag {
	names := []string{
		"a", "article", "br", "button", "code", "div", "em", "footer",
		"form", "h1", "h2", "h3", "header", "hr", "img", "input", "label",
		"li", "main", "nav", "ol", "option", "p", "pre", "section", "select",
		"small", "span", "strong", "table", "tbody", "td", "textarea", "th",
		"thead", "tr", "ul",
	}
	tags := make([]Tag, len(names))
	for i, n := range names {
		tags[i] = Tag{Name: exportedName(n), Tag: n, Void: voidTags[n]}
	}
	return tags
}

func exportedName(tag string) string {
	if name, ok := renamed[tag]; ok {
		return name
	}
	return strings.ToUpper(tag[:1]) + tag[1:]
}
