// Package vdom provides the virtual node model and the Patcher that
// reconciles an old tree into a new one through a host NodeOps.
//
// Render functions build trees with H and the element helpers:
//
//	vdom.Ul(vdom.A("class", "todos"),
//		vdom.Li(vdom.Key("a"), "first"),
//		vdom.Li(vdom.Key("b"), "second"),
//	)
//
// Children with keys are matched by key across renders so reordering moves
// host nodes; children without keys are matched by position and tag.
package vdom

//go:generate go run ../cmd/codegen --out tags_gen.go
