package component

import (
	"slices"

	"github.com/delaneyj/reactor/observer"
	"github.com/delaneyj/reactor/vdom"
)

// RenderList calls render for every entry of source and collects the
// non-nil results. Arrays, slices and strings pass their index as key; an
// int n iterates 1..n; objects and maps pass their keys, maps in sorted
// order. Reading a reactive source makes the caller depend on it.
func RenderList(source any, render func(value, key any, index int) *vdom.VNode) []*vdom.VNode {
	var out []*vdom.VNode
	add := func(value, key any, index int) {
		if n := render(value, key, index); n != nil {
			out = append(out, n)
		}
	}

	switch src := source.(type) {
	case *observer.Array:
		src.Range(func(i int, v any) bool {
			add(v, i, i)
			return true
		})
	case []any:
		for i, v := range src {
			add(v, i, i)
		}
	case string:
		i := 0
		for _, r := range src {
			add(string(r), i, i)
			i++
		}
	case int:
		for i := range src {
			add(i+1, i, i)
		}
	case *observer.Object:
		i := 0
		src.Range(func(k string, v any) bool {
			add(v, k, i)
			i++
			return true
		})
	case map[string]any:
		keys := make([]string, 0, len(src))
		for k := range src {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for i, k := range keys {
			add(src[k], k, i)
		}
	}
	return out
}
