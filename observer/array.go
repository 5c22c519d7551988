package observer

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
)

// Array is a sequence whose mutating methods notify the owning Observer.
// Only Push, Pop, Shift, Unshift, Splice, Sort and Reverse notify; an index
// write through SetAt does not, use Set for that.
type Array struct {
	ob    *Observer
	items []any
	raw   bool
}

func NewArray(items ...any) *Array {
	return &Array{items: slices.Clone(items)}
}

func (a *Array) Observer() *Observer {
	return a.ob
}

// MarkRaw excludes a from observation. It has no effect once a is observed.
func (a *Array) MarkRaw() *Array {
	a.raw = true
	return a
}

func (a *Array) IsRaw() bool {
	return a.raw
}

func (a *Array) Len() int {
	a.dependSelf()
	return len(a.items)
}

// At returns the element at i, or nil when i is out of range.
func (a *Array) At(i int) any {
	a.dependSelf()
	if i < 0 || i >= len(a.items) {
		return nil
	}
	return a.items[i]
}

// Values returns a copy of the elements.
func (a *Array) Values() []any {
	a.dependSelf()
	return slices.Clone(a.items)
}

func (a *Array) Range(fn func(i int, v any) bool) {
	a.dependSelf()
	for i, v := range slices.Clone(a.items) {
		if !fn(i, v) {
			return
		}
	}
}

// SetAt writes the element at i in place without notifying anyone. Out of
// range writes are ignored.
func (a *Array) SetAt(i int, v any) {
	if i < 0 || i >= len(a.items) {
		return
	}
	a.items[i] = v
}

func (a *Array) Push(items ...any) int {
	a.items = append(a.items, items...)
	a.mutated(items)
	return len(a.items)
}

func (a *Array) Pop() any {
	if len(a.items) == 0 {
		a.mutated(nil)
		return nil
	}
	last := a.items[len(a.items)-1]
	a.items[len(a.items)-1] = nil
	a.items = a.items[:len(a.items)-1]
	a.mutated(nil)
	return last
}

func (a *Array) Shift() any {
	if len(a.items) == 0 {
		a.mutated(nil)
		return nil
	}
	first := a.items[0]
	a.items = slices.Delete(a.items, 0, 1)
	a.mutated(nil)
	return first
}

func (a *Array) Unshift(items ...any) int {
	a.items = slices.Insert(a.items, 0, items...)
	a.mutated(items)
	return len(a.items)
}

// Splice removes deleteCount elements starting at start, inserts items in
// their place and returns the removed elements. A negative start counts
// from the end.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	n := len(a.items)
	switch {
	case start < 0:
		start = max(n+start, 0)
	case start > n:
		start = n
	}
	deleteCount = min(max(deleteCount, 0), n-start)

	removed := slices.Clone(a.items[start : start+deleteCount])
	a.items = slices.Replace(a.items, start, start+deleteCount, items...)
	a.mutated(items)
	return removed
}

// Sort sorts in place with a stable sort. A nil less compares the
// elements' default string forms.
func (a *Array) Sort(less func(x, y any) bool) *Array {
	if less == nil {
		less = func(x, y any) bool {
			return fmt.Sprint(x) < fmt.Sprint(y)
		}
	}
	sort.SliceStable(a.items, func(i, j int) bool {
		return less(a.items[i], a.items[j])
	})
	a.mutated(nil)
	return a
}

func (a *Array) Reverse() *Array {
	slices.Reverse(a.items)
	a.mutated(nil)
	return a
}

func (a *Array) mutated(inserted []any) {
	if a.ob == nil {
		return
	}
	if len(inserted) > 0 {
		a.ob.observeArray(inserted)
	}
	a.ob.dep.Notify()
}

func (a *Array) dependSelf() {
	if a.ob != nil {
		a.ob.dep.Depend()
	}
}

func (a *Array) MarshalJSON() ([]byte, error) {
	items := a.items
	if items == nil {
		items = []any{}
	}
	return json.Marshal(items)
}

// dependArray collects dependencies on the elements of value since element
// reads cannot be intercepted like property reads.
func dependArray(value *Array) {
	for _, e := range value.items {
		if ob := observerOf(e); ob != nil {
			ob.dep.Depend()
		}
		if nested, ok := e.(*Array); ok {
			dependArray(nested)
		}
	}
}
