package observer

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// traverse reads every nested property of value so that all of them are
// collected as dependencies of the current watcher.
func traverse(value any) {
	seen := mapset.NewThreadUnsafeSet[uint64]()
	traverseInto(value, seen)
}

func traverseInto(value any, seen mapset.Set[uint64]) {
	switch v := value.(type) {
	case *Object:
		if v == nil || v.raw {
			return
		}
		if v.ob != nil && !seen.Add(v.ob.dep.id) {
			return
		}
		v.Range(func(_ string, child any) bool {
			traverseInto(child, seen)
			return true
		})
	case *Array:
		if v == nil || v.raw {
			return
		}
		if v.ob != nil && !seen.Add(v.ob.dep.id) {
			return
		}
		for i := v.Len() - 1; i >= 0; i-- {
			traverseInto(v.items[i], seen)
		}
	}
}
