package observer

import (
	"regexp"
	"strconv"
	"strings"
)

var bailRE = regexp.MustCompile(`[^\p{L}\p{N}_.$]`)

// parsePath compiles a dot-delimited path such as "user.address.city" into
// a function resolving it against a root value. Paths with any other
// syntax are rejected.
func parsePath(path string) (func(root any) any, bool) {
	if path == "" || bailRE.MatchString(path) {
		return nil, false
	}
	segments := strings.Split(path, ".")
	return func(root any) any {
		cur := root
		for _, seg := range segments {
			if cur == nil {
				return nil
			}
			cur = lookupSegment(cur, seg)
		}
		return cur
	}, true
}

// KeyResolver lets types other than the reactive containers be walked by
// path watchers.
type KeyResolver interface {
	ResolveKey(key string) any
}

func lookupSegment(value any, seg string) any {
	switch v := value.(type) {
	case KeyResolver:
		return v.ResolveKey(seg)
	case *Object:
		return v.Get(seg)
	case *Array:
		i, err := strconv.Atoi(seg)
		if err != nil {
			if seg == "length" {
				return v.Len()
			}
			return nil
		}
		return v.At(i)
	case map[string]any:
		return v[seg]
	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(v) {
			return nil
		}
		return v[i]
	}
	return nil
}
