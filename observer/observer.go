package observer

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"

	"go.uber.org/zap"
)

// Observer is attached to each observed Object or Array. It converts the
// container's keys into reactive accessors and owns the Dep used for
// container-level changes: key addition and removal, array mutation.
type Observer struct {
	sys       *System
	value     any
	dep       *Dep
	rootCount int
}

func (ob *Observer) Dep() *Dep {
	return ob.dep
}

// Value returns the observed *Object or *Array.
func (ob *Observer) Value() any {
	return ob.value
}

// RootCount is the number of component instances using the value as root
// data.
func (ob *Observer) RootCount() int {
	return ob.rootCount
}

// ReleaseRoot undoes one asRoot attachment.
func (ob *Observer) ReleaseRoot() {
	if ob.rootCount > 0 {
		ob.rootCount--
	}
}

// Observe returns the Observer for value, creating it if needed. Values that
// are not *Object or *Array, raw containers, and new containers while
// observation is toggled off yield nil. asRoot marks value as component root
// data.
func (s *System) Observe(value any, asRoot bool) *Observer {
	var ob *Observer
	switch v := value.(type) {
	case *Object:
		if v == nil {
			return nil
		}
		ob = v.ob
		if ob == nil && s.observing && !v.raw {
			ob = s.newObserver(v)
		}
	case *Array:
		if v == nil {
			return nil
		}
		ob = v.ob
		if ob == nil && s.observing && !v.raw {
			ob = s.newObserver(v)
		}
	default:
		return nil
	}
	if asRoot && ob != nil {
		ob.rootCount++
	}
	return ob
}

// Observable makes value reactive in place and returns it.
func Observable[T any](s *System, value T) T {
	s.Observe(value, false)
	return value
}

func (s *System) newObserver(value any) *Observer {
	ob := &Observer{
		sys:   s,
		value: value,
		dep:   s.NewDep(),
	}
	switch v := value.(type) {
	case *Object:
		v.ob = ob
		ob.walk(v)
	case *Array:
		v.ob = ob
		ob.observeArray(v.items)
	}
	return ob
}

func (ob *Observer) walk(obj *Object) {
	for _, key := range obj.keys {
		p := obj.props[key]
		ob.sys.makeReactive(p, DefineOptions{})
	}
}

func (ob *Observer) observeArray(items []any) {
	for _, item := range items {
		ob.sys.Observe(item, false)
	}
}

func observerOf(value any) *Observer {
	switch v := value.(type) {
	case *Object:
		if v != nil {
			return v.ob
		}
	case *Array:
		if v != nil {
			return v.ob
		}
	}
	return nil
}

// DefineOptions customise DefineReactive.
type DefineOptions struct {
	// Shallow skips observing the value.
	Shallow bool
	// CustomSetter runs before every effective write.
	CustomSetter func()
	// Getter and Setter back the property instead of a stored value. A
	// Getter without a Setter makes the property read-only.
	Getter func() any
	Setter func(any)
}

// DefineReactive installs a reactive accessor for key on obj holding value.
func (s *System) DefineReactive(obj *Object, key string, value any, opts DefineOptions) {
	if obj.raw {
		return
	}
	p, ok := obj.props[key]
	if !ok {
		p = &property{}
		obj.keys = append(obj.keys, key)
		obj.props[key] = p
	}
	p.value = value
	s.makeReactive(p, opts)
}

func (s *System) makeReactive(p *property, opts DefineOptions) {
	p.dep = s.NewDep()
	p.shallow = opts.Shallow
	p.customSetter = opts.CustomSetter
	if opts.Getter != nil {
		p.getter = opts.Getter
	}
	if opts.Setter != nil {
		p.setter = opts.Setter
	}
	if p.shallow {
		p.childOb = nil
		return
	}
	p.childOb = s.Observe(p.peek(), false)
}

// Set assigns key on target, an *Object or *Array, and triggers change
// notification when the key is new. For arrays key is an int index.
// Adding keys to component root data is refused with a warning.
func Set(target any, key any, value any) any {
	switch t := target.(type) {
	case *Array:
		if t == nil {
			break
		}
		i, ok := arrayIndex(key)
		if !ok {
			sysOf(t.ob).warn(fmt.Sprintf("invalid array index %v", key), nil)
			return value
		}
		if i > len(t.items) {
			t.items = append(t.items, make([]any, i-len(t.items))...)
		}
		t.Splice(i, 1, value)
		return value
	case *Object:
		if t == nil {
			break
		}
		k, ok := key.(string)
		if !ok {
			sysOf(t.ob).warn(fmt.Sprintf("invalid object key %v", key), nil)
			return value
		}
		if t.Has(k) {
			t.Put(k, value)
			return value
		}
		ob := t.ob
		if ob != nil && ob.rootCount > 0 {
			ob.sys.warn(ErrRootData.Error()+" - declare it upfront in the data option", nil, zap.String("key", k))
			return value
		}
		if ob == nil {
			t.Put(k, value)
			return value
		}
		ob.sys.DefineReactive(t, k, value, DefineOptions{})
		ob.dep.Notify()
		return value
	}
	Logger().Warn(ErrPrimitive.Error(), zap.Any("target", target))
	return value
}

// Del removes key from target and triggers change notification. Deleting a
// missing key is a no-op.
func Del(target any, key any) {
	switch t := target.(type) {
	case *Array:
		if t == nil {
			break
		}
		if i, ok := arrayIndex(key); ok && i < len(t.items) {
			t.Splice(i, 1)
		}
		return
	case *Object:
		if t == nil {
			break
		}
		k, ok := key.(string)
		if !ok {
			return
		}
		ob := t.ob
		if ob != nil && ob.rootCount > 0 {
			ob.sys.warn(ErrRootData.Error()+" - just set it to nil", nil, zap.String("key", k))
			return
		}
		if !t.remove(k) {
			return
		}
		if ob == nil {
			return
		}
		ob.dep.Notify()
		return
	}
	Logger().Warn("cannot delete reactive property on nil or primitive value", zap.Any("target", target))
}

func sysOf(ob *Observer) *System {
	if ob == nil {
		return nil
	}
	return ob.sys
}

func arrayIndex(key any) (int, bool) {
	switch k := key.(type) {
	case int:
		return k, k >= 0
	case int64:
		return int(k), k >= 0
	case uint:
		return int(k), true
	case float64:
		return int(k), k >= 0 && math.Floor(k) == k && !math.IsInf(k, 0)
	case string:
		i, err := strconv.Atoi(k)
		return i, err == nil && i >= 0
	}
	return 0, false
}

// From converts map[string]any and []any trees into Objects and Arrays.
// Map keys are sorted. Other values are returned unchanged.
func From(value any) any {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Put(k, From(v[k]))
		}
		return obj
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = From(item)
		}
		return NewArray(items...)
	}
	return value
}

// ToPlain is the inverse of From. It reads without collecting dependencies.
func ToPlain(value any) any {
	switch v := value.(type) {
	case *Object:
		m := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			m[k] = ToPlain(v.props[k].peek())
		}
		return m
	case *Array:
		items := make([]any, len(v.items))
		for i, item := range v.items {
			items[i] = ToPlain(item)
		}
		return items
	}
	return value
}

// strictEqual mirrors identity comparison: values that are comparable at
// run time compare with ==, slices, maps and funcs by pointer. Anything else,
// such as a struct holding a slice in an interface field, is never equal.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	switch ta.Kind() {
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	}
	return false
}

// sameValue is strictEqual that also treats two NaNs as equal.
func sameValue(a, b any) bool {
	if strictEqual(a, b) {
		return true
	}
	return isNaN(a) && isNaN(b)
}

func isNaN(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}
	return false
}

// isObject reports whether v may be mutated without changing identity.
func isObject(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case *Object, *Array:
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Struct:
		return true
	}
	return false
}
