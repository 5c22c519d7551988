package observer

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Field is a key/value pair used to build an Object.
type Field struct {
	Key   string
	Value any
}

func KV(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Object is an ordered string-keyed record. Once observed, each key present
// at observation time reads and writes through a reactive accessor. Keys
// added later with Put are plain; use Set to add a reactive key.
type Object struct {
	ob    *Observer
	keys  []string
	props map[string]*property
	raw   bool
}

type property struct {
	value   any
	dep     *Dep
	childOb *Observer
	shallow bool

	getter       func() any
	setter       func(any)
	customSetter func()
}

func NewObject(fields ...Field) *Object {
	o := &Object{
		keys:  make([]string, 0, len(fields)),
		props: make(map[string]*property, len(fields)),
	}
	for _, f := range fields {
		o.Put(f.Key, f.Value)
	}
	return o
}

// Observer returns the Observer attached to o, or nil.
func (o *Object) Observer() *Observer {
	return o.ob
}

// MarkRaw excludes o from observation. It has no effect once o is observed.
func (o *Object) MarkRaw() *Object {
	o.raw = true
	return o
}

func (o *Object) IsRaw() bool {
	return o.raw
}

func (o *Object) Get(key string) any {
	v, _ := o.Lookup(key)
	return v
}

func (o *Object) Lookup(key string) (any, bool) {
	p, ok := o.props[key]
	if !ok {
		return nil, false
	}
	return p.get(), true
}

// Has reports whether key exists. It does not collect a dependency.
func (o *Object) Has(key string) bool {
	_, ok := o.props[key]
	return ok
}

// Put assigns key. Existing reactive keys go through their setter; a new key
// is stored as a plain, untracked property.
func (o *Object) Put(key string, value any) {
	if p, ok := o.props[key]; ok {
		p.set(value)
		return
	}
	o.keys = append(o.keys, key)
	o.props[key] = &property{value: value}
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	o.dependSelf()
	return slices.Clone(o.keys)
}

func (o *Object) Len() int {
	o.dependSelf()
	return len(o.keys)
}

// Range calls fn for each key in order until fn returns false. Reads are
// tracked.
func (o *Object) Range(fn func(key string, value any) bool) {
	o.dependSelf()
	for _, key := range slices.Clone(o.keys) {
		p, ok := o.props[key]
		if !ok {
			continue
		}
		if !fn(key, p.get()) {
			return
		}
	}
}

func (o *Object) dependSelf() {
	if o.ob != nil {
		o.ob.dep.Depend()
	}
}

func (o *Object) remove(key string) bool {
	if _, ok := o.props[key]; !ok {
		return false
	}
	delete(o.props, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
	return true
}

func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(o.props[key].peek())
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *property) peek() any {
	if p.getter != nil {
		return p.getter()
	}
	return p.value
}

func (p *property) get() any {
	value := p.peek()
	if p.dep == nil || p.dep.sys.target == nil {
		return value
	}
	p.dep.Depend()
	if p.childOb != nil {
		p.childOb.dep.Depend()
		if arr, ok := value.(*Array); ok {
			dependArray(arr)
		}
	}
	return value
}

func (p *property) set(newValue any) {
	if p.dep == nil {
		if p.setter != nil {
			p.setter(newValue)
			return
		}
		p.value = newValue
		return
	}

	value := p.peek()
	if sameValue(newValue, value) {
		return
	}
	if p.customSetter != nil {
		p.customSetter()
	}
	// accessor without setter
	if p.getter != nil && p.setter == nil {
		return
	}
	if p.setter != nil {
		p.setter(newValue)
	} else {
		p.value = newValue
	}
	if p.shallow {
		p.childOb = nil
	} else {
		p.childOb = p.dep.sys.Observe(newValue, false)
	}
	p.dep.Notify()
}
