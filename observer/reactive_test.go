package observer_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/delaneyj/reactor/observer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSystem(t *testing.T) *observer.System {
	t.Helper()
	return observer.NewSystem(observer.Config{
		ErrorHandler: func(err error, scope *observer.Scope, info string) {
			assert.FailNow(t, info, err.Error())
		},
	})
}

// countRuns watches getter synchronously and returns how often it evaluated.
func countRuns(sys *observer.System, getter func() any) *int {
	runs := 0
	sys.Watch(func() (any, error) {
		runs++
		return getter(), nil
	}, nil, observer.WatchOptions{Sync: true})
	return &runs
}

// observing a value twice yields the same Observer
func TestObserveIsIdempotent(t *testing.T) {
	sys := newSystem(t)
	inner := observer.NewObject(observer.KV("x", 1))
	o := observer.NewObject(observer.KV("inner", inner), observer.KV("list", observer.NewArray(1, 2)))

	first := sys.Observe(o, false)
	require.NotNil(t, first)
	assert.Same(t, first, sys.Observe(o, false))
	assert.Same(t, first, o.Observer())

	assert.NotNil(t, inner.Observer(), "nested objects are observed")
	assert.NotNil(t, o.Get("list").(*observer.Array).Observer(), "nested arrays are observed")
}

func TestObserveSkipsNonContainers(t *testing.T) {
	sys := newSystem(t)

	assert.Nil(t, sys.Observe(nil, false))
	assert.Nil(t, sys.Observe(42, false))
	assert.Nil(t, sys.Observe("str", false))
	assert.Nil(t, sys.Observe(map[string]any{"a": 1}, false))

	raw := observer.NewObject(observer.KV("a", 1)).MarkRaw()
	assert.Nil(t, sys.Observe(raw, false))

	sys.ToggleObserving(false)
	assert.Nil(t, sys.Observe(observer.NewArray(), false))
	sys.ToggleObserving(true)
	assert.NotNil(t, sys.Observe(observer.NewArray(), false))
}

func TestObserveAsRootCountsAttachments(t *testing.T) {
	sys := newSystem(t)
	o := observer.NewObject()

	sys.Observe(o, true)
	ob := sys.Observe(o, true)
	assert.Equal(t, 2, ob.RootCount())
	ob.ReleaseRoot()
	assert.Equal(t, 1, ob.RootCount())
}

func TestObservableReturnsSameReference(t *testing.T) {
	sys := newSystem(t)
	o := observer.NewObject(observer.KV("a", 1))
	assert.Same(t, o, observer.Observable(sys, o))
	assert.NotNil(t, o.Observer())
}

// writing the current value, or NaN over NaN, notifies nobody
func TestSameValueWriteDoesNotNotify(t *testing.T) {
	sys := newSystem(t)
	o := observer.Observable(sys, observer.NewObject(
		observer.KV("a", 1),
		observer.KV("n", math.NaN()),
	))
	runs := countRuns(sys, func() any {
		return []any{o.Get("a"), o.Get("n")}
	})
	require.Equal(t, 1, *runs)

	o.Put("a", 1)
	o.Put("n", math.NaN())
	assert.Equal(t, 1, *runs)

	o.Put("a", 2)
	assert.Equal(t, 2, *runs)
}

type payload struct {
	Items any
}

// a struct holding a slice in an interface field is never equal to another
// value, so writing one notifies instead of panicking
func TestWriteOfUncomparableStructNotifies(t *testing.T) {
	sys := newSystem(t)
	o := observer.Observable(sys, observer.NewObject(observer.KV("p", payload{Items: []int{1}})))
	runs := countRuns(sys, func() any { return o.Get("p") })

	assert.NotPanics(t, func() {
		o.Put("p", payload{Items: []int{2}})
	})
	assert.Equal(t, 2, *runs)
	assert.Equal(t, payload{Items: []int{2}}, o.Get("p"))

	o.Put("p", payload{Items: 3})
	assert.Equal(t, 3, *runs)
	o.Put("p", payload{Items: 3})
	assert.Equal(t, 3, *runs)
}

func TestDistinctWriteNotifiesEverySubscriberOnce(t *testing.T) {
	sys := newSystem(t)
	o := observer.Observable(sys, observer.NewObject(observer.KV("a", 1)))
	first := countRuns(sys, func() any { return o.Get("a") })
	second := countRuns(sys, func() any { return o.Get("a") })

	o.Put("a", 2)
	assert.Equal(t, 2, *first)
	assert.Equal(t, 2, *second)
}

func TestWritingContainerObservesIt(t *testing.T) {
	sys := newSystem(t)
	o := observer.Observable(sys, observer.NewObject(observer.KV("child", nil)))

	child := observer.NewObject(observer.KV("x", 1))
	o.Put("child", child)
	assert.NotNil(t, child.Observer())
}

func TestPutOfNewKeyIsNotReactive(t *testing.T) {
	sys := newSystem(t)
	o := observer.Observable(sys, observer.NewObject())
	o.Put("late", 1)

	runs := countRuns(sys, func() any { return o.Get("late") })
	o.Put("late", 2)
	assert.Equal(t, 1, *runs)
}

func TestSetAddsReactiveKey(t *testing.T) {
	sys := newSystem(t)
	o := observer.Observable(sys, observer.NewObject(observer.KV("a", 1)))
	keys := countRuns(sys, func() any { return o.Keys() })

	observer.Set(o, "b", 2)
	assert.Equal(t, 2, *keys)
	assert.Equal(t, 2, o.Get("b"))

	b := countRuns(sys, func() any { return o.Get("b") })
	o.Put("b", 3)
	assert.Equal(t, 2, *b)

	// existing keys go through the setter
	observer.Set(o, "a", 5)
	assert.Equal(t, 5, o.Get("a"))
	assert.Equal(t, 2, *keys)
}

func TestSetOnRootDataWarns(t *testing.T) {
	var warnings []string
	sys := observer.NewSystem(observer.Config{
		WarnHandler: func(msg string, _ *observer.Scope) {
			warnings = append(warnings, msg)
		},
	})
	data := observer.NewObject(observer.KV("a", 1))
	sys.Observe(data, true)

	observer.Set(data, "b", 2)
	assert.False(t, data.Has("b"))
	observer.Del(data, "a")
	assert.True(t, data.Has("a"))

	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], observer.ErrRootData.Error())
}

func TestSetOnUnobservedObjectJustAssigns(t *testing.T) {
	o := observer.NewObject()
	observer.Set(o, "a", 1)
	assert.Equal(t, 1, o.Get("a"))
	assert.Nil(t, o.Observer())
}

func TestSetArrayIndex(t *testing.T) {
	sys := newSystem(t)
	arr := observer.Observable(sys, observer.NewArray("a", "b", "c"))
	runs := countRuns(sys, func() any { return arr.Values() })

	observer.Set(arr, 1, "x")
	assert.Equal(t, []any{"a", "x", "c"}, arr.Values())
	assert.Equal(t, 2, *runs)

	observer.Set(arr, 5, "y")
	assert.Equal(t, []any{"a", "x", "c", nil, nil, "y"}, arr.Values())
	assert.Equal(t, 3, *runs)
}

// deleting a missing key is a no-op
func TestDelMissingKeyIsNoop(t *testing.T) {
	sys := newSystem(t)
	o := observer.Observable(sys, observer.NewObject(observer.KV("a", 1)))
	runs := countRuns(sys, func() any { return o.Keys() })

	observer.Del(o, "missing")
	assert.Equal(t, 1, *runs)

	observer.Del(o, "a")
	assert.Equal(t, 2, *runs)
	assert.False(t, o.Has("a"))
}

func TestDelArrayIndex(t *testing.T) {
	sys := newSystem(t)
	arr := observer.Observable(sys, observer.NewArray(1, 2, 3))
	observer.Del(arr, 0)
	observer.Del(arr, 10)
	assert.Equal(t, []any{2, 3}, arr.Values())
}

func TestSetAndDelOnPrimitiveDoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		observer.Set(nil, "a", 1)
		observer.Set(3, "a", 1)
		observer.Del("str", "a")
	})
}

func TestArrayMutatorsNotifyAndReturnNativeResults(t *testing.T) {
	sys := newSystem(t)
	arr := observer.Observable(sys, observer.NewArray(1, 2, 3, 4, 5))
	runs := countRuns(sys, func() any { return arr.Len() })

	assert.Equal(t, 6, arr.Push(6))
	assert.Equal(t, 6, arr.Pop())
	assert.Equal(t, 1, arr.Shift())
	assert.Equal(t, 5, arr.Unshift(0))
	assert.Equal(t, []any{4}, arr.Splice(-2, 1, "a", "b"))
	assert.Equal(t, []any{0, 2, 3, "a", "b", 5}, arr.Values())
	assert.Equal(t, 6, *runs, "push, pop, shift, unshift and splice each re-ran the watcher")

	values := countRuns(sys, func() any { return arr.Values() })
	arr.Reverse()
	assert.Equal(t, []any{5, "b", "a", 3, 2, 0}, arr.Values())
	arr.Sort(nil)
	assert.Equal(t, []any{0, 2, 3, 5, "a", "b"}, arr.Values())
	assert.Equal(t, 3, *values)
}

func TestArraySpliceClampsBounds(t *testing.T) {
	arr := observer.NewArray(1, 2, 3)
	assert.Empty(t, arr.Splice(10, 2, 4))
	assert.Equal(t, []any{1, 2, 3, 4}, arr.Values())
	assert.Equal(t, []any{1, 2, 3, 4}, arr.Splice(-10, 100))
	assert.Equal(t, 0, arr.Len())
}

func TestArrayIndexWriteDoesNotNotify(t *testing.T) {
	sys := newSystem(t)
	arr := observer.Observable(sys, observer.NewArray(1, 2))
	runs := countRuns(sys, func() any { return arr.Values() })

	arr.SetAt(0, 10)
	assert.Equal(t, 10, arr.At(0))
	assert.Equal(t, 1, *runs)
}

func TestNewArrayCopiesItems(t *testing.T) {
	items := []any{3, 1, 2}
	arr := observer.NewArray(items...)

	arr.Sort(nil)
	arr.SetAt(0, 10)
	assert.Equal(t, []any{3, 1, 2}, items)
	assert.Equal(t, []any{10, 2, 3}, arr.Values())
}

func TestArrayObservesInsertedElements(t *testing.T) {
	sys := newSystem(t)
	arr := observer.Observable(sys, observer.NewArray())
	obj := observer.NewObject(observer.KV("k", 1))
	nested := observer.NewArray()

	arr.Push(obj)
	arr.Unshift(nested)
	assert.NotNil(t, obj.Observer())
	assert.NotNil(t, nested.Observer())
}

// reading an array through a property depends on every element
func TestArrayPropertyDependsOnElements(t *testing.T) {
	sys := newSystem(t)
	item := observer.NewObject(observer.KV("name", "a"))
	o := observer.Observable(sys, observer.NewObject(
		observer.KV("items", observer.NewArray(item)),
	))
	runs := countRuns(sys, func() any { return o.Get("items") })

	observer.Set(item, "extra", true)
	assert.Equal(t, 2, *runs)
}

func TestDefineReactiveOptions(t *testing.T) {
	sys := newSystem(t)
	o := observer.Observable(sys, observer.NewObject())

	sys.DefineReactive(o, "ro", nil, observer.DefineOptions{
		Getter: func() any { return 42 },
	})
	o.Put("ro", 1)
	assert.Equal(t, 42, o.Get("ro"))

	custom := 0
	backing := 0
	sys.DefineReactive(o, "backed", nil, observer.DefineOptions{
		Getter:       func() any { return backing },
		Setter:       func(v any) { backing = v.(int) },
		CustomSetter: func() { custom++ },
	})
	runs := countRuns(sys, func() any { return o.Get("backed") })
	o.Put("backed", 7)
	assert.Equal(t, 7, backing)
	assert.Equal(t, 1, custom)
	assert.Equal(t, 2, *runs)

	inner := observer.NewObject()
	sys.DefineReactive(o, "shallow", inner, observer.DefineOptions{Shallow: true})
	assert.Nil(t, inner.Observer())
}

func TestFromAndToPlain(t *testing.T) {
	plain := map[string]any{
		"b": []any{1, map[string]any{"c": "d"}},
		"a": 1,
	}
	v := observer.From(plain)
	o, ok := v.(*observer.Object)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, o.Keys())
	assert.Equal(t, plain, observer.ToPlain(o))
}

func TestObjectMarshalJSONKeepsKeyOrder(t *testing.T) {
	o := observer.NewObject(
		observer.KV("b", 1),
		observer.KV("a", observer.NewArray("x")),
	)
	b, err := json.Marshal(o)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":["x"]}`, string(b))
}
