package component_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/delaneyj/reactor/component"
	"github.com/delaneyj/reactor/observer"
	"github.com/delaneyj/reactor/perf"
	"github.com/delaneyj/reactor/vdom"
	"github.com/delaneyj/reactor/vdom/memdom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type fixture struct {
	sys      *observer.System
	doc      *memdom.Document
	rt       *component.Runtime
	warnings []string
}

func newFixture(t *testing.T, opts ...component.RuntimeOption) *fixture {
	f := &fixture{doc: memdom.NewDocument()}
	f.sys = observer.NewSystem(observer.Config{
		WarnHandler: func(msg string, _ *observer.Scope) {
			f.warnings = append(f.warnings, msg)
		},
		ErrorHandler: func(err error, _ *observer.Scope, info string) {
			t.Errorf("unexpected error in %s: %v", info, err)
		},
	})
	f.rt = component.NewRuntime(f.sys, vdom.NewPatcher(f.doc, nil), opts...)
	return f
}

func (f *fixture) mount(t *testing.T, opts *component.Options) *component.Instance {
	t.Helper()
	vm, err := f.rt.New(opts, nil)
	require.NoError(t, err)
	require.NoError(t, vm.Mount(f.doc.Body))
	return vm
}

func (f *fixture) html() string {
	return f.doc.Body.InnerHTML()
}

func counterData(*component.Instance) *observer.Object {
	return observer.NewObject(observer.KV("count", 0))
}

// Three writes before the checkpoint produce exactly one re-render and one
// updated hook.
func TestMutationsBatchIntoOneRender(t *testing.T) {
	f := newFixture(t)
	renders, updated := 0, 0
	vm := f.mount(t, &component.Options{
		Name: "Counter",
		Data: counterData,
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			renders++
			return vdom.P(vdom.Textf("count %d", vm.Get("count"))), nil
		},
		Updated: func(*component.Instance) error {
			updated++
			return nil
		},
	})
	assert.Equal(t, "<p>count 0</p>", f.html())
	assert.True(t, vm.Mounted())

	for i := 1; i <= 3; i++ {
		vm.Set("count", i)
	}
	assert.Equal(t, 1, renders)
	require.NoError(t, f.sys.Tick())

	assert.Equal(t, 2, renders)
	assert.Equal(t, 1, updated)
	assert.Equal(t, "<p>count 3</p>", f.html())
}

func TestLifecycleHookOrder(t *testing.T) {
	f := newFixture(t)
	var log []string
	hook := func(name string) component.Hook {
		return func(*component.Instance) error {
			log = append(log, name)
			return nil
		}
	}

	child := &component.Options{
		Name:  "Child",
		Props: []string{"label"},
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			return vdom.Span(fmt.Sprint(vm.Get("label"))), nil
		},
		BeforeCreate:  hook("c:beforeCreate"),
		Created:       hook("c:created"),
		BeforeMount:   hook("c:beforeMount"),
		Mounted:       hook("c:mounted"),
		BeforeUpdate:  hook("c:beforeUpdate"),
		Updated:       hook("c:updated"),
		BeforeDestroy: hook("c:beforeDestroy"),
		Destroyed:     hook("c:destroyed"),
	}
	vm := f.mount(t, &component.Options{
		Name: "Parent",
		Data: func(*component.Instance) *observer.Object {
			return observer.NewObject(observer.KV("label", "a"))
		},
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			return vdom.Div(vm.Child(child, map[string]any{"label": vm.Get("label")}, "")), nil
		},
		BeforeCreate:  hook("p:beforeCreate"),
		Created:       hook("p:created"),
		BeforeMount:   hook("p:beforeMount"),
		Mounted:       hook("p:mounted"),
		BeforeUpdate:  hook("p:beforeUpdate"),
		Updated:       hook("p:updated"),
		BeforeDestroy: hook("p:beforeDestroy"),
		Destroyed:     hook("p:destroyed"),
	})

	assert.Equal(t, []string{
		"p:beforeCreate", "p:created", "p:beforeMount",
		"c:beforeCreate", "c:created", "c:beforeMount",
		"c:mounted", "p:mounted",
	}, log)
	assert.Equal(t, "<div><span>a</span></div>", f.html())
	require.Len(t, vm.Children(), 1)
	assert.Same(t, vm, vm.Children()[0].Parent())

	log = nil
	vm.Set("label", "b")
	require.NoError(t, f.sys.Tick())
	assert.Equal(t, []string{"p:beforeUpdate", "c:beforeUpdate", "p:updated", "c:updated"}, log)
	assert.Equal(t, "<div><span>b</span></div>", f.html())
	assert.Empty(t, f.warnings)

	log = nil
	childVM := vm.Children()[0]
	vm.Destroy()
	assert.Equal(t, []string{"p:beforeDestroy", "c:beforeDestroy", "c:destroyed", "p:destroyed"}, log)
	assert.True(t, vm.Destroyed())
	assert.True(t, childVM.Destroyed())
	assert.Equal(t, 0, vm.Data().Observer().RootCount())

	log = nil
	vm.Set("label", "c")
	require.NoError(t, f.sys.Tick())
	assert.Empty(t, log)
	assert.NotPanics(t, vm.Destroy)
}

// A child re-renders only when a prop it reads changes, and only after its
// parent in the same flush.
func TestChildRerendersAfterParent(t *testing.T) {
	f := newFixture(t)
	var order []string
	child := &component.Options{
		Name:  "Child",
		Props: []string{"n"},
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			order = append(order, "child")
			return vdom.Span(vdom.Textf("%v", vm.Get("n"))), nil
		},
	}
	vm := f.mount(t, &component.Options{
		Name: "Parent",
		Data: func(*component.Instance) *observer.Object {
			return observer.NewObject(observer.KV("n", 1), observer.KV("title", "t"))
		},
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			order = append(order, "parent")
			return vdom.Div(
				vdom.H("h1", fmt.Sprint(vm.Get("title"))),
				vm.Child(child, map[string]any{"n": vm.Get("n")}, ""),
			), nil
		},
	})
	assert.Equal(t, []string{"parent", "child"}, order)

	order = nil
	vm.Set("title", "u")
	require.NoError(t, f.sys.Tick())
	assert.Equal(t, []string{"parent"}, order)

	order = nil
	vm.Set("n", 2)
	require.NoError(t, f.sys.Tick())
	assert.Equal(t, []string{"parent", "child"}, order)
	assert.Equal(t, "<div><h1>u</h1><span>2</span></div>", f.html())
}

func TestMutatingPropWarns(t *testing.T) {
	f := newFixture(t)
	var childVM *component.Instance
	child := &component.Options{
		Name:  "Child",
		Props: []string{"v"},
		Created: func(vm *component.Instance) error {
			childVM = vm
			return nil
		},
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			return vdom.Span(vdom.Textf("%v", vm.Get("v"))), nil
		},
	}
	f.mount(t, &component.Options{
		Name: "Parent",
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			return vm.Child(child, map[string]any{"v": 1}, ""), nil
		},
	})
	require.NotNil(t, childVM)

	childVM.Set("v", 5)
	require.Len(t, f.warnings, 1)
	assert.Contains(t, f.warnings[0], `Avoid mutating a prop directly`)
	require.NoError(t, f.sys.Tick())
	assert.Equal(t, "<span>5</span>", f.html())
}

func TestKeyedChildComponentsAreReused(t *testing.T) {
	f := newFixture(t)
	created, destroyed := 0, 0
	item := &component.Options{
		Name:  "Item",
		Props: []string{"id"},
		Created: func(*component.Instance) error {
			created++
			return nil
		},
		Destroyed: func(*component.Instance) error {
			destroyed++
			return nil
		},
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			return vdom.Li(fmt.Sprint(vm.Get("id"))), nil
		},
	}
	items := observer.NewArray("a", "b", "c")
	vm := f.mount(t, &component.Options{
		Name: "List",
		Data: func(*component.Instance) *observer.Object {
			return observer.NewObject(observer.KV("items", items))
		},
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			return vdom.Ul(component.RenderList(vm.Get("items"), func(v, _ any, _ int) *vdom.VNode {
				id := v.(string)
				return vm.Child(item, map[string]any{"id": id}, id)
			})), nil
		},
	})
	assert.Equal(t, "<ul><li>a</li><li>b</li><li>c</li></ul>", f.html())
	assert.Equal(t, 3, created)

	items.Reverse()
	require.NoError(t, f.sys.Tick())
	assert.Equal(t, "<ul><li>c</li><li>b</li><li>a</li></ul>", f.html())
	assert.Equal(t, 3, created)
	assert.Equal(t, 0, destroyed)

	items.Pop()
	require.NoError(t, f.sys.Tick())
	assert.Equal(t, "<ul><li>c</li><li>b</li></ul>", f.html())
	assert.Equal(t, 1, destroyed)
	assert.Len(t, vm.Children(), 2)
}

func TestComputedAndWatchOptions(t *testing.T) {
	f := newFixture(t)
	var seen [][2]any
	vm := f.mount(t, &component.Options{
		Name: "Doubler",
		Data: func(*component.Instance) *observer.Object {
			return observer.NewObject(observer.KV("count", 1))
		},
		Computed: []component.ComputedDef{{
			Name: "double",
			Get: func(vm *component.Instance) (any, error) {
				return vm.Get("count").(int) * 2, nil
			},
		}},
		Watch: []component.WatchDef{{
			Path: "double",
			Handler: func(_ *component.Instance, value, oldValue any) error {
				seen = append(seen, [2]any{value, oldValue})
				return nil
			},
			Immediate: true,
		}},
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			return vdom.P(vdom.Textf("%d", vm.Get("double"))), nil
		},
	})
	assert.Equal(t, "<p>2</p>", f.html())
	assert.Equal(t, [][2]any{{2, nil}}, seen)

	vm.Set("count", 5)
	require.NoError(t, f.sys.Tick())
	assert.Equal(t, "<p>10</p>", f.html())
	assert.Equal(t, [][2]any{{2, nil}, {10, 2}}, seen)

	c, ok := vm.Computed("double")
	require.True(t, ok)
	assert.Equal(t, 10, c.MustValue())
}

func TestInstanceWatchAndNextTick(t *testing.T) {
	f := newFixture(t)
	vm := f.mount(t, &component.Options{
		Name: "Counter",
		Data: counterData,
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			return vdom.P(vdom.Textf("%d", vm.Get("count"))), nil
		},
	})

	var got []any
	unwatch := vm.WatchPath("count", func(v, _ any) error {
		got = append(got, v)
		return nil
	}, observer.WatchOptions{})

	var html string
	vm.Set("count", 1)
	vm.NextTick(func() error {
		html = f.html()
		return nil
	})
	require.NoError(t, f.sys.Tick())
	assert.Equal(t, []any{1}, got)
	assert.Equal(t, "<p>1</p>", html)

	unwatch()
	vm.Set("count", 2)
	require.NoError(t, f.sys.Tick())
	assert.Equal(t, []any{1}, got)
}

func TestForceUpdateRerendersWithoutChanges(t *testing.T) {
	f := newFixture(t)
	renders := 0
	vm := f.mount(t, &component.Options{
		Name: "Static",
		Render: func(*component.Instance) (*vdom.VNode, error) {
			renders++
			return vdom.P("x"), nil
		},
	})
	vm.ForceUpdate()
	vm.ForceUpdate()
	require.NoError(t, f.sys.Tick())
	assert.Equal(t, 2, renders)
	assert.Equal(t, "<p>x</p>", f.html())
}

func TestInstanceWarnings(t *testing.T) {
	f := newFixture(t)
	vm := f.mount(t, &component.Options{
		Name:  "Warn",
		Props: []string{"p"},
		Data: func(*component.Instance) *observer.Object {
			return observer.NewObject(observer.KV("p", 1), observer.KV("c", 2))
		},
		Computed: []component.ComputedDef{{
			Name: "c",
			Get: func(*component.Instance) (any, error) {
				return 3, nil
			},
		}},
		Render: func(*component.Instance) (*vdom.VNode, error) {
			return vdom.Empty(), nil
		},
	})
	require.Len(t, f.warnings, 2)
	assert.Contains(t, f.warnings[0], `"p" is already declared as a prop`)
	assert.Contains(t, f.warnings[1], `computed property "c" is already defined in data`)
	assert.Equal(t, 2, vm.Get("c"))

	f.warnings = nil
	assert.Nil(t, vm.Get("missing"))
	vm.Set("added", 1)
	require.Len(t, f.warnings, 2)
	assert.Contains(t, f.warnings[0], `Property "missing" is not defined`)
	assert.Contains(t, f.warnings[1], observer.ErrRootData.Error())
	assert.False(t, vm.Data().Has("added"))
}

// A render error is handed to the nearest ancestor's error hook and the
// previous tree stays in place.
func TestRenderErrorIsCapturedByParent(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")
	child := &component.Options{
		Name:  "Child",
		Props: []string{"fail"},
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			if vm.Get("fail") == true {
				return nil, boom
			}
			return vdom.Span("ok"), nil
		},
	}

	var (
		captured []error
		from     []string
		infos    []string
	)
	vm := f.mount(t, &component.Options{
		Name: "Parent",
		Data: func(*component.Instance) *observer.Object {
			return observer.NewObject(observer.KV("fail", false))
		},
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			return vdom.Div(vm.Child(child, map[string]any{"fail": vm.Get("fail")}, "")), nil
		},
		ErrorCaptured: func(_ *component.Instance, err error, sc *observer.Scope, info string) bool {
			captured = append(captured, err)
			from = append(from, sc.Name())
			infos = append(infos, info)
			return false
		},
	})

	vm.Set("fail", true)
	require.NoError(t, f.sys.Tick())
	require.Len(t, captured, 1)
	assert.ErrorIs(t, captured[0], boom)
	assert.Equal(t, []string{"Child"}, from)
	assert.Equal(t, []string{"render"}, infos)
	assert.Equal(t, "<div><span>ok</span></div>", f.html())
}

func TestHookErrorsAreReported(t *testing.T) {
	boom := errors.New("boom")
	var infos []string
	sys := observer.NewSystem(observer.Config{
		ErrorHandler: func(err error, _ *observer.Scope, info string) {
			assert.ErrorIs(t, err, boom)
			infos = append(infos, info)
		},
	})
	doc := memdom.NewDocument()
	rt := component.NewRuntime(sys, vdom.NewPatcher(doc, nil))
	vm, err := rt.New(&component.Options{
		Name: "Failing",
		Created: func(*component.Instance) error {
			return boom
		},
		Mounted: func(*component.Instance) error {
			return boom
		},
		Render: func(*component.Instance) (*vdom.VNode, error) {
			return vdom.P("x"), nil
		},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, vm.Mount(doc.Body))
	assert.Equal(t, []string{"created hook", "mounted hook"}, infos)
	assert.ErrorIs(t, vm.Mount(doc.Body), component.ErrAlreadyMounted)
}

func TestNewWithoutRenderFails(t *testing.T) {
	f := newFixture(t)
	_, err := f.rt.New(&component.Options{Name: "Empty"}, nil)
	assert.ErrorIs(t, err, component.ErrNoRender)
}

type spanNames struct {
	noop.TracerProvider
	names []string
}

func (s *spanNames) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return &spanNameTracer{s: s}
}

type spanNameTracer struct {
	noop.Tracer
	s *spanNames
}

func (t *spanNameTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	t.s.names = append(t.s.names, name)
	return t.Tracer.Start(ctx, name, opts...)
}

func TestPerformanceSpans(t *testing.T) {
	rec := &spanNames{}
	f := newFixture(t, component.WithTracer(perf.New(true, perf.WithTracerProvider(rec))))
	vm := f.mount(t, &component.Options{
		Name: "Counter",
		Data: counterData,
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			return vdom.P(vdom.Textf("%d", vm.Get("count"))), nil
		},
	})
	assert.Equal(t, []string{
		"reactor Counter init",
		"reactor Counter render",
		"reactor Counter patch",
	}, rec.names)

	rec.names = nil
	vm.Set("count", 1)
	require.NoError(t, f.sys.Tick())
	assert.Equal(t, []string{"reactor Counter render", "reactor Counter patch"}, rec.names)
}
