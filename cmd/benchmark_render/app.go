package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/delaneyj/reactor/component"
	"github.com/delaneyj/reactor/metrics"
	"github.com/delaneyj/reactor/observer"
	"github.com/delaneyj/reactor/vdom"
	"github.com/delaneyj/reactor/vdom/memdom"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var rowOptions = &component.Options{
	Name:  "Row",
	Props: []string{"row"},
	Render: func(vm *component.Instance) (*vdom.VNode, error) {
		row, ok := vm.Get("row").(*observer.Object)
		if !ok {
			return nil, fmt.Errorf("row prop is %T", vm.Get("row"))
		}
		return renderRow(row), nil
	},
}

func renderRow(row *observer.Object) *vdom.VNode {
	id := fmt.Sprint(row.Get("id"))
	return vdom.H("tr", vdom.Key(id),
		vdom.H("td", id),
		vdom.H("td", fmt.Sprint(row.Get("label"))),
	)
}

func tableOptions(rows *observer.Array, components bool) *component.Options {
	return &component.Options{
		Name: "Table",
		Data: func(*component.Instance) *observer.Object {
			return observer.NewObject(observer.KV("rows", rows))
		},
		Render: func(vm *component.Instance) (*vdom.VNode, error) {
			body := component.RenderList(vm.Get("rows"), func(v, _ any, _ int) *vdom.VNode {
				row := v.(*observer.Object)
				if components {
					return vm.Child(rowOptions, map[string]any{"row": row}, fmt.Sprint(row.Get("id")))
				}
				return renderRow(row)
			})
			return vdom.H("table", vdom.H("tbody", body)), nil
		},
	}
}

func newRows(next *int, n int) []any {
	rows := make([]any, n)
	for i := range rows {
		*next++
		rows[i] = observer.NewObject(
			observer.KV("id", *next),
			observer.KV("label", fmt.Sprintf("row %d", *next)),
		)
	}
	return rows
}

type result struct {
	scenario  Scenario
	duration  time.Duration
	flushes   float64
	renders   float64
	mutations int
	stats     vdom.Stats
	checksum  uint64
	verified  bool
}

type mountedTable struct {
	sys     *observer.System
	doc     *memdom.Document
	patcher *vdom.Patcher
	vm      *component.Instance
}

func mountTable(cfg observer.Config, logger *zap.Logger, rows *observer.Array, components bool) (*mountedTable, error) {
	sys := observer.NewSystem(cfg)
	doc := memdom.NewDocument()
	patcher := vdom.NewPatcher(doc, logger)
	vm, err := component.NewRuntime(sys, patcher).New(tableOptions(rows, components), nil)
	if err != nil {
		return nil, err
	}
	if err := vm.Mount(doc.Body); err != nil {
		return nil, err
	}
	return &mountedTable{sys: sys, doc: doc, patcher: patcher, vm: vm}, nil
}

func runScenario(s Scenario, logger *zap.Logger) (*result, error) {
	reg := prometheus.NewRegistry()
	collector := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("bench"))
	cfg := observer.Config{
		Logger:        logger,
		FlushObserver: collector,
		ErrorHandler: func(err error, sc *observer.Scope, info string) {
			logger.Error("benchmark error", zap.String("info", info), zap.String("scope", sc.Name()), zap.Error(err))
		},
	}

	next := 0
	tbl, err := mountTable(cfg, logger, observer.NewArray(newRows(&next, s.Rows)...), s.Components)
	if err != nil {
		return nil, fmt.Errorf("mount %q: %w", s.Name, err)
	}
	tbl.patcher.ResetStats()
	mutationsBefore := tbl.doc.Mutations
	random := rand.New(rand.NewSource(s.Seed))

	start := time.Now()
	for range s.Iterations {
		applyOp(s, tbl.vm, &next, random)
		if err := tbl.sys.Tick(); err != nil {
			return nil, fmt.Errorf("flush %q: %w", s.Name, err)
		}
	}
	duration := time.Since(start)

	res := &result{
		scenario:  s,
		duration:  duration,
		mutations: tbl.doc.Mutations - mutationsBefore,
		stats:     tbl.patcher.Stats(),
		checksum:  tbl.doc.Body.Checksum(),
	}
	if res.flushes, res.renders, err = flushCounts(reg); err != nil {
		return nil, err
	}

	// a fresh mount of the final rows must produce the same document
	fresh, ok := observer.From(observer.ToPlain(tbl.vm.Get("rows"))).(*observer.Array)
	if !ok {
		return nil, fmt.Errorf("scenario %q: rows are not an array", s.Name)
	}
	expected, err := mountTable(observer.Config{Logger: logger}, logger, fresh, s.Components)
	if err != nil {
		return nil, fmt.Errorf("verify %q: %w", s.Name, err)
	}
	res.verified = expected.doc.Body.Checksum() == res.checksum
	return res, nil
}

func applyOp(s Scenario, vm *component.Instance, next *int, random *rand.Rand) {
	rows := vm.Get("rows").(*observer.Array)
	n := rows.Len()

	switch s.Op {
	case OpReplace:
		vm.Set("rows", observer.NewArray(newRows(next, s.Rows)...))
	case OpUpdate:
		for i := 0; i < n; i += s.Stride {
			row := rows.At(i).(*observer.Object)
			row.Put("label", fmt.Sprint(row.Get("label"), " !!!"))
		}
	case OpSwap:
		if n > 2 {
			a, b := rows.At(1), rows.At(n-2)
			rows.Splice(1, 1, b)
			rows.Splice(n-2, 1, a)
		}
	case OpReverse:
		rows.Reverse()
	case OpShuffle:
		vals := rows.Values()
		random.Shuffle(len(vals), func(i, j int) {
			vals[i], vals[j] = vals[j], vals[i]
		})
		rows.Splice(0, len(vals), vals...)
	case OpAppend:
		rows.Push(newRows(next, s.Count)...)
	case OpRemove:
		if n > 0 {
			rows.Splice(random.Intn(n), 1)
		}
	}
}

func flushCounts(reg *prometheus.Registry) (flushes, runs float64, err error) {
	families, err := reg.Gather()
	if err != nil {
		return 0, 0, err
	}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			switch f.GetName() {
			case "bench_flushes_total":
				flushes += m.GetCounter().GetValue()
			case "bench_watcher_runs_total":
				runs += m.GetCounter().GetValue()
			}
		}
	}
	return flushes, runs, nil
}
