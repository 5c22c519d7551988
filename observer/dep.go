package observer

import (
	"slices"
	"sort"
)

// Dep is a publisher of change notifications. One backs every reactive
// property and one backs every observed container.
type Dep struct {
	sys  *System
	id   uint64
	subs []*Watcher
}

func (s *System) NewDep() *Dep {
	return &Dep{
		sys: s,
		id:  s.nextDepID(),
	}
}

func (d *Dep) ID() uint64 {
	return d.id
}

// Subs returns a copy of the current subscribers in insertion order.
func (d *Dep) Subs() []*Watcher {
	return slices.Clone(d.subs)
}

func (d *Dep) addSub(w *Watcher) {
	d.subs = append(d.subs, w)
}

func (d *Dep) removeSub(w *Watcher) {
	for i, sub := range d.subs {
		if sub == w {
			d.subs = slices.Delete(d.subs, i, i+1)
			return
		}
	}
}

// Depend links the watcher currently evaluating, if any, to this Dep.
func (d *Dep) Depend() {
	if w := d.sys.target; w != nil {
		w.addDep(d)
	}
}

// Notify calls Update on every subscriber. The list is snapshotted first so
// subscribers that unsubscribe during notification do not shift the
// iteration.
func (d *Dep) Notify() {
	subs := slices.Clone(d.subs)
	if d.sys.cfg.Synchronous {
		// not batched, so order must come from here
		sort.Slice(subs, func(i, j int) bool {
			return subs[i].id < subs[j].id
		})
	}
	for _, sub := range subs {
		sub.Update()
	}
}
