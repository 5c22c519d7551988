package observer

// Computed is a lazily evaluated derived value. It recomputes only when read
// after one of its dependencies changed, and watchers reading it depend on
// its inputs.
type Computed struct {
	w *Watcher
}

func (c *Computed) Value() (any, error) {
	w := c.w
	if w.dirty {
		if err := w.Evaluate(); err != nil {
			return nil, err
		}
	}
	if w.sys.target != nil {
		w.Depend()
	}
	return w.value, nil
}

// MustValue is Value for getters that cannot fail.
func (c *Computed) MustValue() any {
	v, err := c.Value()
	if err != nil {
		panic(err)
	}
	return v
}

func (c *Computed) Watcher() *Watcher {
	return c.w
}
