package vdom

import (
	"fmt"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"
)

// Stats counts host mutations performed by a Patcher.
type Stats struct {
	Created     int
	Removed     int
	Moved       int
	TextUpdates int
	AttrUpdates int
}

// Patcher reconciles VNode trees against host nodes through NodeOps. It is
// not safe for concurrent use; it runs on the goroutine that owns the
// render watchers calling it.
type Patcher struct {
	ops    NodeOps
	logger *zap.Logger
	stats  Stats
}

func NewPatcher(ops NodeOps, logger *zap.Logger) *Patcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Patcher{
		ops:    ops,
		logger: logger,
	}
}

func (p *Patcher) Ops() NodeOps {
	return p.ops
}

func (p *Patcher) Stats() Stats {
	return p.stats
}

func (p *Patcher) ResetStats() {
	p.stats = Stats{}
}

// Mount creates the host tree for vnode and appends it to container.
func (p *Patcher) Mount(container Node, vnode *VNode) (Node, error) {
	var inserted []*VNode
	if err := p.createElm(vnode, &inserted, container, nil); err != nil {
		return nil, err
	}
	p.invokeInsertHook(inserted)
	return vnode.Elm, nil
}

// Patch turns the host tree built for old into one matching vnode and
// returns its root. With a nil old the tree is created detached; with a nil
// vnode old is destroyed.
func (p *Patcher) Patch(old, vnode *VNode) (Node, error) {
	if vnode == nil {
		if old != nil {
			p.invokeDestroyHook(old)
		}
		return nil, nil
	}

	var inserted []*VNode
	switch {
	case old == nil:
		if err := p.createElm(vnode, &inserted, nil, nil); err != nil {
			return nil, err
		}
	case sameVnode(old, vnode):
		if err := p.patchVnode(old, vnode, &inserted); err != nil {
			return nil, err
		}
	default:
		oldElm := old.Elm
		parent := p.ops.ParentNode(oldElm)
		if err := p.createElm(vnode, &inserted, parent, p.ops.NextSibling(oldElm)); err != nil {
			return nil, err
		}
		if parent != nil {
			p.removeVnodes([]*VNode{old}, 0, 0)
		} else {
			p.invokeDestroyHook(old)
		}
	}
	p.invokeInsertHook(inserted)
	return vnode.Elm, nil
}

func (p *Patcher) createElm(vnode *VNode, inserted *[]*VNode, parent, ref Node) error {
	switch vnode.Kind {
	case KindComponent:
		return p.createComponent(vnode, inserted, parent, ref)
	case KindElement:
		elm := p.ops.CreateElement(vnode.Tag)
		vnode.Elm = elm
		for _, k := range vnode.Attrs.sortedKeys() {
			p.ops.SetAttribute(elm, k, vnode.Attrs[k])
		}
		p.checkDuplicateKeys(vnode.Children)
		for _, c := range vnode.Children {
			if err := p.createElm(c, inserted, elm, nil); err != nil {
				return err
			}
		}
	case KindText:
		vnode.Elm = p.ops.CreateTextNode(vnode.Text)
	case KindComment:
		vnode.Elm = p.ops.CreateComment(vnode.Text)
	default:
		return fmt.Errorf("vdom: cannot create node of kind %s", vnode.Kind)
	}
	p.stats.Created++
	p.insert(parent, vnode.Elm, ref)
	return nil
}

func (p *Patcher) createComponent(vnode *VNode, inserted *[]*VNode, parent, ref Node) error {
	data := vnode.Component
	if data == nil || data.Hooks == nil {
		return fmt.Errorf("vdom: component vnode %q has no hooks", vnode.Tag)
	}
	elm, err := data.Hooks.Init(vnode)
	if err != nil {
		return fmt.Errorf("init component %q: %w", data.Name, err)
	}
	vnode.Elm = elm
	*inserted = append(*inserted, vnode)
	p.insert(parent, elm, ref)
	return nil
}

func (p *Patcher) insert(parent, elm, ref Node) {
	if parent == nil || elm == nil {
		return
	}
	if ref != nil && p.ops.ParentNode(ref) == parent {
		p.ops.InsertBefore(parent, elm, ref)
		return
	}
	p.ops.AppendChild(parent, elm)
}

func (p *Patcher) patchVnode(old, vnode *VNode, inserted *[]*VNode) error {
	if old == vnode {
		return nil
	}
	elm := old.Elm
	vnode.Elm = elm

	switch vnode.Kind {
	case KindComponent:
		return vnode.Component.Hooks.Prepatch(old, vnode)
	case KindText, KindComment:
		if old.Text != vnode.Text {
			p.ops.SetTextContent(elm, vnode.Text)
			p.stats.TextUpdates++
		}
		return nil
	}

	p.updateAttrs(elm, old.Attrs, vnode.Attrs)
	oldCh, ch := old.Children, vnode.Children
	switch {
	case len(oldCh) > 0 && len(ch) > 0:
		return p.updateChildren(elm, oldCh, ch, inserted)
	case len(ch) > 0:
		p.checkDuplicateKeys(ch)
		return p.addVnodes(elm, nil, ch, 0, len(ch)-1, inserted)
	case len(oldCh) > 0:
		p.removeVnodes(oldCh, 0, len(oldCh)-1)
	}
	return nil
}

func (p *Patcher) updateAttrs(elm Node, old, attrs Attrs) {
	for _, k := range attrs.sortedKeys() {
		if cur, ok := old[k]; ok && cur == attrs[k] {
			continue
		}
		p.ops.SetAttribute(elm, k, attrs[k])
		p.stats.AttrUpdates++
	}
	for _, k := range old.sortedKeys() {
		if _, ok := attrs[k]; ok {
			continue
		}
		p.ops.RemoveAttribute(elm, k)
		p.stats.AttrUpdates++
	}
}

// updateChildren compares both child lists from both ends, falling back to
// a key lookup, so common edits (append, prepend, remove, reverse, swap)
// move existing host nodes instead of recreating them.
func (p *Patcher) updateChildren(parentElm Node, oldCh, newCh []*VNode, inserted *[]*VNode) error {
	// matched old children are blanked out
	oldCh = slices.Clone(oldCh)
	p.checkDuplicateKeys(newCh)

	oldStartIdx, oldEndIdx := 0, len(oldCh)-1
	newStartIdx, newEndIdx := 0, len(newCh)-1
	oldStart, oldEnd := oldCh[oldStartIdx], oldCh[oldEndIdx]
	newStart, newEnd := newCh[newStartIdx], newCh[newEndIdx]
	var oldKeyToIdx map[string]int

	for oldStartIdx <= oldEndIdx && newStartIdx <= newEndIdx {
		switch {
		case oldStart == nil:
			oldStartIdx++
			oldStart = at(oldCh, oldStartIdx)
		case oldEnd == nil:
			oldEndIdx--
			oldEnd = at(oldCh, oldEndIdx)
		case sameVnode(oldStart, newStart):
			if err := p.patchVnode(oldStart, newStart, inserted); err != nil {
				return err
			}
			oldStartIdx++
			newStartIdx++
			oldStart, newStart = at(oldCh, oldStartIdx), at(newCh, newStartIdx)
		case sameVnode(oldEnd, newEnd):
			if err := p.patchVnode(oldEnd, newEnd, inserted); err != nil {
				return err
			}
			oldEndIdx--
			newEndIdx--
			oldEnd, newEnd = at(oldCh, oldEndIdx), at(newCh, newEndIdx)
		case sameVnode(oldStart, newEnd):
			// moved right
			if err := p.patchVnode(oldStart, newEnd, inserted); err != nil {
				return err
			}
			p.move(parentElm, oldStart.Elm, p.ops.NextSibling(oldEnd.Elm))
			oldStartIdx++
			newEndIdx--
			oldStart, newEnd = at(oldCh, oldStartIdx), at(newCh, newEndIdx)
		case sameVnode(oldEnd, newStart):
			// moved left
			if err := p.patchVnode(oldEnd, newStart, inserted); err != nil {
				return err
			}
			p.move(parentElm, oldEnd.Elm, oldStart.Elm)
			oldEndIdx--
			newStartIdx++
			oldEnd, newStart = at(oldCh, oldEndIdx), at(newCh, newStartIdx)
		default:
			if oldKeyToIdx == nil {
				oldKeyToIdx = keyToOldIdx(oldCh, oldStartIdx, oldEndIdx)
			}
			idxInOld := -1
			if newStart.Key != "" {
				if i, ok := oldKeyToIdx[newStart.Key]; ok {
					idxInOld = i
				}
			} else {
				idxInOld = findIdxInOld(newStart, oldCh, oldStartIdx, oldEndIdx)
			}

			var toMove *VNode
			if idxInOld >= 0 {
				toMove = oldCh[idxInOld]
			}
			if toMove != nil && sameVnode(toMove, newStart) {
				if err := p.patchVnode(toMove, newStart, inserted); err != nil {
					return err
				}
				oldCh[idxInOld] = nil
				p.move(parentElm, toMove.Elm, oldStart.Elm)
			} else {
				// new node, or same key with a different element
				if err := p.createElm(newStart, inserted, parentElm, oldStart.Elm); err != nil {
					return err
				}
			}
			newStartIdx++
			newStart = at(newCh, newStartIdx)
		}
	}

	if oldStartIdx > oldEndIdx {
		var ref Node
		if next := at(newCh, newEndIdx+1); next != nil {
			ref = next.Elm
		}
		return p.addVnodes(parentElm, ref, newCh, newStartIdx, newEndIdx, inserted)
	}
	if newStartIdx > newEndIdx {
		p.removeVnodes(oldCh, oldStartIdx, oldEndIdx)
	}
	return nil
}

func (p *Patcher) move(parent, elm, ref Node) {
	if ref == nil {
		p.ops.AppendChild(parent, elm)
	} else {
		p.ops.InsertBefore(parent, elm, ref)
	}
	p.stats.Moved++
}

func at(s []*VNode, i int) *VNode {
	if i < 0 || i >= len(s) {
		return nil
	}
	return s[i]
}

func keyToOldIdx(children []*VNode, start, end int) map[string]int {
	m := make(map[string]int, end-start+1)
	for i := start; i <= end; i++ {
		if c := children[i]; c != nil && c.Key != "" {
			m[c.Key] = i
		}
	}
	return m
}

func findIdxInOld(node *VNode, oldCh []*VNode, start, end int) int {
	for i := start; i <= end; i++ {
		if c := oldCh[i]; c != nil && sameVnode(node, c) {
			return i
		}
	}
	return -1
}

func (p *Patcher) addVnodes(parent, ref Node, vnodes []*VNode, start, end int, inserted *[]*VNode) error {
	for i := start; i <= end; i++ {
		if err := p.createElm(vnodes[i], inserted, parent, ref); err != nil {
			return err
		}
	}
	return nil
}

func (p *Patcher) removeVnodes(vnodes []*VNode, start, end int) {
	for i := start; i <= end; i++ {
		ch := vnodes[i]
		if ch == nil {
			continue
		}
		if parent := p.ops.ParentNode(ch.Elm); parent != nil {
			p.ops.RemoveChild(parent, ch.Elm)
		}
		p.stats.Removed++
		p.invokeDestroyHook(ch)
	}
}

func (p *Patcher) invokeDestroyHook(vnode *VNode) {
	if vnode.Kind == KindComponent && vnode.Component != nil && vnode.Component.Hooks != nil {
		vnode.Component.Hooks.Destroy(vnode)
	}
	for _, c := range vnode.Children {
		p.invokeDestroyHook(c)
	}
}

func (p *Patcher) invokeInsertHook(queue []*VNode) {
	for _, vnode := range queue {
		vnode.Component.Hooks.Insert(vnode)
	}
}

func (p *Patcher) checkDuplicateKeys(children []*VNode) {
	if len(children) < 2 {
		return
	}
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, c := range children {
		if c == nil || c.Key == "" {
			continue
		}
		if !seen.Add(c.Key) {
			p.logger.Warn("Duplicate keys detected. This may cause an update error.", zap.String("key", c.Key))
		}
	}
}
