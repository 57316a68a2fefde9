package widget

import (
	"fmt"
	"slices"
)

// Entity is a handle to a tree node. Handles to despawned nodes go stale
// and are ignored by every Tree method. The zero Entity is never valid.
type Entity struct {
	index uint32
	gen   uint32
}

// IsZero reports whether e is the zero handle.
func (e Entity) IsZero() bool { return e.gen == 0 }

func (e Entity) String() string {
	if e.IsZero() {
		return "entity(none)"
	}
	return fmt.Sprintf("entity(%d/%d)", e.index, e.gen)
}

type node struct {
	gen      uint32
	alive    bool
	widget   Widget
	kind     Kind
	style    Style
	parent   Entity
	children []Entity
	marker   string
}

// Tree is an arena of widget nodes with ordered children.
// It is not safe for concurrent use; mutate it through Commands from other
// goroutines.
type Tree struct {
	nodes   []node
	free    []uint32
	roots   []Entity
	markers map[string]Entity
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{markers: make(map[string]Entity)}
}

func (t *Tree) get(e Entity) *node {
	if e.IsZero() || int(e.index) >= len(t.nodes) {
		return nil
	}
	n := &t.nodes[e.index]
	if !n.alive || n.gen != e.gen {
		return nil
	}
	return n
}

func (t *Tree) alloc(w Widget, style Style, parent Entity) Entity {
	var idx uint32
	if k := len(t.free); k > 0 {
		idx = t.free[k-1]
		t.free = t.free[:k-1]
	} else {
		idx = uint32(len(t.nodes))
		t.nodes = append(t.nodes, node{})
	}
	n := &t.nodes[idx]
	gen := n.gen + 1
	*n = node{gen: gen, alive: true, widget: w, kind: w.Kind(), style: style, parent: parent}
	return Entity{index: idx, gen: gen}
}

// Spawn adds a root node. The node's kind is taken from w.
func (t *Tree) Spawn(w Widget, style Style) Entity {
	e := t.alloc(w, style, Entity{})
	t.roots = append(t.roots, e)
	return e
}

// SpawnChild appends a node to parent's children. It returns the zero
// Entity when parent is not alive.
func (t *Tree) SpawnChild(parent Entity, w Widget, style Style) Entity {
	if t.get(parent) == nil {
		return Entity{}
	}
	e := t.alloc(w, style, parent)
	p := t.get(parent)
	p.children = append(p.children, e)
	return e
}

// Alive reports whether e refers to a live node.
func (t *Tree) Alive(e Entity) bool { return t.get(e) != nil }

// Widget returns the node's data.
func (t *Tree) Widget(e Entity) (Widget, bool) {
	n := t.get(e)
	if n == nil {
		return nil, false
	}
	return n.widget, true
}

// Kind returns the node's kind tag.
func (t *Tree) Kind(e Entity) (Kind, bool) {
	n := t.get(e)
	if n == nil {
		return "", false
	}
	return n.kind, true
}

// Set replaces the node's data. The kind tag follows the new data.
func (t *Tree) Set(e Entity, w Widget) bool {
	n := t.get(e)
	if n == nil || w == nil {
		return false
	}
	n.widget = w
	n.kind = w.Kind()
	return true
}

// Style returns the node's layout style.
func (t *Tree) Style(e Entity) (Style, bool) {
	n := t.get(e)
	if n == nil {
		return Style{}, false
	}
	return n.style, true
}

// SetStyle replaces the node's layout style.
func (t *Tree) SetStyle(e Entity, s Style) bool {
	n := t.get(e)
	if n == nil {
		return false
	}
	n.style = s
	return true
}

// Parent returns the node's parent, or false for roots and stale handles.
func (t *Tree) Parent(e Entity) (Entity, bool) {
	n := t.get(e)
	if n == nil || n.parent.IsZero() {
		return Entity{}, false
	}
	return n.parent, true
}

// Children returns a copy of the node's children in declared order.
func (t *Tree) Children(e Entity) []Entity {
	n := t.get(e)
	if n == nil {
		return nil
	}
	return slices.Clone(n.children)
}

// children is Children without the copy, for the renderer.
func (t *Tree) children(e Entity) []Entity {
	if n := t.get(e); n != nil {
		return n.children
	}
	return nil
}

// Roots returns every parentless node, in spawn order.
func (t *Tree) Roots() []Entity { return t.roots }

// Root returns the single root, ErrNoRoot, or ErrMultipleRoots.
func (t *Tree) Root() (Entity, error) {
	switch len(t.roots) {
	case 0:
		return Entity{}, ErrNoRoot
	case 1:
		return t.roots[0], nil
	default:
		return Entity{}, fmt.Errorf("%w: %d", ErrMultipleRoots, len(t.roots))
	}
}

// Len returns the number of live nodes.
func (t *Tree) Len() int { return len(t.nodes) - len(t.free) }

// Mark tags a node with a unique name so it can be found later.
// A previous holder of the name loses it.
func (t *Tree) Mark(e Entity, name string) bool {
	n := t.get(e)
	if n == nil {
		return false
	}
	if prev, ok := t.markers[name]; ok {
		if pn := t.get(prev); pn != nil {
			pn.marker = ""
		}
	}
	if n.marker != "" {
		delete(t.markers, n.marker)
	}
	n.marker = name
	t.markers[name] = e
	return true
}

// Marked returns the node carrying name.
func (t *Tree) Marked(name string) (Entity, bool) {
	e, ok := t.markers[name]
	if !ok || t.get(e) == nil {
		return Entity{}, false
	}
	return e, true
}

// Despawn removes e and its whole subtree.
func (t *Tree) Despawn(e Entity) {
	n := t.get(e)
	if n == nil {
		return
	}
	if p := t.get(n.parent); p != nil {
		p.children = slices.DeleteFunc(p.children, func(c Entity) bool { return c == e })
	} else {
		t.roots = slices.DeleteFunc(t.roots, func(c Entity) bool { return c == e })
	}
	t.release(e)
}

func (t *Tree) release(e Entity) {
	n := t.get(e)
	if n == nil {
		return
	}
	for _, c := range n.children {
		t.release(c)
	}
	if n.marker != "" {
		delete(t.markers, n.marker)
	}
	gen := n.gen
	*n = node{gen: gen}
	t.free = append(t.free, e.index)
}

// DespawnChildren removes every child subtree of e, keeping e itself.
func (t *Tree) DespawnChildren(e Entity) {
	n := t.get(e)
	if n == nil {
		return
	}
	for _, c := range slices.Clone(n.children) {
		t.Despawn(c)
	}
}

// DespawnRoots removes every root subtree, leaving the tree empty.
func (t *Tree) DespawnRoots() {
	for _, r := range slices.Clone(t.roots) {
		t.Despawn(r)
	}
}

// Get returns the node's data as T.
func Get[T Widget](t *Tree, e Entity) (T, bool) {
	var zero T
	w, ok := t.Widget(e)
	if !ok {
		return zero, false
	}
	v, ok := w.(T)
	return v, ok
}
