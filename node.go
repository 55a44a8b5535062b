package tgm

import (
	"fmt"
	"iter"
)

// nodeSet is an unordered set of nodes. Iteration order follows Go map
// order; callers must not rely on it.
type nodeSet map[*Node]struct{}

// --- ID counter ---

// nodeIDCounter is a plain counter (no atomic — tgm is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the fundamental scene graph element. A single flat struct is used
// for every node kind — containers, entities, components, event nodes — with
// the tag deciding what the node means. This keeps tree and index maintenance
// free of interface dispatch on the hot path.
//
// A node owns its children; the parent pointer is a non-owning back
// reference. Detaching transfers ownership to the caller, destroying a node
// releases its whole subtree.
type Node struct {
	// ID is a unique auto-assigned identifier (never zero for live nodes).
	ID uint32
	// Name is a human-readable label for debugging; not used for lookups.
	Name string

	tag    Tag
	parent *Node

	// children maps each tag to the set of direct children carrying it.
	// A child appears once under every tag in its lineage.
	children map[Tag]nodeSet

	// index maps each tag to the subtree representatives for that tag:
	// the node itself if it carries the tag, plus every direct child whose
	// subtree contains the tag. Maintained incrementally on attach/detach
	// so queries can skip whole subtrees with no match.
	index map[Tag]nodeSet

	// attrs holds instance attributes set via Set. Reads through Attr fall
	// back to the tag's declared attributes.
	attrs map[string]any

	// fn is the wrapped callable of an event node; nil otherwise.
	fn EventFunc

	destroyed bool
}

// New creates a detached node carrying the given tag. The node's index is
// seeded with its own tags, and any instantiation hooks registered for the
// tag's declared attributes fire before New returns.
func New(tag Tag) *Node {
	n := &Node{
		ID:  nextNodeID(),
		tag: tag,
	}
	for _, t := range tag.lineage() {
		n.addIndexKey(t, n)
	}
	runInstantiationCalls(n)
	return n
}

// Tag returns the node's concrete tag.
func (n *Node) Tag() Tag {
	return n.tag
}

// HasTag reports whether the node carries the given tag, directly or through
// tag inheritance.
func (n *Node) HasTag(t Tag) bool {
	return n.tag.Is(t)
}

// Parent returns the node's direct parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// --- Attributes ---

// Set assigns an instance attribute on the node. Instance attributes shadow
// attributes declared on the node's tag via [Define].
func (n *Node) Set(name string, value any) {
	if n.attrs == nil {
		n.attrs = make(map[string]any)
	}
	n.attrs[name] = value
}

// Attr looks up an attribute by name: instance attributes first, then the
// tag's declared attributes along its lineage.
func (n *Node) Attr(name string) (any, bool) {
	if v, ok := n.attrs[name]; ok {
		return v, true
	}
	return n.tag.tagAttr(name)
}

// HasAttr reports whether the node has an attribute with the given name.
func (n *Node) HasAttr(name string) bool {
	_, ok := n.Attr(name)
	return ok
}

// --- Tree manipulation ---

// Attach adds the given node as a child and returns it. If child already has
// a parent it is detached from that parent first. The child's per-tag index
// is merged into this node and propagated up the ancestor chain.
//
// Panics if child is nil, child is this node, or attaching would create a
// cycle. Global acyclicity beyond the ancestor walk is the caller's contract.
func (n *Node) Attach(child *Node) *Node {
	if child == nil {
		panic("tgm: cannot attach nil node")
	}
	if child == n {
		panic("tgm: cannot attach a node to itself")
	}
	if globalDebug {
		debugCheckDestroyed(n, "Attach (parent)")
		debugCheckDestroyed(child, "Attach (child)")
	}
	if isAncestor(child, n) {
		panic("tgm: attaching node would create a cycle")
	}

	if child.parent != nil {
		child.parent.Detach(child)
	}
	child.parent = n

	if n.children == nil {
		n.children = make(map[Tag]nodeSet)
	}
	for _, t := range child.tag.lineage() {
		set := n.children[t]
		if set == nil {
			set = make(nodeSet)
			n.children[t] = set
		}
		set[child] = struct{}{}
	}

	for t, set := range child.index {
		if len(set) > 0 {
			n.addIndexKey(t, child)
		}
	}

	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
	notifyObserver(GraphEvent{Kind: NodeAttached, Node: child, Parent: n})
	return child
}

// Detach removes the given child from this node, clearing its entry in every
// tag bucket and withdrawing its subtree's tags from the ancestor index.
// Ownership of the child transfers to the caller. Returns the child.
//
// Panics if child's parent is not this node.
func (n *Node) Detach(child *Node) *Node {
	if child.parent != n {
		panic("tgm: node's parent is not this node")
	}
	if globalDebug {
		debugCheckDestroyed(n, "Detach (parent)")
	}

	for t, set := range child.index {
		if len(set) > 0 {
			n.removeIndexKey(t, child)
		}
	}
	for _, t := range child.tag.lineage() {
		delete(n.children[t], child)
		if len(n.children[t]) == 0 {
			delete(n.children, t)
		}
	}
	child.parent = nil

	notifyObserver(GraphEvent{Kind: NodeDetached, Node: child, Parent: n})
	return child
}

// Destroy detaches the node from its parent and releases it along with every
// descendant. Children are destroyed first (post-order) so the index
// invariants hold at each step. Destroy is idempotent.
func (n *Node) Destroy() {
	if n.destroyed {
		return
	}

	children := make([]*Node, 0, len(n.children[Any]))
	for c := range n.children[Any] {
		children = append(children, c)
	}
	for _, c := range children {
		c.Destroy()
	}

	if n.parent != nil {
		n.parent.Detach(n)
	}

	n.destroyed = true
	n.children = nil
	n.index = nil
	n.attrs = nil
	n.fn = nil
	n.ID = 0
	notifyObserver(GraphEvent{Kind: NodeDestroyed, Node: n})
}

// IsDestroyed reports whether the node has been destroyed.
func (n *Node) IsDestroyed() bool {
	return n.destroyed
}

// --- Index maintenance ---

// addIndexKey registers node as a subtree representative for the given tag.
// The first representative for a tag makes this node visible to its parent,
// so the registration walks up until it meets an ancestor that already
// carried the tag.
func (n *Node) addIndexKey(key Tag, node *Node) {
	if n.parent != nil && len(n.index[key]) == 0 {
		n.parent.addIndexKey(key, n)
	}
	if n.index == nil {
		n.index = make(map[Tag]nodeSet)
	}
	set := n.index[key]
	if set == nil {
		set = make(nodeSet)
		n.index[key] = set
	}
	set[node] = struct{}{}
}

// removeIndexKey withdraws node as a subtree representative for the given
// tag, propagating up while buckets empty out.
func (n *Node) removeIndexKey(key Tag, node *Node) {
	set, ok := n.index[key]
	if !ok {
		panic(fmt.Sprintf("tgm: index for tag %v missing on %v during removal", key, n))
	}
	delete(set, node)
	if len(set) == 0 {
		delete(n.index, key)
		if n.parent != nil {
			n.parent.removeIndexKey(key, n)
		}
	}
}

// --- Reads ---

// FindParent walks the ancestor chain, starting at the direct parent, and
// returns the first ancestor satisfying the query. Returns ErrNoMatch if the
// root is reached without a match.
func (n *Node) FindParent(query any) (*Node, error) {
	q := MustQuery(query)
	for p := n.parent; p != nil; p = p.parent {
		if q.Test(p) {
			return p, nil
		}
	}
	return nil, ErrNoMatch
}

// Children returns the direct children matching the query. A bare tag query
// reads the tag bucket directly with no further evaluation.
func (n *Node) Children(query any) iter.Seq[*Node] {
	if t, ok := query.(Tag); ok {
		return func(yield func(*Node) bool) {
			for c := range n.children[t] {
				if !yield(c) {
					return
				}
			}
		}
	}
	return MustQuery(query).FindOn(n)
}

// Get returns the single direct child matching the query. Returns a
// CardinalityError when the match count is not exactly one.
func (n *Node) Get(query any) (*Node, error) {
	return exactlyOne(n.Children(query))
}

// Find returns every descendant (not including this node) matching the
// query. A bare tag query takes a fast path over the tag index, visiting
// only subtrees known to contain the tag.
func (n *Node) Find(query any) iter.Seq[*Node] {
	if t, ok := query.(Tag); ok {
		return func(yield func(*Node) bool) {
			for c := range n.index[t] {
				if c == n {
					continue
				}
				if !findFast(c, t, yield) {
					return
				}
			}
		}
	}
	return MustQuery(query).FindIn(n)
}

// FindTrimmed is Find with a trim condition: a node matching trim is skipped
// along with its entire subtree. The trim may be any query shorthand or a
// predicate function.
func (n *Node) FindTrimmed(query, trim any) iter.Seq[*Node] {
	trimFn := coerceTrim(trim)
	if t, ok := query.(Tag); ok {
		return func(yield func(*Node) bool) {
			for c := range n.index[t] {
				if c == n {
					continue
				}
				if !findFastTrim(c, t, trimFn, yield) {
					return
				}
			}
		}
	}
	return MustQuery(query).Trim(trimFn).FindIn(n)
}

// ChildrenWith returns the direct children that have at least one direct
// child of their own matching the query.
func (n *Node) ChildrenWith(query any) iter.Seq[*Node] {
	if t, ok := query.(Tag); ok {
		return func(yield func(*Node) bool) {
			for c := range n.index[t] {
				if c != n && len(c.children[t]) > 0 {
					if !yield(c) {
						return
					}
				}
			}
		}
	}
	return Q(Any).ChildMatches(MustQuery(query)).FindOn(n)
}

// GetWith returns the single direct child that has a child matching the
// query. Returns a CardinalityError when the count is not exactly one.
func (n *Node) GetWith(query any) (*Node, error) {
	return exactlyOne(n.ChildrenWith(query))
}

// FindWith returns every descendant that has a direct child matching the
// query.
func (n *Node) FindWith(query any) iter.Seq[*Node] {
	if t, ok := query.(Tag); ok {
		return func(yield func(*Node) bool) {
			findWithFast(n, t, yield)
		}
	}
	return Query{child: queryPtr(MustQuery(query))}.FindIn(n)
}

// FindWithTrimmed is FindWith with a trim condition.
func (n *Node) FindWithTrimmed(query, trim any) iter.Seq[*Node] {
	trimFn := coerceTrim(trim)
	if t, ok := query.(Tag); ok {
		return func(yield func(*Node) bool) {
			findWithFastTrim(n, t, trimFn, yield)
		}
	}
	return Query{trim: trimFn, child: queryPtr(MustQuery(query))}.FindIn(n)
}

// Matches reports whether this node satisfies the query.
func (n *Node) Matches(query any) bool {
	return MustQuery(query).Test(n)
}

func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("<%s %q #%d>", n.tag.Name(), n.Name, n.ID)
	}
	return fmt.Sprintf("<%s #%d>", n.tag.Name(), n.ID)
}

// --- Fast paths ---

// findFast emits every node in the subtree rooted at node that carries key,
// visiting only index-positive branches. The subtree root emits itself when
// it carries the key: a node appears in its own index exactly then.
func findFast(node *Node, key Tag, yield func(*Node) bool) bool {
	for c := range node.index[key] {
		if c == node {
			if !yield(c) {
				return false
			}
			continue
		}
		if !findFast(c, key, yield) {
			return false
		}
	}
	return true
}

// findFastTrim is findFast honoring a trim condition: trimmed nodes are
// neither emitted nor descended into.
func findFastTrim(node *Node, key Tag, trim func(*Node) bool, yield func(*Node) bool) bool {
	if trim(node) {
		return true
	}
	for c := range node.index[key] {
		if c == node {
			if !yield(c) {
				return false
			}
			continue
		}
		if !findFastTrim(c, key, trim, yield) {
			return false
		}
	}
	return true
}

// findWithFast emits every descendant of node that has a direct child
// carrying key, again visiting only index-positive branches.
func findWithFast(node *Node, key Tag, yield func(*Node) bool) bool {
	for c := range node.index[key] {
		if c == node {
			continue
		}
		if len(c.children[key]) > 0 {
			if !yield(c) {
				return false
			}
		}
		if !findWithFast(c, key, yield) {
			return false
		}
	}
	return true
}

func findWithFastTrim(node *Node, key Tag, trim func(*Node) bool, yield func(*Node) bool) bool {
	for c := range node.index[key] {
		if c == node || trim(c) {
			continue
		}
		if len(c.children[key]) > 0 {
			if !yield(c) {
				return false
			}
		}
		if !findWithFastTrim(c, key, trim, yield) {
			return false
		}
	}
	return true
}

// --- Helpers ---

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// exactlyOne drains a sequence expecting a single element.
func exactlyOne(seq iter.Seq[*Node]) (*Node, error) {
	var result *Node
	count := 0
	for n := range seq {
		result = n
		count++
	}
	if count != 1 {
		return nil, &CardinalityError{Count: count}
	}
	return result, nil
}

// coerceTrim turns a trim argument into a predicate: a plain predicate
// function passes through, anything else goes through query coercion.
func coerceTrim(trim any) func(*Node) bool {
	if fn, ok := trim.(func(*Node) bool); ok {
		return fn
	}
	q := MustQuery(trim)
	return q.Test
}
