package tgm

import "reflect"

// Instantiation hooks let tag declarations carry behavior: when a node is
// constructed, every attribute value declared on its tag (or inherited from
// a base tag) is looked up in a process-wide registry, and any callbacks
// registered for that value fire on the new node. [On] builds on this to
// attach event nodes automatically.
//
// The registry is process-global mutable state; register at init time.

// instantiationCalls maps marker values to the callbacks fired when a node
// whose tag attributes contain the marker is constructed.
var instantiationCalls = map[any][]func(*Node){}

// AddInstantiationCall registers fn to run on every newly constructed node
// whose tag declares an attribute holding marker. Markers must be comparable
// values: an uncomparable marker cannot key the registry, and registering one
// panics.
func AddInstantiationCall(marker any, fn func(*Node)) {
	instantiationCalls[marker] = append(instantiationCalls[marker], fn)
}

// runInstantiationCalls scans the merged tag attributes of a freshly
// constructed node (derived tags shadow base tags) and fires every callback
// registered for an attribute value. Values of uncomparable dynamic type are
// skipped: they cannot be registry keys.
//
// A callback that panics aborts the construction; that is the caller's
// problem, matching the constructor contract.
func runInstantiationCalls(n *Node) {
	for _, value := range n.tag.mergedAttrs() {
		if value == nil || !reflect.TypeOf(value).Comparable() {
			continue
		}
		for _, fn := range instantiationCalls[value] {
			fn(n)
		}
	}
}

// --- Event nodes ---

// EventFunc is the callable wrapped by an event node.
type EventFunc func(args ...any) any

// NewEvent creates a detached event node carrying the given tag (declare
// event tags under [Event]) and wrapping fn. Invoking the node forwards to
// fn.
func NewEvent(tag Tag, fn EventFunc) *Node {
	n := New(tag)
	n.fn = fn
	return n
}

// Invoke calls the function wrapped by an event node, forwarding args.
// Panics when called on a node that wraps no function.
func (n *Node) Invoke(args ...any) any {
	if n.fn == nil {
		panic("tgm: Invoke on a node that wraps no function")
	}
	return n.fn(args...)
}

// --- Handler markers ---

// HandlerFunc is the signature of a method bound via [On]: the owner is the
// node whose tag declared the handler, args are the invocation arguments.
type HandlerFunc func(owner *Node, args ...any) any

// Handler is the comparable marker returned by [On]. Place it in a tag's
// attribute map; nodes of that tag then get the event node attached at
// construction.
type Handler struct {
	event Tag
	fn    HandlerFunc
}

// Event returns the event tag the handler responds to.
func (h *Handler) Event() Tag {
	return h.event
}

// On declares an event handler: the returned marker, set as a tag attribute
// via [Define], causes every node constructed with that tag to receive an
// attached event node of eventTag whose invocation calls fn with the node as
// owner.
//
//	var Player = tgm.NewTag("Player", game.Entity)
//
//	func init() {
//		tgm.Define(Player, tgm.Attrs{
//			"update": tgm.On(game.Update, func(p *tgm.Node, args ...any) any {
//				// per-tick logic
//				return nil
//			}),
//		})
//	}
func On(eventTag Tag, fn HandlerFunc) *Handler {
	h := &Handler{event: eventTag, fn: fn}
	AddInstantiationCall(h, func(n *Node) {
		n.Attach(NewEvent(eventTag, func(args ...any) any {
			return fn(n, args...)
		}))
	})
	return h
}
