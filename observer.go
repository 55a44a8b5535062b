package tgm

// GraphEventKind identifies a structural change to the node graph.
type GraphEventKind uint8

const (
	// NodeAttached fires after a node gains a parent.
	NodeAttached GraphEventKind = iota
	// NodeDetached fires after a node loses its parent.
	NodeDetached
	// NodeDestroyed fires after a node and its subtree are released.
	NodeDestroyed
)

// GraphEvent carries structural change data to an [Observer].
type GraphEvent struct {
	Kind GraphEventKind
	// Node is the node that was attached, detached, or destroyed.
	Node *Node
	// Parent is the parent gained or lost; nil for NodeDestroyed.
	Parent *Node
}

// Observer receives structural graph changes. Used by external mirrors such
// as the ecs bridge; nil (the default) costs a single comparison per
// operation.
type Observer interface {
	GraphChanged(GraphEvent)
}

// observer is process-global, like the instantiation registry. Set once at
// initialization; the engine is single-threaded by contract.
var observer Observer

// SetObserver installs the graph observer. Pass nil to remove it.
func SetObserver(o Observer) {
	observer = o
}

func notifyObserver(e GraphEvent) {
	if observer != nil {
		observer.GraphChanged(e)
	}
}
