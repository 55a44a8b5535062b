package tgm

import (
	"fmt"
	"os"
)

// ---- Debug checks -----------------------------------------------------------

// globalDebug gates the extra validation in tree operations: destroyed-node
// use panics, and depth and child-count warnings are printed to stderr.
var globalDebug bool

// SetDebugMode enables or disables debug mode for the whole package.
func SetDebugMode(enabled bool) {
	globalDebug = enabled
}

// debugCheckDestroyed panics with a descriptive message when a destroyed
// node is used in a tree operation. Only called in debug mode; release mode
// skips this entirely.
func debugCheckDestroyed(n *Node, op string) {
	if n.destroyed {
		panic(fmt.Sprintf("tgm debug: %s on destroyed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 64

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[tgm] warning: tree depth %d exceeds %d (node %v)\n",
			depth, debugMaxTreeDepth, n)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 10000 direct
// children. Flat fan-out at that scale usually means a missing layer node.
const debugMaxChildCount = 10000

func debugCheckChildCount(n *Node) {
	if count := len(n.children[Any]); count > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[tgm] warning: node %v has %d children (threshold %d)\n",
			n, count, debugMaxChildCount)
	}
}

// ---- Index verification -----------------------------------------------------

// verifyIndex walks the subtree rooted at n and checks every index and
// bucket invariant. Returns a descriptive error naming the offending node on
// the first inconsistency found. Exercised by tests and available to debug
// sessions; never called on the hot path.
func verifyIndex(n *Node) error {
	// Bucket correctness: children[T] holds exactly the direct children
	// carrying T.
	for t, set := range n.children {
		for c := range set {
			if c.parent != n {
				return fmt.Errorf("tgm: invariant violation at %v: bucket %v holds non-child %v", n, t, c)
			}
			if !c.tag.Is(t) {
				return fmt.Errorf("tgm: invariant violation at %v: bucket %v holds %v without the tag", n, t, c)
			}
		}
	}
	for c := range n.children[Any] {
		for _, t := range c.tag.lineage() {
			if _, ok := n.children[t][c]; !ok {
				return fmt.Errorf("tgm: invariant violation at %v: child %v missing from bucket %v", n, c, t)
			}
		}
	}

	// Index soundness: every entry is self (carrying the tag) or a direct
	// child whose subtree contains the tag.
	for t, set := range n.index {
		if len(set) == 0 {
			return fmt.Errorf("tgm: invariant violation at %v: empty index entry for %v", n, t)
		}
		for c := range set {
			switch {
			case c == n:
				if !n.tag.Is(t) {
					return fmt.Errorf("tgm: invariant violation at %v: self-indexed for %v without the tag", n, t)
				}
			case c.parent != n:
				return fmt.Errorf("tgm: invariant violation at %v: index for %v holds non-child %v", n, t, c)
			case !subtreeContains(c, t):
				return fmt.Errorf("tgm: invariant violation at %v: index for %v holds %v whose subtree lacks the tag", n, t, c)
			}
		}
	}

	// Index completeness: a tag present anywhere in the subtree appears in
	// the index.
	if err := verifyCompleteness(n, n); err != nil {
		return err
	}

	for c := range n.children[Any] {
		if err := verifyIndex(c); err != nil {
			return err
		}
	}
	return nil
}

func verifyCompleteness(root, n *Node) error {
	for _, t := range n.tag.lineage() {
		if len(root.index[t]) == 0 {
			return fmt.Errorf("tgm: invariant violation at %v: descendant %v carries %v but index is empty", root, n, t)
		}
	}
	for c := range n.children[Any] {
		if err := verifyCompleteness(root, c); err != nil {
			return err
		}
	}
	return nil
}

// subtreeContains reports whether any node in the subtree rooted at n
// carries t, by brute-force walk. Verification only.
func subtreeContains(n *Node, t Tag) bool {
	if n.tag.Is(t) {
		return true
	}
	for c := range n.children[Any] {
		if subtreeContains(c, t) {
			return true
		}
	}
	return false
}
