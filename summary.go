package tgm

import (
	"fmt"
	"sort"
	"strings"
)

const summaryIndent = "    "

// TreeSummary renders the subtree rooted at node as an indented listing for
// diagnostics. Identical sibling subtrees are collapsed into a single entry
// with a count prefix. The exact format carries no stability contract.
func TreeSummary(node *Node) string {
	return treeSummary(node, "")
}

func treeSummary(node *Node, prefix string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(node.tag.Name())
	if node.Name != "" {
		fmt.Fprintf(&b, " %q", node.Name)
	}

	// Count identical child subtrees so repeated structure prints once.
	counts := map[string]int{}
	order := []string{}
	for child := range node.Children(Any) {
		sub := treeSummary(child, prefix+summaryIndent)
		if counts[sub] == 0 {
			order = append(order, sub)
		}
		counts[sub]++
	}
	// Most common subtree first; ties in lexical order to keep the output
	// stable within a single process run.
	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return order[i] < order[j]
	})

	for _, sub := range order {
		indentLen := len(prefix + summaryIndent)
		b.WriteString("\n")
		b.WriteString(sub[:indentLen])
		fmt.Fprintf(&b, "[%d] ", counts[sub])
		b.WriteString(sub[indentLen:])
	}
	return b.String()
}
