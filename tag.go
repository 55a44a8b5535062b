package tgm

import "fmt"

// Tag identifies a user-declared node type. Tags form a hierarchy: every tag
// declares zero or more parent tags, and every lineage terminates at [Any].
// A node created with a tag carries that tag plus all of its ancestors, so a
// query for a base tag matches nodes of any derived tag.
//
// Tags are interned handles into a process-global registry. Declare them once
// at init time with [NewTag]; the zero value is [Any].
type Tag uint32

// tagInfo is the registry entry backing a Tag handle.
type tagInfo struct {
	name      string
	parents   []Tag
	lineage   []Tag         // self first, Any last
	ancestors map[Tag]bool  // lineage as a set, for O(1) Is
	attrs     map[string]any // declared via Define; nil until first use
}

// tagRegistry is indexed by Tag. Plain slice, no locking — tag declaration
// happens at init time and the engine is single-threaded by contract.
var tagRegistry []*tagInfo

// Any is the root tag. Every node carries it, and a query keyed on Any
// matches every node. The planner treats its bucket as the worst case.
var Any = func() Tag {
	info := &tagInfo{name: "Any"}
	info.lineage = []Tag{0}
	info.ancestors = map[Tag]bool{0: true}
	tagRegistry = append(tagRegistry, info)
	return 0
}()

// Event is the base tag for event nodes created by [NewEvent] and attached
// by [On] handlers. Declare concrete event types under it.
var Event = NewTag("Event")

// NewTag declares a new tag with the given parents. Omitting parents places
// the tag directly under [Any]. The lineage (most-derived first, ending at
// Any) is computed once here; nodes and queries only ever read it.
//
// Panics if a parent handle is unknown. Multiple parents are allowed; the
// lineage is a depth-first walk over the parents in declaration order with
// duplicates removed.
func NewTag(name string, parents ...Tag) Tag {
	for _, p := range parents {
		if int(p) >= len(tagRegistry) {
			panic(fmt.Sprintf("tgm: unknown parent tag %d in NewTag(%q)", p, name))
		}
	}
	if len(parents) == 0 {
		parents = []Tag{Any}
	}

	t := Tag(len(tagRegistry))
	info := &tagInfo{name: name, parents: parents}

	// Lineage: self, then each parent's lineage in order, deduplicated
	// keeping the first occurrence, with Any forced to the end.
	seen := map[Tag]bool{t: true}
	info.lineage = []Tag{t}
	for _, p := range parents {
		for _, a := range p.info().lineage {
			if a == Any || seen[a] {
				continue
			}
			seen[a] = true
			info.lineage = append(info.lineage, a)
		}
	}
	info.lineage = append(info.lineage, Any)
	seen[Any] = true
	info.ancestors = seen

	tagRegistry = append(tagRegistry, info)
	return t
}

func (t Tag) info() *tagInfo {
	return tagRegistry[t]
}

// Name returns the name the tag was declared with.
func (t Tag) Name() string {
	return t.info().name
}

// Is reports whether t is the same tag as other or derives from it.
// Every tag Is(Any).
func (t Tag) Is(other Tag) bool {
	return t.info().ancestors[other]
}

// lineage returns the tag's full tag sequence, most-derived first, ending at
// Any. Callers must not mutate the returned slice.
func (t Tag) lineage() []Tag {
	return t.info().lineage
}

func (t Tag) String() string {
	return t.info().name
}

// Attrs declares named attribute values for a tag via [Define].
type Attrs map[string]any

// Define associates attribute values with a tag. Nodes created with the tag
// (or a derived tag) see these through [Node.Attr], and the instantiation
// hook scan walks them at construction. An attribute declared on a derived
// tag shadows the same name on a base tag.
//
// Call Define at init time, before nodes of the tag are constructed.
func Define(t Tag, attrs Attrs) {
	info := t.info()
	if info.attrs == nil {
		info.attrs = make(map[string]any, len(attrs))
	}
	for name, value := range attrs {
		info.attrs[name] = value
	}
}

// tagAttr looks up a declared attribute along the tag's lineage,
// most-derived first.
func (t Tag) tagAttr(name string) (any, bool) {
	for _, a := range t.lineage() {
		if v, ok := a.info().attrs[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// mergedAttrs collects every declared attribute visible from t, applying
// shadowing: a name declared on a more derived tag wins. Used by the
// instantiation hook scan.
func (t Tag) mergedAttrs() map[string]any {
	var merged map[string]any
	for _, a := range t.lineage() {
		for name, value := range a.info().attrs {
			if _, shadowed := merged[name]; shadowed {
				continue
			}
			if merged == nil {
				merged = make(map[string]any)
			}
			merged[name] = value
		}
	}
	return merged
}
