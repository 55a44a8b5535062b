package tgm

import "fmt"

// Query shorthand. Most read-side operations accept `any` and coerce it into
// a [Query], so call sites can pass a tag, an attribute name, an
// attribute/value pair, a predicate, a tuple of those, or a ready-made
// query. The coercion rules mirror the builder cases on [Tag].

// Attr selects nodes having a named attribute with the given value.
// Pass it anywhere a query shorthand is accepted:
//
//	player.Find(tgm.Attr{"health", 0})
type Attr struct {
	Name  string
	Value any
}

// MakeQuery coerces a shorthand value into a Query:
//
//	Query            — used as is
//	Tag              — nodes carrying the tag
//	string           — nodes having an attribute with that name
//	Attr             — nodes whose named attribute equals the value
//	func(*Node) bool — nodes satisfying the predicate
//	[]any            — all of the above, combined
//
// Anything else returns a QueryError.
func MakeQuery(v any) (Query, error) {
	switch x := v.(type) {
	case Query:
		return x, nil
	case *Query:
		return *x, nil
	case Tag:
		return Query{key: x}, nil
	case string:
		return Query{condition: func(n *Node) bool {
			return n.HasAttr(x)
		}}, nil
	case Attr:
		return Query{condition: func(n *Node) bool {
			got, ok := n.Attr(x.Name)
			return ok && got == x.Value
		}}, nil
	case func(*Node) bool:
		return Query{condition: x}, nil
	case []any:
		q := Query{}
		for _, item := range x {
			sub, err := MakeQuery(item)
			if err != nil {
				return Query{}, err
			}
			q = q.Combine(sub)
		}
		return q, nil
	default:
		return Query{}, &QueryError{Input: v}
	}
}

// MustQuery is MakeQuery panicking on uninterpretable input. The read-side
// node operations use it: passing a value no coercion rule covers is
// programmer error.
func MustQuery(v any) Query {
	q, err := MakeQuery(v)
	if err != nil {
		panic(fmt.Sprintf("tgm: %v", err))
	}
	return q
}

// --- Tag builders ---

// Query returns a query matching nodes that carry this tag.
func (t Tag) Query() Query {
	return Query{key: t}
}

// With narrows the tag to nodes satisfying the given shorthand items: a tag
// item requires a direct child carrying it, a query item requires a direct
// child matching it, and attribute or predicate items constrain the node
// itself. This is the selector form `Tag[item, …]`.
//
//	game.Entity.With(Collider)              // entities owning a collider
//	Player.With(tgm.Attr{"name", "bob"})    // players named bob
func (t Tag) With(items ...any) Query {
	q := Query{key: t}
	for _, item := range items {
		q = q.Combine(childQueryFrom(item))
	}
	return q
}

// Under returns a query matching nodes carrying this tag that live beneath
// an ancestor matching the given shorthand. This is the selector form
// `Ancestor >> Tag`.
//
//	HUD := Layer.Under(menuWorld)
func (t Tag) Under(ancestor any) Query {
	return Query{key: t, parent: queryPtr(MustQuery(ancestor))}
}

// childQueryFrom maps one selector item to its query contribution: tags and
// queries describe a required child, everything else constrains the
// candidate itself.
func childQueryFrom(item any) Query {
	switch x := item.(type) {
	case Query:
		return Query{child: &x}
	case *Query:
		return Query{child: x}
	case Tag:
		return Query{child: &Query{key: x}}
	case []any:
		q := Query{}
		for _, sub := range x {
			q = q.Combine(childQueryFrom(sub))
		}
		return q
	default:
		return MustQuery(item)
	}
}
