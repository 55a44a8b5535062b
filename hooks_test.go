package tgm

import (
	"slices"
	"testing"
)

func TestAddInstantiationCall(t *testing.T) {
	// End-to-end scenario 6: a marker declared as a tag attribute fires its
	// registered callback once, with the new node.
	marker := &struct{ name string }{"marker"}
	var calls []*Node
	AddInstantiationCall(marker, func(n *Node) {
		calls = append(calls, n)
	})

	tag := NewTag("HookedTest")
	Define(tag, Attrs{"h": marker})

	n := New(tag)
	if len(calls) != 1 || calls[0] != n {
		t.Fatalf("calls = %v, want exactly the new node %v", calls, n)
	}

	// A second registration on the same marker appends.
	count := 0
	AddInstantiationCall(marker, func(*Node) { count++ })
	New(tag)
	if len(calls) != 2 || count != 1 {
		t.Errorf("after second instantiation: calls=%d count=%d, want 2 and 1", len(calls), count)
	}
}

func TestInstantiationShadowing(t *testing.T) {
	// A derived tag's attribute shadows the base's under the same name: the
	// shadowed marker must not fire.
	// Non-empty structs: pointers to zero-size values may coincide.
	baseMarker := &struct{ id int }{1}
	shadowMarker := &struct{ id int }{2}
	sharedMarker := &struct{ id int }{3}

	var fired []string
	AddInstantiationCall(baseMarker, func(*Node) { fired = append(fired, "base") })
	AddInstantiationCall(shadowMarker, func(*Node) { fired = append(fired, "shadow") })
	AddInstantiationCall(sharedMarker, func(*Node) { fired = append(fired, "shared") })

	base := NewTag("ShadowHookBase")
	Define(base, Attrs{"a": baseMarker, "b": sharedMarker})
	derived := NewTag("ShadowHookDerived", base)
	Define(derived, Attrs{"a": shadowMarker, "z": "unrelated"})

	New(derived)
	slices.Sort(fired)
	if !slices.Equal(fired, []string{"shadow", "shared"}) {
		t.Errorf("fired = %v, want [shadow shared]", fired)
	}
}

func TestUncomparableAttributeIsSkipped(t *testing.T) {
	// Attribute values whose type cannot key a map are silently ignored by
	// the hook scan rather than panicking.
	tag := NewTag("UncomparableTest")
	Define(tag, Attrs{"data": []int{1, 2, 3}, "fn": func() {}, "nothing": nil})
	n := New(tag)
	if n == nil {
		t.Fatal("construction failed")
	}
}

// --- Event nodes ---

func TestNewEventInvoke(t *testing.T) {
	tick := NewTag("TickTest", Event)
	var got []any
	ev := NewEvent(tick, func(args ...any) any {
		got = args
		return len(args)
	})

	if !ev.HasTag(Event) {
		t.Error("event node does not carry the Event base tag")
	}
	if res := ev.Invoke("a", 2); res != 2 {
		t.Errorf("Invoke returned %v, want 2", res)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != 2 {
		t.Errorf("wrapped function received %v", got)
	}
}

func TestInvokeOnPlainNodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Invoke on a non-event node did not panic")
		}
	}()
	New(Any).Invoke()
}

func TestOnAttachesEventNode(t *testing.T) {
	update := NewTag("UpdateHookTest", Event)

	var owners []*Node
	handler := On(update, func(owner *Node, args ...any) any {
		owners = append(owners, owner)
		return nil
	})
	if handler.Event() != update {
		t.Fatalf("handler.Event() = %v, want %v", handler.Event(), update)
	}

	actor := NewTag("ActorHookTest")
	Define(actor, Attrs{"update": handler})

	a := New(actor)
	ev, err := a.Get(update)
	if err != nil {
		t.Fatalf("no event node attached: %v", err)
	}
	ev.Invoke()
	ev.Invoke()
	if len(owners) != 2 || owners[0] != a || owners[1] != a {
		t.Errorf("owners = %v, want [%v %v]", owners, a, a)
	}
}

func TestOnFiresPerInstance(t *testing.T) {
	update := NewTag("PerInstanceHookTest", Event)
	fired := map[*Node]int{}
	actor := NewTag("PerInstanceActorTest")
	Define(actor, Attrs{
		"update": On(update, func(owner *Node, args ...any) any {
			fired[owner]++
			return nil
		}),
	})

	world := New(Any)
	a := world.Attach(New(actor))
	b := world.Attach(New(actor))

	// Dispatch the way a game loop does: find all update events and invoke.
	for ev := range world.Find(update) {
		ev.Invoke()
	}
	if fired[a] != 1 || fired[b] != 1 {
		t.Errorf("fired = %v, want one call per instance", fired)
	}
}
