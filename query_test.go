package tgm

import "testing"

// --- Test ---

func TestQueryTest(t *testing.T) {
	world := New(Any)
	player := world.Attach(New(testPlayer))
	player.Set("health", 3)
	armed := world.Attach(New(testPlayer))
	armed.Attach(New(testEnemy))

	tests := []struct {
		name   string
		query  Query
		node   *Node
		expect bool
	}{
		{"key match", Q(testPlayer), player, true},
		{"base key match", Q(testEntity), player, true},
		{"key mismatch", Q(testEnemy), player, false},
		{"condition holds", Q(testPlayer).Filter(func(n *Node) bool { return n.HasAttr("health") }), player, true},
		{"condition fails", Q(testPlayer).Filter(func(n *Node) bool { return n.HasAttr("mana") }), player, false},
		{"trim excludes", Q(testPlayer).Trim(func(n *Node) bool { return true }), player, false},
		{"child required present", Q(testPlayer).ChildMatches(Q(testEnemy)), armed, true},
		{"child required absent", Q(testPlayer).ChildMatches(Q(testEnemy)), player, false},
		{"zero query matches all", Query{}, player, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Test(tt.node); got != tt.expect {
				t.Errorf("Test(%v) = %v, want %v", tt.node, got, tt.expect)
			}
		})
	}
}

func TestQueryParentMatchesAncestors(t *testing.T) {
	// Parent matching walks the whole ancestor chain, not just the direct
	// parent.
	world := New(testWorld)
	level := world.Attach(New(testLayer))
	layer := level.Attach(New(Any))
	player := layer.Attach(New(testPlayer))

	direct := Q(testPlayer).ParentMatches(Q(Any).Filter(func(n *Node) bool { return n == layer }))
	if !direct.Test(player) {
		t.Error("direct parent did not satisfy the parent query")
	}

	distant := Q(testPlayer).ParentMatches(Q(testWorld))
	if !distant.Test(player) {
		t.Error("distant ancestor did not satisfy the parent query")
	}

	missing := Q(testPlayer).ParentMatches(Q(testEnemy))
	if missing.Test(player) {
		t.Error("unsatisfiable parent query matched")
	}

	anyAncestor := Q(testWorld).ParentMatches(Q(Any).Filter(func(*Node) bool { return true }))
	if anyAncestor.Test(world) {
		t.Error("root with no ancestors matched a parent query")
	}
}

// --- find_on / find_in ---

func TestQueryFindOn(t *testing.T) {
	world := New(Any)
	players := map[*Node]bool{}
	for range 10 {
		players[world.Attach(New(testPlayer))] = true
	}
	// Nested players must not appear: FindOn is direct children only.
	for p := range players {
		p.Attach(New(testPlayer))
		break
	}

	got := collect(Q(testPlayer).FindOn(world))
	if len(got) != 10 {
		t.Fatalf("FindOn found %d nodes, want 10", len(got))
	}
	for n := range got {
		if !players[n] {
			t.Errorf("FindOn returned non-direct node %v", n)
		}
	}
}

func TestQueryFindInNested(t *testing.T) {
	world := New(Any)
	count := 0
	for range 5 {
		p := world.Attach(New(testPlayer))
		p.Attach(New(testPlayer))
		count += 2
	}
	if got := len(collect(Q(testPlayer).FindIn(world))); got != count {
		t.Errorf("FindIn found %d nodes, want %d", got, count)
	}
}

func TestQueryFindInTrim(t *testing.T) {
	world := New(Any)
	var kept []*Node
	for i := range 6 {
		p := world.Attach(New(testPlayer))
		if i%2 == 0 {
			p.Set("angry", true)
			// Children of trimmed nodes are unreachable too.
			p.Attach(New(testPlayer))
		} else {
			kept = append(kept, p)
		}
	}

	q := Q(testPlayer).Trim(func(n *Node) bool { return n.HasAttr("angry") })
	sameNodes(t, "trimmed FindIn", collect(q.FindIn(world)), kept...)
}

// --- combine ---

func TestQueryCombineKeys(t *testing.T) {
	t.Run("more specific key wins", func(t *testing.T) {
		q := Q(testEntity).Combine(Q(testPlayer))
		if q.key != testPlayer {
			t.Errorf("key = %v, want %v", q.key, testPlayer)
		}
		q = Q(testPlayer).Combine(Q(testEntity))
		if q.key != testPlayer {
			t.Errorf("key = %v, want %v", q.key, testPlayer)
		}
	})

	t.Run("unrelated keys match only the meet", func(t *testing.T) {
		// testAB carries both testA and testB; plain A or B nodes must not
		// match the combined query (end-to-end scenario 5).
		q := Q(testA).Combine(Q(testB))
		if q.key != testA {
			t.Errorf("key = %v, want the receiver's key %v", q.key, testA)
		}
		if !q.Test(New(testAB)) {
			t.Error("combined query rejected a node carrying both tags")
		}
		if q.Test(New(testA)) || q.Test(New(testB)) {
			t.Error("combined query matched a node carrying only one tag")
		}

		world := New(Any)
		world.Attach(New(testA))
		world.Attach(New(testB))
		ab := world.Attach(New(testAB))
		sameNodes(t, "combined FindOn", collect(q.FindOn(world)), ab)
	})
}

func TestQueryCombineConditionsAndTrims(t *testing.T) {
	yes := func(*Node) bool { return true }
	no := func(*Node) bool { return false }

	n := New(Any)

	// Conditions AND.
	if Q(Any).Filter(yes).Combine(Q(Any).Filter(no)).Test(n) {
		t.Error("true AND false matched")
	}
	if !Q(Any).Filter(yes).Combine(Q(Any).Filter(yes)).Test(n) {
		t.Error("true AND true did not match")
	}

	// Trims OR.
	if Q(Any).Trim(yes).Combine(Q(Any).Trim(no)).Test(n) {
		t.Error("node survived an always-true trim")
	}
	if !Q(Any).Trim(no).Combine(Q(Any).Trim(no)).Test(n) {
		t.Error("node lost to an always-false trim")
	}
}

func TestQueryCombineSubQueries(t *testing.T) {
	// Child queries combine recursively: the merged query demands a single
	// child satisfying both, not one child each.
	world := New(Any)
	meet := world.Attach(New(testPlayer))
	meet.Attach(New(testAB))
	split := world.Attach(New(testPlayer))
	split.Attach(New(testA))
	split.Attach(New(testB))

	q := Q(testPlayer).ChildMatches(Q(testA)).
		Combine(Q(testPlayer).ChildMatches(Q(testB)))

	sameNodes(t, "combined child queries", collect(q.FindOn(world)), meet)
}

// --- planner ---

func TestOptimalKeyPicksRareTag(t *testing.T) {
	// End-to-end scenario 4: 100 A nodes, 2 B nodes; the planner for
	// A.With(B) must iterate the B bucket.
	world := New(Any)
	var withB []*Node
	for i := range 100 {
		a := world.Attach(New(testA))
		if i < 2 {
			a.Attach(New(testB))
			withB = append(withB, a)
		}
	}

	q := testA.With(testB)
	if got := q.optimalKey(world); got != testB {
		t.Errorf("optimalKey = %v, want %v (bucket sizes: A=%d B=%d)",
			got, testB, len(world.index[testA]), len(world.index[testB]))
	}
	sameNodes(t, "A.With(B)", collect(q.FindOn(world)), withB...)
}

func TestPlannerEquivalence(t *testing.T) {
	// P6: results are identical whichever candidate tag the planner picks.
	// Exercised by comparing the planned query against the same query with
	// the child requirement expressed only as a condition (forcing the
	// outer key).
	world := New(Any)
	for i := range 20 {
		a := world.Attach(New(testA))
		if i%5 == 0 {
			a.Attach(New(testB))
		}
	}

	planned := testA.With(testB)
	forced := Q(testA).Filter(func(n *Node) bool {
		for range n.Children(testB) {
			return true
		}
		return false
	})

	got := collect(planned.FindOn(world))
	want := collect(forced.FindOn(world))
	if len(got) != len(want) {
		t.Fatalf("planned found %d, forced found %d", len(got), len(want))
	}
	for n := range want {
		if !got[n] {
			t.Errorf("planned result missing %v", n)
		}
	}
}

func TestOptimalKeyTieKeepsOuterKey(t *testing.T) {
	world := New(Any)
	a := world.Attach(New(testA))
	a.Attach(New(testB))

	// Both buckets have size 1; the outer key must win the tie.
	if got := testA.With(testB).optimalKey(world); got != testA {
		t.Errorf("optimalKey tie = %v, want outer key %v", got, testA)
	}
}
