// Package tgm is the scene-graph core of the TGM game engine: a tree of
// typed nodes paired with a query language that locates nodes through
// tag indices propagated up the tree.
//
// Every node carries a [Tag] plus all of the tag's ancestors, and every node
// maintains an index from tag to the direct children whose subtrees contain
// that tag. Attach and detach keep the index current, so a lookup like
// "every Enemy under this level" skips whole subtrees that contain none.
//
// # Quick start
//
// Declare tags, build a tree, and query it:
//
//	var (
//		World  = tgm.NewTag("World")
//		Entity = tgm.NewTag("Entity")
//		Player = tgm.NewTag("Player", Entity)
//	)
//
//	world := tgm.New(World)
//	layer := world.Attach(tgm.New(Entity))
//	layer.Attach(tgm.New(Player))
//
//	for p := range world.Find(Player) {
//		// ...
//	}
//
// Queries compose: [Tag.With] narrows by children and attributes, [Tag.Under]
// requires an ancestor, and [Query.Filter], [Query.Trim], [Query.Combine]
// build richer selections. The planner picks the cheapest indexed tag before
// traversing, so a query like Entity.With(Rare) iterates the two Rare
// subtrees rather than the ten thousand Entity ones.
//
// Tags can declare attributes and event handlers ([Define], [On]); nodes
// constructed with such a tag automatically receive wired event sub-nodes.
// The driver and game subpackages add the window loop and the stock
// World/Layer/Entity vocabulary on top of this core.
//
// The engine is single-threaded by design: all graph operations must run on
// one goroutine, and lazy query sequences must not be interleaved with
// mutations of the visited subtree.
package tgm
