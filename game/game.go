// Package game provides the stock vocabulary on top of the tgm scene graph:
// the World/Layer/Entity/Component classification tags, the built-in update
// and draw event types, and helpers to drive them from the window loop.
//
// The tags carry no behavior of their own — they exist to seed the graph's
// tag index so game code can partition and query the tree:
//
//	world := tgm.New(game.World)
//	bg := world.Attach(tgm.New(game.Layer))
//	fg := world.Attach(tgm.New(game.Layer))
package game

import "github.com/NinTheNoodle/tgm"

var (
	// World encapsulates an isolated universe, such as a level or a HUD
	// overlay. Objects in a world treat its contents as all that exists.
	World = tgm.NewTag("World")

	// Entity is the base for corporeal objects: anything placed in a scene,
	// from the player character to trigger zones and path points.
	Entity = tgm.NewTag("Entity")

	// Layer groups entities to distinguish ordering, such as a background
	// and a foreground.
	Layer = tgm.NewTag("Layer", Entity)

	// Component is the base for objects that exist purely to enhance their
	// parent, like an AI controller.
	Component = tgm.NewTag("Component")

	// Label is the base for pure-information markers attached to a parent:
	// whether an object is visible or solid, say. Labels index better than
	// attributes and keep the parent's attribute space clean.
	Label = tgm.NewTag("Label")

	// Update fires once per tick. Handlers receive the tick duration in
	// seconds as their single argument.
	Update = tgm.NewTag("Update", tgm.Event)

	// Draw fires once per frame after update. Handlers receive the target
	// the frame is being built on.
	Draw = tgm.NewTag("Draw", tgm.Event)
)

// Fire invokes every event node of the given type in the subtree under
// root, forwarding args. Returns the number of handlers invoked.
func Fire(root *tgm.Node, event tgm.Tag, args ...any) int {
	count := 0
	for ev := range root.Find(event) {
		ev.Invoke(args...)
		count++
	}
	return count
}

// Tick fires the [Update] event through the subtree under root. Call it
// once per tick from the driver's update function.
func Tick(root *tgm.Node, dt float64) {
	Fire(root, Update, dt)
}

// Render fires the [Draw] event through the subtree under root with the
// given draw target.
func Render(root *tgm.Node, target any) {
	Fire(root, Draw, target)
}
