package game

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/NinTheNoodle/tgm"
)

// TweenGroup animates up to 4 float64 attributes on a node simultaneously.
// Create one via [TweenAttrs] and advance it with Update(dt) each tick —
// typically from an [Update] handler. The group writes eased values back as
// node attributes. If the target node is destroyed, the group stops
// immediately.
//
// There is no global animation manager — callers own the Update calls.
type TweenGroup struct {
	tweens [4]*gween.Tween
	names  [4]string
	count  int
	target *tgm.Node
	Done   bool
}

// TweenSpec names one attribute and its destination value.
type TweenSpec struct {
	Name string
	To   float64
}

// TweenAttrs creates a TweenGroup animating the named node attributes to
// their target values over the given duration in seconds. An attribute that
// is unset or not a float64 starts from zero. At most 4 specs; extras are
// ignored.
func TweenAttrs(node *tgm.Node, duration float32, fn ease.TweenFunc, specs ...TweenSpec) *TweenGroup {
	g := &TweenGroup{target: node}
	for _, spec := range specs {
		if g.count == len(g.tweens) {
			break
		}
		from := 0.0
		if v, ok := node.Attr(spec.Name); ok {
			if f, ok := v.(float64); ok {
				from = f
			}
		}
		g.tweens[g.count] = gween.New(float32(from), float32(spec.To), duration, fn)
		g.names[g.count] = spec.Name
		g.count++
	}
	return g
}

// Update advances all tweens by dt seconds and writes the values back to the
// target's attributes. If the target node has been destroyed, Done is set to
// true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDestroyed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.target.Set(g.names[i], float64(val))
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}
