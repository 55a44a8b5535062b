package ecs

import (
	"github.com/NinTheNoodle/tgm"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GraphEventType is the Donburi event type for tgm graph structure changes.
// Subscribe to this in your ECS systems to react to nodes being attached,
// detached, or destroyed.
var GraphEventType = events.NewEventType[tgm.GraphEvent]()

type donburiObserver struct {
	world donburi.World
}

// NewDonburiObserver creates a graph observer backed by a Donburi world.
// Install it with tgm.SetObserver; graph events are published to
// GraphEventType and can be consumed with events.Subscribe and
// ProcessEvents.
func NewDonburiObserver(world donburi.World) tgm.Observer {
	return &donburiObserver{world: world}
}

func (o *donburiObserver) GraphChanged(event tgm.GraphEvent) {
	GraphEventType.Publish(o.world, event)
}
