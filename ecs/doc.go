// Package ecs provides ECS adapters for the tgm scene graph.
//
// The primary adapter is [NewDonburiObserver], which mirrors graph structure
// changes (attach, detach, destroy) into a [Donburi] world as typed events.
// Subscribe to [GraphEventType] in your ECS systems to receive them.
//
// Usage:
//
//	tgm.SetObserver(ecs.NewDonburiObserver(world))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
