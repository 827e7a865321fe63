// pkg/event/event.go
package event

import (
	"sync"

	"github.com/opd-ai/go-cannon/pkg/physics"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	CannonballFired    Type = "cannonball_fired"
	CannonballLanded   Type = "cannonball_landed"
	ApexReached        Type = "apex_reached"
	DragModeChanged    Type = "drag_mode_changed"
	SimulationStarted  Type = "simulation_started"
	SimulationStopped  Type = "simulation_stopped"
	CannonballsCleared Type = "cannonballs_cleared"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler. Cancel removes it.
type Subscription struct {
	ID     uint64
	Type   Type
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:   id,
		Type: eventType,
		Cancel: func() {
			b.unsubscribe(eventType, id)
		},
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			// Copy so a Publish iterating the old slice is unaffected.
			next := make([]subscriber, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			if len(next) == 0 {
				delete(b.handlers, eventType)
			} else {
				b.handlers[eventType] = next
			}
			return
		}
	}
}

// HandlerCount returns the number of handlers registered for eventType
func (b *Bus) HandlerCount(eventType Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// CannonballEvent describes something that happened to one cannonball
type CannonballEvent struct {
	BaseEvent
	BallID   uint64
	Position physics.Vector2D
	Velocity physics.Vector2D
	Time     float64
}

// NewCannonballEvent creates a new cannonball event
func NewCannonballEvent(eventType Type, source interface{}, ballID uint64, position, velocity physics.Vector2D, t float64) *CannonballEvent {
	return &CannonballEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		BallID:   ballID,
		Position: position,
		Velocity: velocity,
		Time:     t,
	}
}

// DragModeEvent is published when the drag mode is switched
type DragModeEvent struct {
	BaseEvent
	Previous physics.DragMode
	Current  physics.DragMode
}

// NewDragModeEvent creates a new drag mode event
func NewDragModeEvent(source interface{}, previous, current physics.DragMode) *DragModeEvent {
	return &DragModeEvent{
		BaseEvent: BaseEvent{
			EventType: DragModeChanged,
			Source:    source,
		},
		Previous: previous,
		Current:  current,
	}
}

// SimulationEvent covers start, stop and clear
type SimulationEvent struct {
	BaseEvent
	Tick  uint64
	Balls int
}

// NewSimulationEvent creates a new simulation lifecycle event
func NewSimulationEvent(eventType Type, source interface{}, tick uint64, balls int) *SimulationEvent {
	return &SimulationEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Tick:  tick,
		Balls: balls,
	}
}
