package event

import (
	"sync"
	"testing"

	"github.com/opd-ai/go-cannon/pkg/physics"
)

// collector records the events it receives in order
type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) handle(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestBus_SubscriptionIDsAreDistinctAcrossTypes(t *testing.T) {
	bus := NewEventBus()

	fired := bus.Subscribe(CannonballFired, func(Event) {})
	landed := bus.Subscribe(CannonballLanded, func(Event) {})
	again := bus.Subscribe(CannonballFired, func(Event) {})

	if fired.ID == 0 || landed.ID == 0 || again.ID == 0 {
		t.Fatalf("zero subscription ID: %d %d %d", fired.ID, landed.ID, again.ID)
	}
	if fired.ID == landed.ID || fired.ID == again.ID || landed.ID == again.ID {
		t.Errorf("subscription IDs not unique: %d %d %d", fired.ID, landed.ID, again.ID)
	}
	if fired.Type != CannonballFired || landed.Type != CannonballLanded {
		t.Errorf("subscription types = %q, %q", fired.Type, landed.Type)
	}
	if got := bus.HandlerCount(CannonballFired); got != 2 {
		t.Errorf("HandlerCount(fired) = %d, want 2", got)
	}
}

func TestBus_PublishRoutesByTypeInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var order []string
	bus.Subscribe(ApexReached, func(Event) { order = append(order, "first") })
	bus.Subscribe(ApexReached, func(Event) { order = append(order, "second") })
	bus.Subscribe(CannonballLanded, func(Event) { order = append(order, "landed") })

	bus.Publish(NewCannonballEvent(ApexReached, nil, 1, physics.V2(1, 2), physics.Vector2D{}, 0.5))
	bus.Publish(NewSimulationEvent(SimulationStarted, nil, 0, 0))

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("handler order = %v, want [first second]", order)
	}
}

func TestSubscription_CancelIsIdempotentAndScoped(t *testing.T) {
	bus := NewEventBus()
	var kept, cancelled collector
	keep := bus.Subscribe(DragModeChanged, kept.handle)
	drop := bus.Subscribe(DragModeChanged, cancelled.handle)
	other := bus.Subscribe(CannonballsCleared, kept.handle)

	drop.Cancel()
	drop.Cancel()

	if got := bus.HandlerCount(DragModeChanged); got != 1 {
		t.Fatalf("HandlerCount(drag) = %d, want 1", got)
	}
	if got := bus.HandlerCount(CannonballsCleared); got != 1 {
		t.Fatalf("HandlerCount(cleared) = %d, want 1", got)
	}

	bus.Publish(NewDragModeEvent(nil, physics.DragOff, physics.DragRealistic))
	if kept.len() != 1 || cancelled.len() != 0 {
		t.Errorf("kept = %d, cancelled = %d; want 1, 0", kept.len(), cancelled.len())
	}

	keep.Cancel()
	other.Cancel()
	if bus.HandlerCount(DragModeChanged) != 0 || bus.HandlerCount(CannonballsCleared) != 0 {
		t.Error("handlers left after cancelling every subscription")
	}
}

func TestBus_CancelDuringPublish(t *testing.T) {
	tests := []struct {
		name       string
		cancelSelf bool
		wantCalls  int
	}{
		// The running Publish holds the old slice, so the later handler
		// still sees this event.
		{name: "cancel later handler", cancelSelf: false, wantCalls: 2},
		{name: "cancel self", cancelSelf: true, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewEventBus()
			calls := 0
			var first, second *Subscription
			first = bus.Subscribe(SimulationStopped, func(Event) {
				calls++
				if tt.cancelSelf {
					first.Cancel()
				} else {
					second.Cancel()
				}
			})
			second = bus.Subscribe(SimulationStopped, func(Event) { calls++ })

			bus.Publish(NewSimulationEvent(SimulationStopped, nil, 3, 0))
			if calls != tt.wantCalls {
				t.Errorf("calls during publish = %d, want %d", calls, tt.wantCalls)
			}

			calls = 0
			bus.Publish(NewSimulationEvent(SimulationStopped, nil, 4, 0))
			if calls != 1 {
				t.Errorf("calls after cancel = %d, want 1", calls)
			}
		})
	}
}

func TestBus_ConcurrentSubscribePublish(t *testing.T) {
	bus := NewEventBus()
	var got collector
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := bus.Subscribe(CannonballFired, func(Event) {})
			sub.Cancel()
		}()
		go func(id uint64) {
			defer wg.Done()
			bus.Publish(NewCannonballEvent(CannonballFired, nil, id, physics.Vector2D{}, physics.Vector2D{}, 0))
		}(uint64(i))
	}
	wg.Wait()

	bus.Subscribe(CannonballFired, got.handle)
	bus.Publish(NewCannonballEvent(CannonballFired, nil, 99, physics.Vector2D{}, physics.Vector2D{}, 0))
	if got.len() != 1 {
		t.Errorf("events after concurrent churn = %d, want 1", got.len())
	}
	if n := bus.HandlerCount(CannonballFired); n != 1 {
		t.Errorf("HandlerCount = %d, want 1", n)
	}
}

func TestEventPayloads(t *testing.T) {
	source := &struct{ name string }{"sim"}

	t.Run("cannonball", func(t *testing.T) {
		pos, vel := physics.V2(10.18, 0), physics.V2(7.07, -7.07)
		e := NewCannonballEvent(CannonballLanded, source, 42, pos, vel, 1.44)
		if e.GetType() != CannonballLanded || e.GetSource() != source {
			t.Errorf("header = %q, %v", e.GetType(), e.GetSource())
		}
		if e.BallID != 42 || e.Position != pos || e.Velocity != vel || e.Time != 1.44 {
			t.Errorf("payload = %+v", e)
		}
	})

	t.Run("drag mode", func(t *testing.T) {
		e := NewDragModeEvent(source, physics.DragRealistic, physics.DragExaggerated)
		if e.GetType() != DragModeChanged {
			t.Errorf("type = %q, want %q", e.GetType(), DragModeChanged)
		}
		if e.Previous != physics.DragRealistic || e.Current != physics.DragExaggerated {
			t.Errorf("modes = %v -> %v", e.Previous, e.Current)
		}
	})

	t.Run("simulation", func(t *testing.T) {
		e := NewSimulationEvent(CannonballsCleared, source, 120, 3)
		if e.GetType() != CannonballsCleared || e.Tick != 120 || e.Balls != 3 {
			t.Errorf("event = %+v", e)
		}
	})

	t.Run("handlers receive the concrete type", func(t *testing.T) {
		bus := NewEventBus()
		var current physics.DragMode
		bus.Subscribe(DragModeChanged, func(e Event) {
			if dm, ok := e.(*DragModeEvent); ok {
				current = dm.Current
			}
		})
		bus.Publish(NewDragModeEvent(source, physics.DragOff, physics.DragRealistic))
		if current != physics.DragRealistic {
			t.Errorf("handler saw %v, want realistic", current)
		}
	})
}
