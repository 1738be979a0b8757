package verlet

import (
	"github.com/akmonengine/verlet/vmath"
)

const (
	TRIGGER_ENTER EventType = iota
	COLLISION_ENTER
	TRIGGER_STAY
	COLLISION_STAY
	TRIGGER_EXIT
	COLLISION_EXIT
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Trigger events. Body is the solid, Trigger the sensor.
type TriggerEnterEvent struct {
	Body    int
	Trigger int
	// Side of the trigger the body came through, from its previous position
	Side vmath.Normal
}

func (e TriggerEnterEvent) Type() EventType { return TRIGGER_ENTER }

type TriggerStayEvent struct {
	Body    int
	Trigger int
}

func (e TriggerStayEvent) Type() EventType { return TRIGGER_STAY }

type TriggerExitEvent struct {
	Body    int
	Trigger int
}

func (e TriggerExitEvent) Type() EventType { return TRIGGER_EXIT }

// Collision events. BodyA is the dynamic body leading the pair.
type CollisionEnterEvent struct {
	BodyA int
	BodyB int
	// Side of BodyB that BodyA came through
	Side vmath.Normal
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	BodyA int
	BodyB int
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	BodyA int
	BodyB int
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

type activePair struct {
	pair    Pair
	trigger bool
	side    vmath.Normal
}

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]activePair
	currentActivePairs  map[pairKey]activePair
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]activePair),
		currentActivePairs:  make(map[pairKey]activePair),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordPair is called by the narrow phase for every pair in contact
func (e *Events) recordPair(pair Pair, trigger bool, side vmath.Normal) {
	e.currentActivePairs[makePairKey(pair.L, pair.R)] = activePair{pair: pair, trigger: trigger, side: side}
}

// forget drops every tracked pair involving a body, no exit event is sent
func (e *Events) forget(index int) {
	for key := range e.previousActivePairs {
		if key.bodyA == index || key.bodyB == index {
			delete(e.previousActivePairs, key)
		}
	}
	for key := range e.currentActivePairs {
		if key.bodyA == index || key.bodyB == index {
			delete(e.currentActivePairs, key)
		}
	}
}

// rename moves the tracked pairs of a body to a new index, after a swap removal
func (e *Events) rename(from, to int) {
	renameIn := func(pairs map[pairKey]activePair) {
		for key, active := range pairs {
			if key.bodyA != from && key.bodyB != from {
				continue
			}
			delete(pairs, key)
			if active.pair.L == from {
				active.pair.L = to
			}
			if active.pair.R == from {
				active.pair.R = to
			}
			pairs[makePairKey(active.pair.L, active.pair.R)] = active
		}
	}
	renameIn(e.previousActivePairs)
	renameIn(e.currentActivePairs)
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processCollisionEvents() {
	// Detect Enter and Stay events
	for key, active := range e.currentActivePairs {
		l, r := active.pair.L, active.pair.R

		if _, ok := e.previousActivePairs[key]; ok {
			// Pair was active before and still is, Stay
			if active.trigger {
				e.buffer = append(e.buffer, TriggerStayEvent{Body: l, Trigger: r})
			} else {
				e.buffer = append(e.buffer, CollisionStayEvent{BodyA: l, BodyB: r})
			}
		} else {
			// New pair, Enter
			if active.trigger {
				e.buffer = append(e.buffer, TriggerEnterEvent{Body: l, Trigger: r, Side: active.side})
			} else {
				e.buffer = append(e.buffer, CollisionEnterEvent{BodyA: l, BodyB: r, Side: active.side})
			}
		}
	}

	// Detect Exit events
	for key, active := range e.previousActivePairs {
		if _, ok := e.currentActivePairs[key]; ok {
			continue
		}
		// Pair was active but is no longer, Exit
		l, r := active.pair.L, active.pair.R
		if active.trigger {
			e.buffer = append(e.buffer, TriggerExitEvent{Body: l, Trigger: r})
		} else {
			e.buffer = append(e.buffer, CollisionExitEvent{BodyA: l, BodyB: r})
		}
	}

	// Swap for next frame and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processCollisionEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
