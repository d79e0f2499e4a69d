package bus

import (
	"github.com/zeusync/carball/internal/core/systems/physics"
)

// EventBus is a thread-safe, in-process pub/sub bus for match events.
//
// Delivery is synchronous in the publisher's goroutine. Handler errors are
// combined and returned from Publish. Handlers must not publish back into
// the engine that produced the event while it is stepping.
type EventBus interface {
	// Publish delivers event to every subscriber of its kind and to every
	// catch-all subscriber.
	Publish(event Event) error
	// PublishBatch publishes events in order and combines the errors.
	PublishBatch(events ...Event) error
	// PublishWithFilters drops the event silently if any filter rejects it.
	PublishWithFilters(event Event, filters ...EventFilter) error

	Subscribe(kind Kind, handler EventHandler) (Subscription, error)
	// SubscribeAll registers a handler for every kind.
	SubscribeAll(handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. A nil sub is ignored.
	Unsubscribe(sub Subscription) error

	AddObserver(obs EventBusObserver)
	RemoveObserver(obs EventBusObserver)
	GetMetrics() EventBusMetrics
}

// Kind names what happened.
type Kind string

const (
	KindBallHit     Kind = "ball_hit"
	KindBump        Kind = "bump"
	KindDemolition  Kind = "demolition"
	KindRespawn     Kind = "respawn"
	KindBoostPickup Kind = "boost_pickup"
	KindKickoff     Kind = "kickoff"
)

// Event is one match occurrence. Fields that do not apply to the kind are
// zero.
type Event struct {
	Kind Kind   `json:"kind"`
	Tick uint64 `json:"tick"`
	// CarID is the acting car: the hitter, the bumper or the one picking up
	// boost.
	CarID uint32 `json:"car_id,omitempty"`
	// OtherCarID is the car bumped or demolished.
	OtherCarID uint32 `json:"other_car_id,omitempty"`
	// PadIndex is set on boost_pickup; 0 is a valid pad.
	PadIndex int          `json:"pad_index"`
	Amount   float32      `json:"amount,omitempty"`
	Pos      physics.Vec3 `json:"pos"`
}

type (
	EventHandler func(event Event) error
	EventFilter  func(event Event) bool
)

// Subscription is a registered handler. Cancel is idempotent.
type Subscription interface {
	ID() string
	// Kind is empty for catch-all subscriptions.
	Kind() Kind
	IsActive() bool
	Cancel() error
}

// EventBusObserver is notified about deliveries. Observers should return
// quickly.
type EventBusObserver interface {
	OnPublish(event Event)
	OnDelivered(event Event, handlers int, err error, durationMicros int64)
}

type EventBusMetrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	DroppedByFilters  uint64
	SubscribersActive uint64
}
