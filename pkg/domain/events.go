package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventResolve  EventType = "resolve"
	EventAllocate EventType = "allocate"
	EventAdvance  EventType = "advance"
	EventReset    EventType = "reset"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Root      string    `json:"root"`
}

// ResolveEvent describes one key resolution, successful or not.
type ResolveEvent struct {
	EventBase
	Key   Key    `json:"key"`
	Write bool   `json:"write"`
	Auto  bool   `json:"auto"`
	Value string `json:"value,omitempty"`
	Err   error  `json:"-"`
}

// AllocateEvent is emitted when a fresh output location is created.
type AllocateEvent struct {
	EventBase
	Key  Key    `json:"key"`
	Path string `json:"path"`
}

// AdvanceEvent is emitted after a stage transition has been persisted.
type AdvanceEvent struct {
	EventBase
	Previous Record      `json:"previous"`
	Current  Record      `json:"current"`
	Diff     *RecordDiff `json:"diff,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnResolve  func(context.Context, *ResolveEvent)
	OnAllocate func(context.Context, *AllocateEvent)
	OnAdvance  func(context.Context, *AdvanceEvent)
	OnReset    func(context.Context, *EventBase)
}
