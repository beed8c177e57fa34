package events

import (
	"bankvest/core/types"
	"bankvest/crypto"
)

const (
	// TypePlatformInitialized is emitted once at platform bootstrap.
	TypePlatformInitialized = "platform.initialized"
	// TypePlatformPaused is emitted when the admin halts value movement.
	TypePlatformPaused = "platform.paused"
	// TypePlatformUnpaused is emitted when the admin resumes operations.
	TypePlatformUnpaused = "platform.unpaused"
)

// PlatformInitialized captures the one-time platform bootstrap.
type PlatformInitialized struct {
	Admin     crypto.Address
	Treasury  crypto.Address
	Timestamp int64
}

// EventType satisfies the events.Event interface.
func (PlatformInitialized) EventType() string { return TypePlatformInitialized }

// Event converts the structured payload into a broadcastable event.
func (e PlatformInitialized) Event() *types.Event {
	return &types.Event{
		Type: TypePlatformInitialized,
		Attributes: map[string]string{
			"admin":     e.Admin.String(),
			"treasury":  e.Treasury.String(),
			"timestamp": formatTimestamp(e.Timestamp),
		},
	}
}

// PlatformPaused captures an emergency pause.
type PlatformPaused struct {
	Admin     crypto.Address
	Timestamp int64
}

// EventType satisfies the events.Event interface.
func (PlatformPaused) EventType() string { return TypePlatformPaused }

// Event converts the structured payload into a broadcastable event.
func (e PlatformPaused) Event() *types.Event {
	return &types.Event{
		Type: TypePlatformPaused,
		Attributes: map[string]string{
			"admin":     e.Admin.String(),
			"timestamp": formatTimestamp(e.Timestamp),
		},
	}
}

// PlatformUnpaused captures the lifting of an emergency pause.
type PlatformUnpaused struct {
	Admin     crypto.Address
	Timestamp int64
}

// EventType satisfies the events.Event interface.
func (PlatformUnpaused) EventType() string { return TypePlatformUnpaused }

// Event converts the structured payload into a broadcastable event.
func (e PlatformUnpaused) Event() *types.Event {
	return &types.Event{
		Type: TypePlatformUnpaused,
		Attributes: map[string]string{
			"admin":     e.Admin.String(),
			"timestamp": formatTimestamp(e.Timestamp),
		},
	}
}
