// Package events provides a unified event system for real-time sync updates.
//
// This package implements a broker pattern that connects the bridge's hooks
// system to the websocket transport through a common event pipeline, giving
// a single point for event distribution.
package events

import "time"

// EventType represents the type of sync event.
type EventType string

// Event types for sync activity.
const (
	// Record events (from bridge hooks).
	RecordCreated EventType = "record.created"
	RecordUpdated EventType = "record.updated"

	// Pass events (from sync passes).
	SyncStarted   EventType = "sync.started"
	SyncCompleted EventType = "sync.completed"
	SyncError     EventType = "sync.error"

	// Webhook events (from the receiver endpoints).
	WebhookReceived EventType = "webhook.received"

	// Client events (from transport layers).
	ClientConnected EventType = "client.connected"
)

// Event represents a sync event with type, timestamp, and data.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}
