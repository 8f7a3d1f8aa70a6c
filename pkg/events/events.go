// Package events provides the synchronous notification bus editing sessions
// publish on.
//
// Delivery is synchronous and in subscription order: Publish runs every
// handler before returning, on the caller's goroutine. The editor's
// single-writer model makes this safe and keeps UI updates ordered with the
// mutations that caused them. Handlers that need to do slow work hand it off
// themselves.
package events

import (
	"sync"
	"time"
)

// Topic names one notification stream.
type Topic string

// Topics published by editing sessions.
const (
	TopicSelectionChanged    Topic = "selection-changed"
	TopicNodeAdded           Topic = "node-added"
	TopicNodeUpdated         Topic = "node-updated"
	TopicNodeDeleted         Topic = "node-deleted"
	TopicOperationCompleted  Topic = "operation-completed"
	TopicUndoCompleted       Topic = "undo-completed"
	TopicRedoCompleted       Topic = "redo-completed"
	TopicLayoutRecalcRequest Topic = "layout-recalculation-requested"
	TopicViewFitted          Topic = "view-fitted"
)

// Event is one published notification.
type Event struct {
	Topic   Topic
	Payload any
	At      time.Time
}

// Handler receives events for a topic.
type Handler func(Event)

// Bus is a topic-keyed synchronous event bus.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]subscription
	nextID   int
}

type subscription struct {
	id int
	fn Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Topic][]subscription)}
}

// Subscribe registers a handler for a topic and returns an unsubscribe
// function.
func (b *Bus) Subscribe(topic Topic, fn Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[topic] = append(b.handlers[topic], subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.handlers[topic]
		for i, s := range subs {
			if s.id == id {
				b.handlers[topic] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the payload to every handler subscribed to the topic, in
// subscription order, before returning.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.RLock()
	subs := b.handlers[topic]
	b.mu.RUnlock()

	e := Event{Topic: topic, Payload: payload, At: time.Now().UTC()}
	for _, s := range subs {
		s.fn(e)
	}
}
