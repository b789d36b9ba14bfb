// SPDX-FileCopyrightText: 2024 EdgeKit, Inc.
// SPDX-License-Identifier: Apache-2.0
package main

import (
	"sync"

	"go.uber.org/zap"
)

// CompletionCallback receives the accumulated handles paired with one
// originating event once that event's exchange completes.
type CompletionCallback func(handles []EventHandle)

type completionEntry struct {
	callback CompletionCallback
	handles  []EventHandle
}

// CompletionCallbacks tracks per-event completion callbacks while the owning
// hit is in flight.  An explicit injected collaborator, never a process-wide
// registry; safe for concurrent use from any number of hit workers.
type CompletionCallbacks struct {
	logger  *zap.Logger
	lock    sync.Mutex
	entries map[string]*completionEntry
}

func NewCompletionCallbacks(logger *zap.Logger) *CompletionCallbacks {
	return &CompletionCallbacks{
		logger:  logger,
		entries: make(map[string]*completionEntry),
	}
}

// Register associates a callback with an originating event id.  A second
// registration for the same id replaces the first.
func (c *CompletionCallbacks) Register(eventID string, callback CompletionCallback) {
	if eventID == "" || callback == nil {
		return
	}

	c.lock.Lock()
	c.entries[eventID] = &completionEntry{callback: callback}
	c.lock.Unlock()
}

// EventHandleReceived accumulates a paired handle for a registered event.
// Handles for unregistered events are dropped.
func (c *CompletionCallbacks) EventHandleReceived(eventID string, handle EventHandle) {
	if eventID == "" {
		return
	}

	c.lock.Lock()
	if entry, ok := c.entries[eventID]; ok {
		entry.handles = append(entry.handles, handle)
	}
	c.lock.Unlock()
}

// Unregister fires the callback registered for eventID with its accumulated
// handles and removes the registration.  Exactly-once: concurrent and
// repeated calls for the same id invoke the callback at most once.
func (c *CompletionCallbacks) Unregister(eventID string) {
	if eventID == "" {
		return
	}

	c.lock.Lock()
	entry, ok := c.entries[eventID]
	delete(c.entries, eventID)
	c.lock.Unlock()

	if !ok {
		return
	}

	c.logger.Debug("completion callback fired",
		zap.String("eventId", eventID),
		zap.Int("handles", len(entry.handles)),
	)
	entry.callback(entry.handles)
}
