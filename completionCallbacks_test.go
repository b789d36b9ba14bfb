// SPDX-FileCopyrightText: 2024 EdgeKit, Inc.
// SPDX-License-Identifier: Apache-2.0
package main

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCompletionCallbacksAccumulate(t *testing.T) {
	var (
		assert    = assert.New(t)
		callbacks = NewCompletionCallbacks(zap.NewNop())
		fired     [][]EventHandle
	)

	callbacks.Register("event-1", func(handles []EventHandle) {
		fired = append(fired, handles)
	})

	callbacks.EventHandleReceived("event-1", EventHandle{Type: "state:store"})
	callbacks.EventHandleReceived("event-1", EventHandle{Type: "personalization:decisions"})

	// handles for unregistered events are dropped
	callbacks.EventHandleReceived("event-2", EventHandle{Type: "ignored"})

	callbacks.Unregister("event-1")

	require.Len(t, fired, 1)
	require.Len(t, fired[0], 2)
	assert.Equal("state:store", fired[0][0].Type)
	assert.Equal("personalization:decisions", fired[0][1].Type)
}

func testCompletionCallbacksFireOnce(t *testing.T) {
	var (
		assert    = assert.New(t)
		callbacks = NewCompletionCallbacks(zap.NewNop())
		count     int32
		finish    = new(sync.WaitGroup)
	)

	callbacks.Register("event-1", func([]EventHandle) {
		atomic.AddInt32(&count, 1)
	})

	for i := 0; i < 50; i++ {
		finish.Add(1)
		go func() {
			defer finish.Done()
			callbacks.Unregister("event-1")
		}()
	}
	finish.Wait()

	assert.Equal(int32(1), atomic.LoadInt32(&count))

	// late handles after unregistration are dropped, not queued
	callbacks.EventHandleReceived("event-1", EventHandle{Type: "late"})
	callbacks.Unregister("event-1")
	assert.Equal(int32(1), atomic.LoadInt32(&count))
}

func testCompletionCallbacksReplace(t *testing.T) {
	var (
		assert    = assert.New(t)
		callbacks = NewCompletionCallbacks(zap.NewNop())
		first     int
		second    int
	)

	callbacks.Register("event-1", func([]EventHandle) { first++ })
	callbacks.Register("event-1", func([]EventHandle) { second++ })
	callbacks.Unregister("event-1")

	assert.Zero(first)
	assert.Equal(1, second)
}

func testCompletionCallbacksIgnoresInvalid(t *testing.T) {
	callbacks := NewCompletionCallbacks(zap.NewNop())

	// none of these may panic or register anything
	callbacks.Register("", func([]EventHandle) {})
	callbacks.Register("event-1", nil)
	callbacks.EventHandleReceived("", EventHandle{})
	callbacks.Unregister("")
	callbacks.Unregister("event-1")
}

func TestCompletionCallbacks(t *testing.T) {
	t.Run("Accumulate", testCompletionCallbacksAccumulate)
	t.Run("FireOnce", testCompletionCallbacksFireOnce)
	t.Run("Replace", testCompletionCallbacksReplace)
	t.Run("IgnoresInvalid", testCompletionCallbacksIgnoresInvalid)
}
