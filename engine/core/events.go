package core

import (
	"reflect"
	"sync"
)

type EventContext struct {
	Data struct {
		I64 [2]int64
		F64 [2]float64
		I32 [4]int32
		C   [2]string
	}
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Stops the engine after the current tick.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// A new configuration was applied.
	/* Context usage:
	 * string path = data.C[0];
	 */
	EVENT_CODE_CONFIG_RELOADED SystemEventCode = 0x02

	// Every requested chunk has been attached or found empty.
	/* Context usage:
	 * i32 attached = data.I32[0];
	 * i32 empty = data.I32[1];
	 */
	EVENT_CODE_VIEW_LOADED SystemEventCode = 0x03

	// The voxel worker is gone. No further chunks will load.
	/* Context usage:
	 * string reason = data.C[0];
	 */
	EVENT_CODE_PIPELINE_DOWN SystemEventCode = 0x04

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

const MAX_MESSAGE_CODES = 1024

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventSystemState struct {
	mu         sync.RWMutex
	registered [MAX_MESSAGE_CODES][]registeredEvent
}

var eventState = &eventSystemState{}

// Should return true if handled.
type FnOnEvent func(code SystemEventCode, sender interface{}, listenerInst interface{}, data EventContext) bool

// EventReset drops every registration.
func EventReset() {
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	for i := range eventState.registered {
		eventState.registered[i] = nil
	}
}

func validCode(code SystemEventCode) bool {
	return code >= 0 && int(code) < MAX_MESSAGE_CODES
}

func sameCallback(a, b FnOnEvent) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

/**
 * Register to listen for when events are sent with the provided code. A listener can
 * only be registered once per code.
 * @returns true if the event is successfully registered; otherwise false.
 */
func EventRegister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if !validCode(code) || onEvent == nil {
		return false
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()

	for _, e := range eventState.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	eventState.registered[code] = append(eventState.registered[code], registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code.
 * @returns true if the event is successfully unregistered; otherwise false.
 */
func EventUnregister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if !validCode(code) {
		return false
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()

	events := eventState.registered[code]
	for i, e := range events {
		if e.listener == listener && sameCallback(e.callback, onEvent) {
			eventState.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If a handler returns true the
 * event is considered handled and is not passed on to any more listeners.
 * Handlers run on the caller's goroutine and must not register or unregister.
 * @returns true if handled, otherwise false.
 */
func EventFire(code SystemEventCode, sender interface{}, context EventContext) bool {
	if !validCode(code) {
		return false
	}
	eventState.mu.RLock()
	defer eventState.mu.RUnlock()

	for _, e := range eventState.registered[code] {
		if e.callback(code, sender, e.listener, context) {
			return true
		}
	}
	return false
}
