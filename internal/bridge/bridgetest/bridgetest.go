/*
 * Copyright (C) 2026 Mustafa Naseer (Mustafa Gaeed)
 *
 * This file is part of quarry.
 *
 * quarry is free software: you can redistribute it and/or modify
 * it under the terms of the MIT License as described in the
 * LICENSE file distributed with this project.
 *
 * quarry is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 * MIT License for more details.
 *
 * You should have received a copy of the MIT License
 * along with quarry. If not, see the LICENSE file in the project root.
 */

// Package bridgetest provides an in-memory Bridge for store tests: commands
// are served by stubs, events are emitted synchronously, and every
// invocation is recorded for assertion.
package bridgetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

type Invocation struct {
	Command string
	Params  json.RawMessage
}

type StubFunc func(params json.RawMessage) (interface{}, error)

type Fake struct {
	mu          sync.Mutex
	stubs       map[string]StubFunc
	subs        map[string]map[int]func(json.RawMessage)
	nextSubID   int
	invocations []Invocation
}

func New() *Fake {
	return &Fake{
		stubs: make(map[string]StubFunc),
		subs:  make(map[string]map[int]func(json.RawMessage)),
	}
}

// Stub installs the handler serving a command; unstubbed commands error.
func (f *Fake) Stub(command string, fn StubFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stubs[command] = fn
}

// StubResult serves a command with a fixed successful payload.
func (f *Fake) StubResult(command string, result interface{}) {
	f.Stub(command, func(json.RawMessage) (interface{}, error) {
		return result, nil
	})
}

func (f *Fake) Invoke(ctx context.Context, command string, params interface{}) (json.RawMessage, error) {
	var raw json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		raw = data
	}

	f.mu.Lock()
	f.invocations = append(f.invocations, Invocation{Command: command, Params: raw})
	stub := f.stubs[command]
	f.mu.Unlock()

	if stub == nil {
		return nil, fmt.Errorf("no stub for command %s", command)
	}

	result, err := stub(raw)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return json.Marshal(result)
}

func (f *Fake) Subscribe(event string, handler func(data json.RawMessage)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subs[event] == nil {
		f.subs[event] = make(map[int]func(json.RawMessage))
	}
	f.nextSubID++
	id := f.nextSubID
	f.subs[event][id] = handler

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs[event], id)
	}
}

// Emit delivers an event to current subscribers, synchronously.
func (f *Fake) Emit(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}

	f.mu.Lock()
	handlers := make([]func(json.RawMessage), 0, len(f.subs[event]))
	for _, h := range f.subs[event] {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(data)
	}
}

func (f *Fake) SubscriberCount(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs[event])
}

func (f *Fake) Invocations(command string) []Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Invocation
	for _, inv := range f.invocations {
		if inv.Command == command {
			out = append(out, inv)
		}
	}
	return out
}
