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

package router

import (
	"encoding/json"
	"fmt"
)

// Handoff carries one window's full navigation state to a newly spawned
// window as a textual launch argument. There is no shared memory across that
// boundary, so this is a full value copy, and every value is a string:
// anything richer must be coerced before it rides along.
type Handoff struct {
	Path    string            `json:"path"`
	Props   map[string]string `json:"props"`
	History string            `json:"history"`
}

type handoffEntry struct {
	Path   string            `json:"path"`
	Params map[string]string `json:"params"`
	Props  map[string]string `json:"props"`
}

type handoffHistory struct {
	Past   []handoffEntry `json:"past"`
	Future []handoffEntry `json:"future"`
}

// EncodeHandoff packs the current entry and both history stacks into a
// single JSON string. The current entry's params and props are flattened
// into one map; the receiver splits them again via the route-param
// allow-list.
func (r *Router) EncodeHandoff() (string, error) {
	r.mu.Lock()
	current := r.current.clone()
	hist := handoffHistory{
		Past:   toHandoffEntries(r.past),
		Future: toHandoffEntries(r.future),
	}
	r.mu.Unlock()

	histJSON, err := json.Marshal(hist)
	if err != nil {
		return "", fmt.Errorf("marshal history: %w", err)
	}

	flat := make(map[string]string, len(current.Params)+len(current.Props))
	for k, v := range current.Props {
		flat[k] = v
	}
	for k, v := range current.Params {
		flat[k] = v
	}

	payload, err := json.Marshal(Handoff{
		Path:    current.Path,
		Props:   flat,
		History: string(histJSON),
	})
	if err != nil {
		return "", fmt.Errorf("marshal handoff: %w", err)
	}
	return string(payload), nil
}

// RestoreHandoff rebuilds a fresh router's state from a launch argument. The
// initial entry's keys are split into params and props via the allow-list;
// history entries are restored verbatim, with no re-validation against the
// route table.
func (r *Router) RestoreHandoff(raw string) error {
	var h Handoff
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return fmt.Errorf("parse handoff: %w", err)
	}

	var hist handoffHistory
	if h.History != "" {
		if err := json.Unmarshal([]byte(h.History), &hist); err != nil {
			return fmt.Errorf("parse handoff history: %w", err)
		}
	}

	current := Entry{Path: h.Path, Params: map[string]string{}, Props: map[string]string{}}
	for k, v := range h.Props {
		if IsRouteParam(k) {
			current.Params[k] = v
		} else {
			current.Props[k] = v
		}
	}
	if !r.routes[current.Path] {
		current.Path = PathInvalid
	}

	r.mu.Lock()
	r.current = current
	r.past = fromHandoffEntries(hist.Past)
	r.future = fromHandoffEntries(hist.Future)
	r.mu.Unlock()

	r.notify()
	return nil
}

func toHandoffEntries(entries []Entry) []handoffEntry {
	out := make([]handoffEntry, len(entries))
	for i, e := range entries {
		out[i] = handoffEntry{
			Path:   e.Path,
			Params: copyMap(e.Params),
			Props:  copyMap(e.Props),
		}
	}
	return out
}

func fromHandoffEntries(entries []handoffEntry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		params := e.Params
		if params == nil {
			params = map[string]string{}
		}
		props := e.Props
		if props == nil {
			props = map[string]string{}
		}
		out[i] = Entry{Path: e.Path, Params: params, Props: props}
	}
	return out
}
