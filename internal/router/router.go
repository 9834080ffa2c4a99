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
	"sync"

	"github.com/quarrylab/quarry/pkg/logger"
)

// Known page paths. Anything else renders the invalid page.
const (
	PathHome          = "/home"
	PathInstance      = "/instance"
	PathConsole       = "/console"
	PathNotifications = "/notifications"
	PathAccounts      = "/accounts"
	PathSettings      = "/settings"
	PathInvalid       = "/invalid"
)

// Route params are a fixed allow-list; every other key travels as a
// component prop.
var routeParamKeys = map[string]bool{
	"slug": true,
	"id":   true,
}

func IsRouteParam(key string) bool {
	return routeParamKeys[key]
}

// Each stack drops its oldest entry past this bound so a long-lived window
// cannot grow without limit.
const maxHistory = 100

type Entry struct {
	Path   string
	Params map[string]string
	Props  map[string]string
}

func (e Entry) clone() Entry {
	return Entry{Path: e.Path, Params: copyMap(e.Params), Props: copyMap(e.Props)}
}

func (e Entry) equal(other Entry) bool {
	return e.Path == other.Path && mapsEqual(e.Params, other.Params) && mapsEqual(e.Props, other.Props)
}

type Options struct {
	// Merge overlays Params/Props onto the current entry's instead of
	// replacing them.
	Merge  bool
	Params map[string]string
	Props  map[string]string
}

// Router is the in-memory page navigation engine for one page viewer. It is
// not a URL-bar router: locations live only here, and the serialized form
// exists for "copy URL" and the new-window handoff.
type Router struct {
	mu       sync.Mutex
	routes   map[string]bool
	current  Entry
	past     []Entry
	future   []Entry
	refetch  map[string]func()
	onChange []func()
	log      *logger.Logger
}

func New() *Router {
	r := &Router{
		routes:  make(map[string]bool),
		refetch: make(map[string]func()),
		log:     logger.With("ROUTER"),
	}
	for _, p := range []string{
		PathHome, PathInstance, PathConsole, PathNotifications,
		PathAccounts, PathSettings, PathInvalid,
	} {
		r.routes[p] = true
	}
	r.current = Entry{Path: PathHome, Params: map[string]string{}, Props: map[string]string{}}
	return r
}

// Navigate sets the current location. An unknown path lands on the invalid
// page rather than returning an error: a corrupted or user-supplied URL must
// never crash the viewer. Navigating to an entry identical to the current
// one is elided.
func (r *Router) Navigate(path string, opts *Options) {
	r.mu.Lock()

	requested := ""
	if !r.routes[path] {
		r.log.Warn("unknown path %q, showing invalid page", path)
		requested = path
		path = PathInvalid
	}

	next := Entry{Path: path, Params: map[string]string{}, Props: map[string]string{}}
	if opts != nil && opts.Merge {
		next.Params = copyMap(r.current.Params)
		next.Props = copyMap(r.current.Props)
	}
	if opts != nil {
		for k, v := range opts.Params {
			next.Params[k] = v
		}
		for k, v := range opts.Props {
			next.Props[k] = v
		}
	}
	if requested != "" {
		next.Props["requested"] = requested
	}

	if next.equal(r.current) {
		r.mu.Unlock()
		return
	}

	r.past = append(r.past, r.current)
	if len(r.past) > maxHistory {
		r.past = r.past[1:]
	}
	r.future = nil
	r.current = next
	r.mu.Unlock()

	r.notify()
}

// Backwards pops the newest past entry into current. No-op on empty past.
func (r *Router) Backwards() {
	r.mu.Lock()
	if len(r.past) == 0 {
		r.mu.Unlock()
		return
	}

	prev := r.past[len(r.past)-1]
	r.past = r.past[:len(r.past)-1]
	r.future = append([]Entry{r.current}, r.future...)
	if len(r.future) > maxHistory {
		r.future = r.future[:maxHistory]
	}
	r.current = prev
	r.mu.Unlock()

	r.notify()
}

// Forwards is the mirror of Backwards over the future stack.
func (r *Router) Forwards() {
	r.mu.Lock()
	if len(r.future) == 0 {
		r.mu.Unlock()
		return
	}

	next := r.future[0]
	r.future = r.future[1:]
	r.past = append(r.past, r.current)
	if len(r.past) > maxHistory {
		r.past = r.past[1:]
	}
	r.current = next
	r.mu.Unlock()

	r.notify()
}

func (r *Router) CanGoBack() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.past) > 0
}

func (r *Router) CanGoForward() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.future) > 0
}

func (r *Router) Current() Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.clone()
}

// RegisterRefetch binds a page's refresh callback, invoked by Reload when
// that page is current. The zero callback unbinds.
func (r *Router) RegisterRefetch(path string, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fn == nil {
		delete(r.refetch, path)
		return
	}
	r.refetch[path] = fn
}

// Reload re-runs the current page's registered refetch. A page without one
// makes this a logged no-op, not a failure.
func (r *Router) Reload() {
	r.mu.Lock()
	fn := r.refetch[r.current.Path]
	path := r.current.Path
	r.mu.Unlock()

	if fn == nil {
		r.log.Warn("no refetch registered for %s", path)
		return
	}
	fn()
}

// OnChange registers a listener fired after every successful navigation.
func (r *Router) OnChange(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = append(r.onChange, fn)
}

func (r *Router) notify() {
	r.mu.Lock()
	listeners := make([]func(), len(r.onChange))
	copy(listeners, r.onChange)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
