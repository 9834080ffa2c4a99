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
	"net/url"
	"sort"
	"strings"
)

const Scheme = "quarry"

// GenerateURL serializes the current location into a restorable
// quarry://path?k=v string. Params come before props, each group sorted by
// key, so the same location always yields the same string.
func (r *Router) GenerateURL() string {
	entry := r.Current()
	return EncodeURL(entry)
}

func EncodeURL(entry Entry) string {
	var b strings.Builder
	b.WriteString(Scheme)
	b.WriteString("://")
	b.WriteString(strings.TrimPrefix(entry.Path, "/"))

	pairs := make([]string, 0, len(entry.Params)+len(entry.Props))
	for _, m := range []map[string]string{entry.Params, entry.Props} {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(m[k]))
		}
	}

	if len(pairs) > 0 {
		b.WriteString("?")
		b.WriteString(strings.Join(pairs, "&"))
	}
	return b.String()
}

// ParseURL is the inverse of EncodeURL. Query keys on the route-param
// allow-list become params; everything else is a component prop. The path is
// not validated here; Navigate handles unknown paths.
func ParseURL(raw string) (Entry, error) {
	entry := Entry{Params: map[string]string{}, Props: map[string]string{}}

	rest := raw
	if idx := strings.Index(raw, "://"); idx >= 0 {
		rest = raw[idx+3:]
	}

	path := rest
	query := ""
	if idx := strings.Index(rest, "?"); idx >= 0 {
		path = rest[:idx]
		query = rest[idx+1:]
	}
	entry.Path = "/" + strings.Trim(path, "/")

	if query != "" {
		values, err := url.ParseQuery(query)
		if err != nil {
			return Entry{}, err
		}
		for k, vs := range values {
			if len(vs) == 0 {
				continue
			}
			if IsRouteParam(k) {
				entry.Params[k] = vs[0]
			} else {
				entry.Props[k] = vs[0]
			}
		}
	}

	return entry, nil
}
