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

package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/quarrylab/quarry/internal/router"
	"github.com/quarrylab/quarry/pkg/helper"
	"github.com/quarrylab/quarry/pkg/logger"
)

// NavigationSink receives the parsed destination of a deep link. The TUI
// provides one that feeds its router; unknown paths resolve to /invalid
// there, not here.
type NavigationSink func(entry router.Entry)

type DeepLinkHandler struct {
	sink NavigationSink
}

func NewDeepLinkHandler(sink NavigationSink) *DeepLinkHandler {
	return &DeepLinkHandler{sink: sink}
}

type openRequest struct {
	URL string `json:"url"`
}

func (h *DeepLinkHandler) Handle(w http.ResponseWriter, r *http.Request) {
	logger.Info("[DEEPLINK] Received open request from %s", r.RemoteAddr)

	r.Body = http.MaxBytesReader(w, r.Body, 64*1024)

	var req openRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("[DEEPLINK] Failed to decode body: %v", err)
		helper.WriteError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	if !strings.HasPrefix(req.URL, router.Scheme+"://") {
		logger.Warn("[DEEPLINK] Rejected url with wrong scheme: %q", req.URL)
		helper.WriteError(w, http.StatusBadRequest, "unsupported url scheme")
		return
	}

	entry, err := router.ParseURL(req.URL)
	if err != nil {
		logger.Warn("[DEEPLINK] Unparseable url %q: %v", req.URL, err)
		helper.WriteError(w, http.StatusBadRequest, "malformed url")
		return
	}

	h.sink(entry)
	helper.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "path": entry.Path})
}

func Health(w http.ResponseWriter, r *http.Request) {
	helper.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
