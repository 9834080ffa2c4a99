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

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/quarrylab/quarry/internal/api/handlers"
	"github.com/quarrylab/quarry/internal/api/middleware"
	"github.com/quarrylab/quarry/internal/config"
	"github.com/quarrylab/quarry/pkg/logger"
)

// Server is the loopback deep-link listener: the OS quarry:// protocol
// handler POSTs here to reach an already-running window.
type Server struct {
	cfg        *config.Config
	sink       handlers.NavigationSink
	httpServer *http.Server
}

func NewServer(cfg *config.Config, sink handlers.NavigationSink) *Server {
	return &Server{cfg: cfg, sink: sink}
}

func (s *Server) Start() error {
	router := s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.DeepLink.Host, s.cfg.DeepLink.Port),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("[DEEPLINK] Listener on %s:%d", s.cfg.DeepLink.Host, s.cfg.DeepLink.Port)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("[DEEPLINK] Error: %v", err)
		}
	}()

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Server) setupRoutes() http.Handler {
	r := mux.NewRouter()
	deepLinkHandler := handlers.NewDeepLinkHandler(s.sink)
	r.HandleFunc("/open", deepLinkHandler.Handle).Methods("POST")
	r.HandleFunc("/healthz", handlers.Health).Methods("GET")
	return middleware.Recovery(middleware.Logging(r))
}
