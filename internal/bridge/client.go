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

package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/quarrylab/quarry/internal/bridge/protocol"
	"github.com/quarrylab/quarry/internal/config"
	"github.com/quarrylab/quarry/pkg/helper"
	"github.com/quarrylab/quarry/pkg/logger"
)

const (
	HelloTimeout = 10 * time.Second
	PingInterval = 30 * time.Second
)

var (
	ErrNotConnected = errors.New("bridge not connected")
	ErrClosed       = errors.New("bridge closed")
)

// BackendError is the stringified error a command returns from quarryd.
type BackendError struct {
	Command string
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Message)
}

// Invoker fires a named command at the backend and awaits its single reply.
type Invoker interface {
	Invoke(ctx context.Context, command string, params interface{}) (json.RawMessage, error)
}

// Subscriber registers a handler for a pushed core:// event. The returned
// func removes the handler; callers must release it on teardown.
type Subscriber interface {
	Subscribe(event string, handler func(data json.RawMessage)) func()
}

type Bridge interface {
	Invoker
	Subscriber
}

type Client struct {
	cfg config.BackendConfig
	log *logger.Logger

	mu        sync.Mutex
	conn      *connection
	started   bool
	done      chan struct{}
	pending   map[string]chan protocol.ResultPayload
	subs      map[string]map[int]func(json.RawMessage)
	nextSubID int
}

func NewClient(cfg config.BackendConfig) *Client {
	return &Client{
		cfg:     cfg,
		log:     logger.With("BRIDGE"),
		pending: make(map[string]chan protocol.ResultPayload),
		subs:    make(map[string]map[int]func(json.RawMessage)),
	}
}

// Connect dials quarryd and performs the HELLO handshake. It is idempotent:
// a second call while connected is a no-op, so re-initialization attempts
// cannot double-register the read loop.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.done = make(chan struct{})
	c.mu.Unlock()

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	dialer := net.Dialer{Timeout: time.Duration(c.cfg.ConnectTimeout) * time.Second}

	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		c.reset()
		return fmt.Errorf("dial backend: %w", err)
	}

	conn := newConnection(netConn)
	if err := c.hello(conn); err != nil {
		conn.Close()
		c.reset()
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.readLoop(conn)
	go c.pingLoop(conn)

	c.log.Info("connected to quarryd at %s", addr)
	return nil
}

func (c *Client) reset() {
	c.mu.Lock()
	c.started = false
	c.conn = nil
	c.mu.Unlock()
}

func (c *Client) hello(conn *connection) error {
	msg, err := protocol.NewMessage(protocol.TypeHello, protocol.HelloPayload{
		Client:  "quarry",
		Version: "1.0.0",
	})
	if err != nil {
		return err
	}
	if err := conn.Send(msg); err != nil {
		return fmt.Errorf("send hello: %w", err)
	}

	reply, err := conn.ReceiveWithTimeout(HelloTimeout)
	if err != nil {
		return fmt.Errorf("receive hello reply: %w", err)
	}

	switch reply.Type {
	case protocol.TypeHelloOK:
		return nil
	case protocol.TypeHelloFail:
		var fail protocol.HelloFailPayload
		reply.Decode(&fail)
		return fmt.Errorf("backend rejected handshake: %s", fail.Reason)
	default:
		return fmt.Errorf("expected HELLO_OK, got %s", reply.Type)
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return nil
	}
	c.started = false
	conn := c.conn
	c.conn = nil
	// Pending channels are left open: the read loop may still be holding
	// one for a send. In-flight Invokes unblock via done and each cleans
	// its own entry out of the map.
	close(c.done)
	c.mu.Unlock()

	if conn != nil {
		conn.Send(protocol.Disconnect())
		return conn.Close()
	}
	return nil
}

// Invoke sends a named command and blocks until the correlated RESULT
// arrives, the context is done, or the invoke timeout passes.
func (c *Client) Invoke(ctx context.Context, command string, params interface{}) (json.RawMessage, error) {
	c.mu.Lock()
	conn := c.conn
	done := c.done
	if conn == nil {
		c.mu.Unlock()
		return nil, ErrNotConnected
	}
	id := helper.GenerateID()
	ch := make(chan protocol.ResultPayload, 1)
	c.pending[id] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	var raw json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal params: %w", err)
		}
		raw = data
	}

	msg, err := protocol.NewMessage(protocol.TypeCommand, protocol.CommandPayload{
		ID:     id,
		Name:   command,
		Params: raw,
	})
	if err != nil {
		return nil, err
	}
	if err := conn.Send(msg); err != nil {
		return nil, fmt.Errorf("send command %s: %w", command, err)
	}

	timeout := time.Duration(c.cfg.InvokeTimeout) * time.Second
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-ch:
		if !result.OK {
			return nil, &BackendError{Command: command, Message: result.Error}
		}
		return result.Data, nil
	case <-done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, fmt.Errorf("command %s timed out after %s", command, timeout)
	}
}

func (c *Client) Subscribe(event string, handler func(data json.RawMessage)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.subs[event] == nil {
		c.subs[event] = make(map[int]func(json.RawMessage))
	}
	c.nextSubID++
	id := c.nextSubID
	c.subs[event][id] = handler

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if handlers, ok := c.subs[event]; ok {
			delete(handlers, id)
			if len(handlers) == 0 {
				delete(c.subs, event)
			}
		}
	}
}

func (c *Client) readLoop(conn *connection) {
	for {
		select {
		case <-c.done:
			return
		default:
			msg, err := conn.Receive()
			if err != nil {
				if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
					continue
				}
				select {
				case <-c.done:
				default:
					c.log.Error("read loop: %v", err)
				}
				return
			}
			c.processMessage(conn, msg)
		}
	}
}

func (c *Client) processMessage(conn *connection, msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeResult:
		var result protocol.ResultPayload
		if err := msg.Decode(&result); err != nil {
			c.log.Warn("dropping malformed result: %v", err)
			return
		}
		c.mu.Lock()
		ch, ok := c.pending[result.ID]
		c.mu.Unlock()
		if ok {
			ch <- result
		}

	case protocol.TypeEvent:
		var event protocol.EventPayload
		if err := msg.Decode(&event); err != nil {
			c.log.Warn("dropping malformed event: %v", err)
			return
		}
		c.dispatchEvent(event)

	case protocol.TypePing:
		conn.Send(protocol.Pong())

	case protocol.TypeDisconnect:
		c.log.Info("backend requested disconnect")
		conn.Close()

	case protocol.TypeError:
		var errPayload protocol.ErrorPayload
		msg.Decode(&errPayload)
		c.log.Error("backend error %d: %s", errPayload.Code, errPayload.Message)
	}
}

func (c *Client) dispatchEvent(event protocol.EventPayload) {
	c.mu.Lock()
	handlers := make([]func(json.RawMessage), 0, len(c.subs[event.Name]))
	for _, h := range c.subs[event.Name] {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(event.Data)
	}
}

func (c *Client) pingLoop(conn *connection) {
	ticker := time.NewTicker(PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if conn.IsClosed() {
				return
			}
			conn.Send(protocol.Ping())
		}
	}
}
