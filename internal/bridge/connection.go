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
	"net"
	"sync"
	"time"

	"github.com/quarrylab/quarry/internal/bridge/protocol"
)

type connection struct {
	conn      net.Conn
	reader    *protocol.Reader
	writer    *protocol.Writer
	connected time.Time
	mu        sync.Mutex
	closed    bool
}

func newConnection(conn net.Conn) *connection {
	return &connection{
		conn:      conn,
		reader:    protocol.NewReader(conn),
		writer:    protocol.NewWriter(conn),
		connected: time.Now(),
	}
}

func (c *connection) Send(msg *protocol.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return net.ErrClosed
	}

	return c.writer.WriteWithTimeout(msg, 10*time.Second)
}

func (c *connection) Receive() (*protocol.Message, error) {
	return c.reader.Read()
}

func (c *connection) ReceiveWithTimeout(timeout time.Duration) (*protocol.Message, error) {
	return c.reader.ReadWithTimeout(timeout)
}

func (c *connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	return c.conn.Close()
}

func (c *connection) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
