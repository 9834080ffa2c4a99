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

package protocol

import (
	"encoding/json"
)

type Message struct {
	Type    MessageType
	Payload []byte
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	var data []byte
	var err error

	if payload != nil {
		data, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}

	return &Message{
		Type:    msgType,
		Payload: data,
	}, nil
}

func (m *Message) Decode(v interface{}) error {
	if len(m.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}

func (m *Message) Encode() []byte {
	header := EncodeHeader(m.Type, uint32(len(m.Payload)))
	result := make([]byte, HeaderSize+len(m.Payload))
	copy(result[:HeaderSize], header)
	copy(result[HeaderSize:], m.Payload)
	return result
}

type HelloPayload struct {
	Client  string `json:"client"`
	Version string `json:"version"`
}

type HelloOKPayload struct {
	ServerVersion string `json:"server_version"`
}

type HelloFailPayload struct {
	Reason string `json:"reason"`
}

// CommandPayload is a request/response call; ID correlates the RESULT the
// backend sends back.
type CommandPayload struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Params json.RawMessage `json:"params,omitempty"`
}

type ResultPayload struct {
	ID    string          `json:"id"`
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// EventPayload is a backend push; Name is a core:// event name and Data is
// event-specific.
type EventPayload struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data,omitempty"`
}

type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func Ping() *Message {
	return &Message{Type: TypePing}
}

func Pong() *Message {
	return &Message{Type: TypePong}
}

func Disconnect() *Message {
	return &Message{Type: TypeDisconnect}
}
