package protocol

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	header := EncodeHeader(TypeCommand, 1234)
	require.Len(t, header, HeaderSize)

	msgType, payloadLen, err := DecodeHeader(header)
	require.NoError(t, err)
	assert.Equal(t, TypeCommand, msgType)
	assert.Equal(t, uint32(1234), payloadLen)
}

func TestDecodeHeaderRejectsBadMagic(t *testing.T) {
	header := EncodeHeader(TypeEvent, 0)
	header[0] = 0xFF

	_, _, err := DecodeHeader(header)
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestDecodeHeaderRejectsUnknownVersion(t *testing.T) {
	header := EncodeHeader(TypeEvent, 0)
	header[2] = Version + 1

	_, _, err := DecodeHeader(header)
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestDecodeHeaderRejectsOversizePayload(t *testing.T) {
	header := EncodeHeader(TypeEvent, 0)
	binary.BigEndian.PutUint32(header[4:], MaxPayloadSize+1)

	_, _, err := DecodeHeader(header)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestDecodeHeaderRejectsShortHeader(t *testing.T) {
	_, _, err := DecodeHeader([]byte{MagicByte1, MagicByte2})
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestMessageEncodeFramesPayload(t *testing.T) {
	msg, err := NewMessage(TypeCommand, CommandPayload{ID: "c1", Name: "list_instances"})
	require.NoError(t, err)

	data := msg.Encode()
	msgType, payloadLen, err := DecodeHeader(data[:HeaderSize])
	require.NoError(t, err)
	assert.Equal(t, TypeCommand, msgType)
	assert.Equal(t, int(payloadLen), len(data)-HeaderSize)

	var decoded CommandPayload
	parsed := &Message{Type: msgType, Payload: data[HeaderSize:]}
	require.NoError(t, parsed.Decode(&decoded))
	assert.Equal(t, "c1", decoded.ID)
	assert.Equal(t, "list_instances", decoded.Name)
}

func TestControlMessagesHaveNoPayload(t *testing.T) {
	for _, msg := range []*Message{Ping(), Pong(), Disconnect()} {
		data := msg.Encode()
		assert.Len(t, data, HeaderSize)
	}
}
