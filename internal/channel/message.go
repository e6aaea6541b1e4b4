// Package channel implements the loopback control channel that hands a
// script to the local listener process.
package channel

import (
	"encoding/binary"
	"errors"
	"math"
)

const (
	// HeaderSize 固定头部长度
	HeaderSize = 16
	// lengthOffset 头部中长度字段的偏移，字段为 4 字节小端
	lengthOffset = 8
)

// ErrPayloadTooLarge payload 加终止符超出 uint32 范围
var ErrPayloadTooLarge = errors.New("script is too large to send")

// Message 一条完整的帧: header + payload + 0x00
type Message struct {
	header  [HeaderSize]byte
	payload []byte
}

// frameLength 计算长度字段 (payload + 终止符)
func frameLength(n uint64) (uint32, error) {
	if n >= math.MaxUint32 {
		return 0, ErrPayloadTooLarge
	}
	return uint32(n + 1), nil
}

// NewMessage 构造帧，超长时在任何 I/O 之前失败
func NewMessage(payload []byte) (*Message, error) {
	length, err := frameLength(uint64(len(payload)))
	if err != nil {
		return nil, err
	}
	m := &Message{payload: payload}
	binary.LittleEndian.PutUint32(m.header[lengthOffset:lengthOffset+4], length)
	return m, nil
}

// Header returns a copy of the 16 byte header.
func (m *Message) Header() [HeaderSize]byte { return m.header }

// Payload returns the raw script bytes without the terminator.
func (m *Message) Payload() []byte { return m.payload }

// Length is the value carried in the header: len(payload)+1.
func (m *Message) Length() uint32 {
	return binary.LittleEndian.Uint32(m.header[lengthOffset : lengthOffset+4])
}

// Len is the number of bytes the message occupies on the wire.
func (m *Message) Len() int {
	return HeaderSize + len(m.payload) + 1
}

// Bytes 返回完整线上字节
func (m *Message) Bytes() []byte {
	buf := make([]byte, 0, m.Len())
	buf = append(buf, m.header[:]...)
	buf = append(buf, m.payload...)
	return append(buf, 0)
}
