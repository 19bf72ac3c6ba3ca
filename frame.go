package objpipe

import "encoding/binary"

const (
	// frameHeaderLen is the size of the big-endian length prefix that
	// precedes every payload on the wire.
	frameHeaderLen = 4

	// maxFrameLen is the largest payload length representable in the
	// frame header.
	maxFrameLen = 0xFFFFFFFF
)

// A frameBuffer accumulates raw bytes read from the transport and yields
// complete length-prefixed payloads. Bytes belonging to an incomplete
// frame are retained until enough data arrives to finish it.
type frameBuffer struct {
	data []byte
}

// feed appends newly read bytes to the buffer.
func (b *frameBuffer) feed(p []byte) { b.data = append(b.data, p...) }

// buffered reports the number of bytes held.
func (b *frameBuffer) buffered() int { return len(b.data) }

// needed reports how many more bytes must arrive before the frame at the
// head of the buffer can complete. With an empty buffer this is the size
// of a bare header; with a complete frame buffered it is zero.
func (b *frameBuffer) needed() int {
	if len(b.data) < frameHeaderLen {
		return frameHeaderLen - len(b.data)
	}
	total := frameHeaderLen + int(binary.BigEndian.Uint32(b.data))
	if len(b.data) >= total {
		return 0
	}
	return total - len(b.data)
}

// next extracts and consumes the payload at the head of the buffer. It
// reports false when too few bytes have arrived; a payload is never
// partially returned.
func (b *frameBuffer) next() ([]byte, bool) {
	if len(b.data) < frameHeaderLen {
		return nil, false
	}
	n := int(binary.BigEndian.Uint32(b.data))
	if len(b.data) < frameHeaderLen+n {
		return nil, false
	}
	payload := make([]byte, n)
	copy(payload, b.data[frameHeaderLen:])
	b.data = b.data[:copy(b.data, b.data[frameHeaderLen+n:])]
	return payload, true
}
