package objpipe

import (
	"errors"
	"fmt"
)

// ErrPipeClosed is reported when the transport underlying a pipe is closed
// or broken. Once a call fails this way the pipe is closed, and all
// further calls fail the same way.
var ErrPipeClosed = errors.New("pipe is closed")

// ErrPipeTimeout is reported by RecvObject when its timeout elapses before
// a complete frame arrives. The pipe stays open and any partially buffered
// bytes are retained for the next call.
var ErrPipeTimeout = errors.New("receive timed out")

// A DecodeError reports that the codec rejected a structurally complete
// payload. The pipe stays open: the frame's byte count was already
// consumed, so the stream framing is unaffected.
type DecodeError struct {
	Err error // the codec's decode failure
}

// Error renders e to a human-readable string for the error interface.
func (e *DecodeError) Error() string { return "decode payload: " + e.Err.Error() }

// Unwrap returns the underlying codec error.
func (e *DecodeError) Unwrap() error { return e.Err }

// An EncodeError reports that the codec could not serialize an outgoing
// object. Nothing is written to the transport and the pipe stays open.
type EncodeError struct {
	Err error // the codec's encode failure
}

// Error renders e to a human-readable string for the error interface.
func (e *EncodeError) Error() string { return "encode object: " + e.Err.Error() }

// Unwrap returns the underlying codec error.
func (e *EncodeError) Unwrap() error { return e.Err }

// A TooLargeError reports an outgoing object whose encoded size cannot be
// represented in the 4-byte frame length prefix. Nothing is written to the
// transport and the pipe stays open.
type TooLargeError struct {
	Size uint64 // encoded size of the rejected object, in bytes
}

// Error renders e to a human-readable string for the error interface.
func (e *TooLargeError) Error() string {
	return fmt.Sprintf("encoded object is too large: %d bytes exceeds the frame limit of %d", e.Size, maxFrameLen)
}
