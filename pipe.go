package objpipe

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/objpipe/objpipe/codec"
)

// Forever may be passed to RecvObject to block without a timeout. Any
// negative duration has the same effect.
const Forever time.Duration = -1

// A Pipe exchanges whole Go values with a peer over a duplex byte stream.
// Values are serialized by the pipe's codec and carried in frames with a
// 4-byte big-endian length prefix. The first byte sent in each direction
// is a one-time version handshake; the effective version is the minimum
// of the two announcements.
//
// The methods of a Pipe are not safe for concurrent use: concurrent
// receivers would race on the shared frame buffer. Callers needing to
// share a pipe must serialize access themselves.
type Pipe struct {
	tr  Transport
	cdc codec.Codec
	log zerolog.Logger

	buf        frameBuffer
	closed     bool
	local      int  // version announced to the peer
	version    int  // negotiated version, valid once handshaken is set
	sent       bool // local version byte has been written
	handshaken bool
}

// PipeOptions control the behaviour of a pipe created by New. A nil
// *PipeOptions provides sensible defaults.
type PipeOptions struct {
	// Codec used to serialize and deserialize objects. If nil, the
	// general-purpose gob codec is used.
	Codec codec.Codec

	// If positive, announce this version during the handshake instead of
	// the codec's own version. The negotiated version is still the
	// minimum of the two sides' announcements. Values must fit the
	// 1-byte handshake, 1..255.
	Version int

	// If not nil, handshake results, closes, and transport failures are
	// logged here at debug level.
	Logger *zerolog.Logger
}

func (o *PipeOptions) codec() codec.Codec {
	if o == nil || o.Codec == nil {
		return codec.NewGob()
	}
	return o.Codec
}

func (o *PipeOptions) logger() zerolog.Logger {
	if o == nil || o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

func (o *PipeOptions) localVersion(c codec.Codec) int {
	if o == nil || o.Version <= 0 {
		return c.Version()
	}
	return o.Version
}

// New wraps a connected transport in a Pipe. The pipe takes ownership of
// the transport: closing the pipe closes the transport.
func New(t Transport, opts *PipeOptions) *Pipe {
	c := opts.codec()
	return &Pipe{
		tr:    t,
		cdc:   c,
		log:   opts.logger(),
		local: opts.localVersion(c),
	}
}

// SendObject serializes obj and transmits it to the peer as one frame.
// The first call on a fresh pipe completes the version handshake before
// any frame is written. SendObject blocks until the frame has been fully
// written or the transport fails; there is no timeout.
//
// Serialization failures are reported as *EncodeError and payloads whose
// size exceeds the frame limit as *TooLargeError; in both cases nothing
// is written and the pipe stays open. Transport failures are reported as
// ErrPipeClosed and close the pipe.
func (p *Pipe) SendObject(obj any) error {
	if err := p.handshake(); err != nil {
		return err
	}
	payload, err := p.cdc.Encode(obj)
	if err != nil {
		return &EncodeError{Err: err}
	}
	if uint64(len(payload)) > maxFrameLen {
		return &TooLargeError{Size: uint64(len(payload))}
	}
	frame := make([]byte, frameHeaderLen+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[frameHeaderLen:], payload)
	if err := p.writeAll(frame); err != nil {
		return p.fail(err)
	}
	return nil
}

// RecvObject receives the next frame from the peer and decodes it into
// obj, which must be a pointer to a value of a type compatible with the
// pipe's codec. The timeout bounds the total wall-clock time spent
// waiting for the frame to complete: Forever (or any negative duration)
// blocks indefinitely, zero polls once without blocking, and a positive
// duration is a budget shared across however many reads the frame needs.
// The handshake, if it has not yet run, is not charged against the
// timeout.
//
// An expired timeout is reported as ErrPipeTimeout; buffered bytes of an
// incomplete frame are retained for the next call. A payload the codec
// rejects is reported as *DecodeError and leaves the pipe open, since the
// frame's bytes were already consumed from the stream. A closed or broken
// transport is reported as ErrPipeClosed and closes the pipe.
func (p *Pipe) RecvObject(obj any, timeout time.Duration) error {
	if err := p.handshake(); err != nil {
		return err
	}
	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		if payload, ok := p.buf.next(); ok {
			if err := p.cdc.Decode(payload, obj); err != nil {
				return &DecodeError{Err: err}
			}
			return nil
		}

		remaining := Forever
		if timeout >= 0 {
			remaining = max(time.Until(deadline), 0)
		}
		ready, err := waitReadable(p.tr.Fd(), remaining)
		if err != nil {
			return p.fail(err)
		}
		if !ready {
			return ErrPipeTimeout
		}
		if err := p.fill(); err != nil {
			return p.fail(err)
		}
	}
}

// Close closes the pipe and the transport it owns. It is idempotent and
// safe to call as cleanup after any failure.
func (p *Pipe) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.log.Debug().Msg("pipe closed")
	return p.tr.Close()
}

// Closed reports whether the pipe has been closed, either explicitly or
// after a transport failure. No further I/O is attempted once true.
func (p *Pipe) Closed() bool { return p.closed }

// Fd returns the transport's file descriptor, for integration with
// external readiness multiplexers. The value is meaningless after Close.
func (p *Pipe) Fd() int { return p.tr.Fd() }

// Version returns the protocol version negotiated with the peer. It
// reports false until the handshake has completed.
func (p *Pipe) Version() (int, bool) {
	if !p.handshaken {
		return 0, false
	}
	return p.version, true
}

// handshake exchanges one version byte with the peer and fixes the
// effective version at the minimum of the two announcements. It runs at
// most once, triggered by the first send or receive, and blocks without a
// timeout until the peer announces.
func (p *Pipe) handshake() error {
	if p.closed {
		return ErrPipeClosed
	}
	if p.handshaken {
		return nil
	}
	if !p.sent {
		if err := p.writeAll([]byte{byte(p.local)}); err != nil {
			return p.fail(err)
		}
		p.sent = true
	}
	peer, err := p.readByte()
	if err != nil {
		return p.fail(err)
	}
	p.version = min(p.local, int(peer))
	p.handshaken = true
	p.log.Debug().
		Int("local", p.local).
		Int("peer", int(peer)).
		Int("version", p.version).
		Msg("handshake complete")
	return nil
}

// readByte reads the peer's single handshake byte, blocking until it
// arrives or the transport fails. Exactly one byte is consumed, so any
// frame data the peer sent after its announcement is left for the frame
// buffer.
func (p *Pipe) readByte() (byte, error) {
	var b [1]byte
	for {
		ready, err := waitReadable(p.tr.Fd(), Forever)
		if err != nil {
			return 0, err
		}
		if !ready {
			continue
		}
		n, err := p.tr.Read(b[:])
		if err == unix.EAGAIN || err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, io.EOF
		}
		return b[0], nil
	}
}

// fill reads from the transport into the frame buffer, asking for exactly
// the bytes still missing from the frame at the head of the buffer. A
// zero-byte read here follows a readable event, so it means the peer
// closed the connection.
func (p *Pipe) fill() error {
	chunk := make([]byte, p.buf.needed())
	n, err := p.tr.Read(chunk)
	if err == unix.EAGAIN || err == unix.EINTR {
		return nil
	}
	if err != nil {
		return err
	}
	if n == 0 {
		return io.EOF
	}
	p.buf.feed(chunk[:n])
	return nil
}

// writeAll writes all of data, waiting for write readiness between
// partial writes. There is no timeout: it returns only when every byte
// has been accepted or the transport fails.
func (p *Pipe) writeAll(data []byte) error {
	for len(data) > 0 {
		n, err := p.tr.Write(data)
		switch {
		case err == unix.EAGAIN:
			if _, werr := waitWritable(p.tr.Fd(), Forever); werr != nil {
				return werr
			}
		case err == unix.EINTR:
			// retry
		case err != nil:
			return err
		case n == 0:
			return io.ErrClosedPipe
		default:
			data = data[n:]
		}
	}
	return nil
}

// fail closes the pipe after a transport-level failure and reports
// ErrPipeClosed. Subsequent calls on the pipe fail the same way.
func (p *Pipe) fail(err error) error {
	p.log.Debug().Err(err).Msg("transport failed")
	p.Close()
	return ErrPipeClosed
}
