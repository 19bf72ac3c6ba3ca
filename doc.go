/*
Package objpipe implements a duplex, message-oriented pipe over a raw
byte-stream socket. Two endpoints exchange whole Go values rather than
bytes: each value is serialized by a pluggable codec and carried in a
frame with a 4-byte big-endian length prefix, so callers never deal with
partial reads, partial writes, or payload encoding.

# Pipes

A *Pipe wraps a connected Transport together with a codec:

	tr, err := objpipe.TransportFromConn(conn)
	...
	p := objpipe.New(tr, nil) // nil options select the gob codec

The first send or receive on a pipe performs a one-time handshake: each
side announces its codec version as a single byte, and both converge on
the minimum of the two announcements. After that, SendObject transmits
one frame per call and RecvObject assembles exactly one frame, bounded by
an overall timeout:

	if err := p.SendObject(req); err != nil { ... }

	var resp Response
	err := q.RecvObject(&resp, 5*time.Second)

Failures are distinguishable: ErrPipeClosed means the transport is gone
and the pipe has shut down; ErrPipeTimeout, *DecodeError, *EncodeError
and *TooLargeError are per-call outcomes that leave the pipe usable.

# Codecs

The codec subpackage provides two implementations of its Codec interface:
a general-purpose gob codec that handles most Go object graphs, and a
compact CBOR codec for data-shaped values. A codec is chosen per pipe via
PipeOptions; both ends should agree on the codec family, while format
versions are reconciled by the handshake.

# Pairs

Pair returns two pipes joined by an in-process socket pair, ready to
exchange frames with no external network:

	a, b, err := objpipe.Pair(nil)

A Pipe is synchronous and single-threaded by design: it runs no
background goroutines, and its methods are not safe for concurrent use
without external locking.
*/
package objpipe
