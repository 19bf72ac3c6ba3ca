package objpipe

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// A Transport represents a connected, non-blocking duplex byte stream
// with an underlying file descriptor. Read and Write follow the usual io
// contracts except that either may fail with unix.EAGAIN when the
// descriptor is not ready; a Read returning 0, nil after a readable event
// means the peer has closed the connection.
type Transport interface {
	// Read reads up to len(p) bytes into p.
	Read(p []byte) (int, error)

	// Write writes up to len(p) bytes from p, returning how many were
	// accepted.
	Write(p []byte) (int, error)

	// Fd returns the underlying file descriptor, for readiness waits.
	Fd() int

	// Close closes the descriptor.
	Close() error
}

// fdTransport owns a raw non-blocking stream descriptor.
type fdTransport struct {
	fd int
}

// NewFdTransport wraps an already connected stream descriptor in a
// Transport. The descriptor is put into non-blocking mode and is owned by
// the transport from then on.
func NewFdTransport(fd int) (Transport, error) {
	if err := unix.SetNonblock(fd, true); err != nil {
		return nil, err
	}
	return &fdTransport{fd: fd}, nil
}

// Read implements part of the Transport interface.
func (t *fdTransport) Read(p []byte) (int, error) {
	n, err := unix.Read(t.fd, p)
	if n < 0 {
		n = 0
	}
	return n, err
}

// Write implements part of the Transport interface.
func (t *fdTransport) Write(p []byte) (int, error) {
	n, err := unix.Write(t.fd, p)
	if n < 0 {
		n = 0
	}
	return n, err
}

// Fd implements part of the Transport interface.
func (t *fdTransport) Fd() int { return t.fd }

// Close implements part of the Transport interface.
func (t *fdTransport) Close() error { return unix.Close(t.fd) }

// TransportFromConn adapts a connected socket owned by the net package,
// such as a *net.UnixConn or *net.TCPConn, by duplicating its descriptor.
// The conn remains open and keeps ownership of its own descriptor; the
// caller may close it once the pipe is constructed.
func TransportFromConn(conn syscall.Conn) (Transport, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return nil, err
	}
	var dup int
	var dupErr error
	if err := raw.Control(func(fd uintptr) {
		dup, dupErr = unix.Dup(int(fd))
	}); err != nil {
		return nil, err
	}
	if dupErr != nil {
		return nil, dupErr
	}
	return NewFdTransport(dup)
}
