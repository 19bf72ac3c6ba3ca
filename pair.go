package objpipe

import "golang.org/x/sys/unix"

// Pair returns two connected pipes backed by an in-process socket pair.
// Both ends share the same options. The pipes can immediately exchange
// handshakes and frames without an external network, which makes Pair
// convenient for tests and for talking to a forked child process.
func Pair(opts *PipeOptions) (*Pipe, *Pipe, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, err
	}
	a, err := NewFdTransport(fds[0])
	if err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return nil, nil, err
	}
	b, err := NewFdTransport(fds[1])
	if err != nil {
		a.Close()
		unix.Close(fds[1])
		return nil, nil, err
	}
	return New(a, opts), New(b, opts), nil
}
