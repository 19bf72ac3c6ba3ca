package objpipe

import (
	"time"

	"golang.org/x/sys/unix"
)

// pollMillis converts a remaining budget to the millisecond argument of
// poll(2): negative blocks, zero polls. Sub-millisecond budgets round up
// so a short positive timeout waits instead of spinning.
func pollMillis(d time.Duration) int {
	if d < 0 {
		return -1
	}
	ms := int(d / time.Millisecond)
	if ms == 0 && d > 0 {
		return 1
	}
	return ms
}

// waitReadable blocks until fd has data to read, the peer hangs up, or
// the timeout expires. A negative timeout blocks indefinitely; zero polls
// once without blocking. It reports whether the descriptor is ready.
func waitReadable(fd int, timeout time.Duration) (bool, error) {
	return waitReady(fd, unix.POLLIN, timeout)
}

// waitWritable blocks until fd can accept more output or the timeout
// expires, with the same timeout conventions as waitReadable.
func waitWritable(fd int, timeout time.Duration) (bool, error) {
	return waitReady(fd, unix.POLLOUT, timeout)
}

func waitReady(fd int, events int16, timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		fds := []unix.PollFd{{Fd: int32(fd), Events: events}}
		n, err := unix.Poll(fds, pollMillis(timeout))
		if err == unix.EINTR {
			if timeout >= 0 {
				timeout = max(time.Until(deadline), 0)
			}
			continue
		}
		if err != nil {
			return false, err
		}
		// Error and hangup conditions count as ready: the next read or
		// write surfaces the failure.
		return n > 0, nil
	}
}
