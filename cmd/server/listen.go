package main

import (
	"fmt"
	"net"
	"strconv"
)

const maxPortAttempts = 20

// listen binds the preferred port, moving up to the next free one when it is
// taken.
func listen(preferred string, attempts int) (net.Listener, error) {
	port, err := strconv.Atoi(preferred)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", preferred, err)
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		l, err := net.Listen("tcp", ":"+strconv.Itoa(port+i))
		if err == nil {
			return l, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("no free port in %d-%d: %w", port, port+attempts-1, lastErr)
}

func portOf(l net.Listener) string {
	if addr, ok := l.Addr().(*net.TCPAddr); ok {
		return strconv.Itoa(addr.Port)
	}
	return ""
}
