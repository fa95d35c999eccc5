// Listening sockets
package network

import (
	"context"
	"fmt"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// Creates new TCP listener that can share its port with other listeners (SO_REUSEADDR and SO_REUSEPORT)
func ListenReusable(ctx context.Context, addr string) (listener net.Listener, err error) {
	// Using x/sys/unix package for more up-to-date syscall numbers
	cfg := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) (err error) {
			ctrlErr := c.Control(func(fd uintptr) {
				err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
				if err != nil {
					return
				}

				// Allow multiple active listeners
				err = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
			if ctrlErr != nil {
				err = ctrlErr
			}
			return
		},
	}

	listener, err = cfg.Listen(ctx, "tcp", addr)
	if err != nil {
		err = fmt.Errorf("failed to listen on %s: %w", addr, err)
		return
	}
	return
}
