package lifecycle

import (
	"context"
	"net"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

type mockDaemon struct {
	shutdowns atomic.Int32
}

func (daemon *mockDaemon) Shutdown() {
	daemon.shutdowns.Add(1)
}

func listenNotifySocket(t *testing.T) (conn *net.UnixConn) {
	t.Helper()
	sockPath := filepath.Join(t.TempDir(), "notify.sock")
	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: sockPath, Net: "unixgram"})
	if err != nil {
		t.Fatalf("failed to listen on notify socket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	t.Setenv(notifySocketEnv, sockPath)
	return
}

func readNotification(t *testing.T, conn *net.UnixConn) (msg string) {
	t.Helper()
	buf := make([]byte, 512)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("failed to read notification: %v", err)
	}
	msg = string(buf[:n])
	return
}

func TestNotify(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name           string
		send           func(context.Context) error
		expectedPrefix string
	}{
		{name: "ready", send: NotifyReady, expectedPrefix: "READY=1"},
		{name: "stopping", send: NotifyStopping, expectedPrefix: "STOPPING=1\nMONOTONIC_USEC="},
		{
			name:           "status",
			send:           func(ctx context.Context) error { return NotifyStatus(ctx, "draining") },
			expectedPrefix: "STATUS=draining",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := listenNotifySocket(t)

			if err := tt.send(ctx); err != nil {
				t.Fatalf("unexpected notify error: %v", err)
			}
			msg := readNotification(t, conn)
			if !strings.HasPrefix(msg, tt.expectedPrefix) {
				t.Fatalf("expected message starting with %q, got %q", tt.expectedPrefix, msg)
			}
		})
	}
}

func TestNotify_NoSocket(t *testing.T) {
	t.Setenv(notifySocketEnv, "")
	if err := NotifyReady(context.Background()); err != nil {
		t.Fatalf("expected no error without notify socket, got %v", err)
	}
}

func TestMonotonicUsec(t *testing.T) {
	first, err := monotonicUsec()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	second, err := monotonicUsec()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second <= first {
		t.Fatalf("expected monotonic clock to advance, got %d then %d", first, second)
	}
}

func TestSignalHandler(t *testing.T) {
	t.Setenv(notifySocketEnv, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	daemon := &mockDaemon{}
	done := make(chan struct{})
	go func() {
		SignalHandler(ctx, daemon)
		close(done)
	}()

	// Give signal.Notify time to register
	time.Sleep(50 * time.Millisecond)
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGHUP); err != nil {
		t.Fatalf("failed to send signal: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("signal handler did not return")
	}
	if got := daemon.shutdowns.Load(); got != 1 {
		t.Fatalf("expected 1 shutdown, got %d", got)
	}
}

func TestSignalHandler_ContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	daemon := &mockDaemon{}
	done := make(chan struct{})
	go func() {
		SignalHandler(ctx, daemon)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("signal handler did not return after cancel")
	}
	if got := daemon.shutdowns.Load(); got != 0 {
		t.Fatalf("expected no shutdown, got %d", got)
	}
}
