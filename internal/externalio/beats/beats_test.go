package beats

import (
	"context"
	"logshipper/internal/record"
	"net"
	"testing"
	"time"

	"github.com/elastic/go-lumber/lj"
	server "github.com/elastic/go-lumber/server/v2"
)

func startServer(t *testing.T) (srv *server.Server, addr string) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	srv, err = server.NewWithListener(listener)
	if err != nil {
		t.Fatalf("failed to start lumberjack server: %v", err)
	}
	t.Cleanup(func() { srv.Close() })
	addr = listener.Addr().String()
	return
}

func TestOutModule_Deliver(t *testing.T) {
	srv, addr := startServer(t)

	received := make(chan *lj.Batch, 1)
	go func() {
		batch := <-srv.ReceiveChan()
		batch.ACK()
		received <- batch
	}()

	mod, err := NewOutput(addr, 2*time.Second, 0, "local0")
	if err != nil {
		t.Fatalf("unexpected error creating output: %v", err)
	}
	defer mod.Close()

	ts := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	batch := record.Batch{
		{Message: "first", Severity: record.Error, Timestamp: ts},
		{Message: "second", Severity: record.Error, Timestamp: ts},
	}
	if err := mod.Deliver(context.Background(), batch); err != nil {
		t.Fatalf("unexpected deliver error: %v", err)
	}

	select {
	case got := <-received:
		if len(got.Events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(got.Events))
		}
		event, ok := got.Events[0].(map[string]interface{})
		if !ok {
			t.Fatalf("expected map event, got %T", got.Events[0])
		}
		if event["message"] != "first" {
			t.Fatalf("expected first message, got %v", event["message"])
		}
		logField := event["log"].(map[string]interface{})
		if logField["level"] != "ERROR" {
			t.Fatalf("expected level ERROR, got %v", logField["level"])
		}
		syslogField := logField["syslog"].(map[string]interface{})
		// JSON numbers decode as float64
		if syslogField["priority"] != float64(16*8+3) {
			t.Fatalf("expected priority %d, got %v", 16*8+3, syslogField["priority"])
		}
		severityField := syslogField["severity"].(map[string]interface{})
		if severityField["name"] != "err" {
			t.Fatalf("expected severity name err, got %v", severityField["name"])
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for batch at server")
	}
}

func TestNewOutput(t *testing.T) {
	mod, err := NewOutput("", time.Second, 0, "user")
	if mod != nil || err != nil {
		t.Fatalf("expected nil module and nil error for empty endpoint, got %v %v", mod, err)
	}

	// Nothing listening
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := listener.Addr().String()
	listener.Close()

	if _, err := NewOutput(addr, 200*time.Millisecond, 0, "user"); err == nil {
		t.Fatalf("expected connection error")
	}
}
