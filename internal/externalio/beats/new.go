package beats

import (
	"fmt"
	"time"

	lumberjack "github.com/elastic/go-lumber/client/v2"
)

// Creates new beats (lumberjack) output module and connects. Returns nil nil if no endpoint.
func NewOutput(endpoint string, timeout time.Duration, compressionLevel int, facility string) (module *OutModule, err error) {
	if endpoint == "" {
		return
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	new := &OutModule{
		endpoint:    endpoint,
		timeout:     timeout,
		compression: compressionLevel,
		facility:    facility,
	}
	err = new.connect()
	if err != nil {
		return
	}

	module = new
	return
}

// Dials the server if not already connected. Caller holds the lock (or owns the module).
func (mod *OutModule) connect() (err error) {
	if mod.sink != nil {
		return
	}

	compression := lumberjack.CompressionLevel(mod.compression)
	timeout := lumberjack.Timeout(mod.timeout)

	ljClient, err := lumberjack.SyncDial(mod.endpoint, compression, timeout)
	if err != nil {
		err = fmt.Errorf("failed connection to beats server: %w", err)
		return
	}
	mod.sink = ljClient
	return
}
