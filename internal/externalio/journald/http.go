package journald

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// Writes journald export format byte payload to the journald-remote HTTP endpoint
func (mod *OutModule) sendJournalExport(ctx context.Context, payload []byte) (err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mod.url, bytes.NewReader(payload))
	if err != nil {
		err = fmt.Errorf("failed request creation: %w", err)
		return
	}

	req.Header.Set("Content-Type", "application/vnd.fdo.journal") // journald export format
	req.Header.Del("Expect")                                      // Unsupported by journal remote server (will cause errors if set)

	resp, err := mod.sink.Do(req)
	if err != nil {
		err = fmt.Errorf("failed HTTP request: %w", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = fmt.Errorf("received HTTP status '%s'", resp.Status)

		// Include response body if present for additional error details
		body, lerr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if lerr != nil {
			err = fmt.Errorf("%v: response body read failed: %v", err, lerr)
		} else if len(body) > 0 {
			err = fmt.Errorf("%v: %s", err, string(body))
		}
		return
	}

	return
}
