package httpingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"logshipper/internal/record"
	"net/http"
)

// Posts the batch as one put-logs document. Any non-2xx response is a failed delivery.
func (mod *OutModule) Deliver(ctx context.Context, batch record.Batch) (err error) {
	if mod == nil {
		return
	}

	body, err := mod.encodeBody(mod.buildPayload(batch))
	if err != nil {
		return
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, mod.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mod.url, bytes.NewReader(body))
	if err != nil {
		err = fmt.Errorf("failed request creation: %w", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if mod.compression != CompressionNone {
		req.Header.Set("Content-Encoding", mod.compression)
	}
	if mod.token != "" {
		req.Header.Set("Authorization", "Bearer "+mod.token)
	}

	signature, err := Sign(mod.signingKey, body)
	if err != nil {
		return
	}
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}

	resp, err := mod.client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed HTTP request: %w", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = fmt.Errorf("received HTTP status '%s'", resp.Status)
		respBody, lerr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if lerr == nil && len(respBody) > 0 {
			err = fmt.Errorf("%v: %s", err, string(respBody))
		}
		return
	}

	// Drain so the connection can be reused
	io.Copy(io.Discard, resp.Body)
	return
}

// Releases idle connections and the encoder
func (mod *OutModule) Close() (err error) {
	if mod == nil {
		return
	}
	mod.client.CloseIdleConnections()
	if mod.encoder != nil {
		mod.encMu.Lock()
		err = mod.encoder.Close()
		mod.encMu.Unlock()
	}
	return
}

func (mod *OutModule) Name() (name string) {
	name = "http"
	return
}
