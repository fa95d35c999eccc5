package httpingest

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"logshipper/internal/global"
	"logshipper/internal/record"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/crypto/blake2b"
)

// Builds the put-logs document for one homogeneous batch
func (mod *OutModule) buildPayload(batch record.Batch) (details putLogsDetails) {
	entries := make([]logEntry, 0, len(batch))
	for _, rec := range batch {
		entries = append(entries, logEntry{
			ID:   uuid.NewString(),
			Time: rec.Timestamp,
			Data: rec.Message,
		})
	}

	entryBatch := logEntryBatch{
		Source:  mod.source,
		Type:    string(batch.Severity()),
		Subject: mod.subject,
		Entries: entries,
	}
	if len(batch) > 0 {
		entryBatch.DefaultLogEntryTime = batch[0].Timestamp
	}

	details = putLogsDetails{
		SpecVersion:     global.PayloadSpecVersion,
		LogEntryBatches: []logEntryBatch{entryBatch},
	}
	return
}

// Serializes and compresses the document
func (mod *OutModule) encodeBody(details putLogsDetails) (body []byte, err error) {
	raw, err := json.Marshal(details)
	if err != nil {
		err = fmt.Errorf("failed to marshal payload: %w", err)
		return
	}

	switch mod.compression {
	case CompressionGzip:
		var buf bytes.Buffer
		writer := gzip.NewWriter(&buf)
		_, err = writer.Write(raw)
		if err != nil {
			err = fmt.Errorf("failed gzip write: %w", err)
			return
		}
		err = writer.Close()
		if err != nil {
			err = fmt.Errorf("failed gzip close: %w", err)
			return
		}
		body = buf.Bytes()
	case CompressionZstd:
		mod.encMu.Lock()
		body = mod.encoder.EncodeAll(raw, make([]byte, 0, len(raw)/2))
		mod.encMu.Unlock()
	default:
		body = raw
	}
	return
}

// Hex keyed BLAKE2b-256 of the body. Empty when no key is configured.
func Sign(key []byte, body []byte) (signature string, err error) {
	if len(key) == 0 {
		return
	}
	mac, err := blake2b.New256(key)
	if err != nil {
		err = fmt.Errorf("failed to create signature hash: %w", err)
		return
	}
	mac.Write(body)
	signature = hex.EncodeToString(mac.Sum(nil))
	return
}
