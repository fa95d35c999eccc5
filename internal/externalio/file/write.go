package file

import (
	"context"
	"fmt"
	"logshipper/internal/record"
	"strings"
	"time"
)

// Writes every record of the batch as one line, in batch order
func (mod *OutModule) Deliver(ctx context.Context, batch record.Batch) (err error) {
	if mod == nil {
		return
	}

	var buf strings.Builder
	for _, rec := range batch {
		buf.WriteString(FormatLine(rec))
	}
	data := []byte(buf.String())

	mod.mu.Lock()
	defer mod.mu.Unlock()
	for len(data) > 0 {
		var n int
		n, err = mod.sink.Write(data)
		if err != nil {
			err = fmt.Errorf("failed write to %s: %w", mod.path, err)
			return
		}
		data = data[n:] // remove the bytes that were successfully written
	}
	return
}

// Gracefully stops module
func (mod *OutModule) Close() (err error) {
	if mod == nil || mod.sink == nil {
		return
	}
	mod.mu.Lock()
	defer mod.mu.Unlock()
	err = mod.sink.Close()
	return
}

func (mod *OutModule) Name() (name string) {
	name = "file"
	return
}

// "<timestamp> <SEVERITY> <message>\n" with exactly one trailing newline
func FormatLine(rec record.Record) (line string) {
	line = rec.Timestamp.Format(time.RFC3339Nano) + " " + string(rec.Severity) + " " + strings.TrimRight(rec.Message, "\n") + "\n"
	return
}
