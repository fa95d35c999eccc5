package journald

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"logshipper/internal/global"
	"logshipper/internal/record"
	"logshipper/internal/syslog"
	"strconv"
	"strings"
	"time"
)

// Writes the batch to systemd journald as one export stream (one entry per record)
func (mod *OutModule) Deliver(ctx context.Context, batch record.Batch) (err error) {
	if mod == nil {
		return
	}

	var buf bytes.Buffer
	for _, rec := range batch {
		mod.appendEntry(&buf, rec)
	}

	err = mod.sendJournalExport(ctx, buf.Bytes())
	if err != nil {
		err = fmt.Errorf("failed journald upload of %d record(s): %w", len(batch), err)
		return
	}
	return
}

// Appends one export format entry, terminated by a blank line
func (mod *OutModule) appendEntry(buf *bytes.Buffer, rec record.Record) {
	pid := strconv.Itoa(global.PID)

	// Build ordered list of fields
	fields := []field{
		{key: "__REALTIME_TIMESTAMP", val: strconv.FormatInt(time.Now().UnixMicro(), 10)}, // Required field
		{key: "_BOOT_ID", val: mod.bootID},                                               // Required field
		{key: "PRIORITY", val: strconv.Itoa(int(syslog.RecordSeverityCode(rec.Severity)))},
		{key: "SYSLOG_IDENTIFIER", val: mod.identifier},
		{key: "MESSAGE", val: rec.Message}, // Required field
		{key: "SYSLOG_FACILITY", val: strconv.Itoa(int(mod.facility))},
		{key: "SYSLOG_PID", val: pid},
		{key: "HOSTNAME", val: global.Hostname},
		{key: "SYSLOG_TIMESTAMP", val: rec.Timestamp.Format(time.RFC3339Nano)},
		{key: "LOG_LEVEL", val: string(rec.Severity)},
	}

	for _, field := range fields {
		if field.key == "" || field.val == "" {
			continue
		}
		writeField(buf, field)
	}
	// Terminate with double newline
	buf.WriteByte('\n')
}

// Key=val\n for plain text, binary framing when the value holds a newline
func writeField(buf *bytes.Buffer, f field) {
	if !strings.ContainsRune(f.val, '\n') {
		buf.WriteString(f.key)
		buf.WriteByte('=')
		buf.WriteString(f.val)
		buf.WriteByte('\n')
		return
	}

	buf.WriteString(f.key)
	buf.WriteByte('\n')
	var size [8]byte
	binary.LittleEndian.PutUint64(size[:], uint64(len(f.val)))
	buf.Write(size[:])
	buf.WriteString(f.val)
	buf.WriteByte('\n')
}

// Nothing held open beyond idle connections
func (mod *OutModule) Close() (err error) {
	if mod == nil || mod.sink == nil {
		return
	}
	mod.sink.CloseIdleConnections()
	return
}

func (mod *OutModule) Name() (name string) {
	name = "journald"
	return
}
