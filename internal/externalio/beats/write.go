package beats

import (
	"context"
	"fmt"
	"logshipper/internal/global"
	"logshipper/internal/record"
	"logshipper/internal/syslog"
	"os"
)

// Sends the batch as one lumberjack window. A failed send drops the connection; the next call redials.
func (mod *OutModule) Deliver(ctx context.Context, batch record.Batch) (err error) {
	if mod == nil {
		return
	}

	events := make([]interface{}, 0, len(batch))
	for _, rec := range batch {
		events = append(events, mod.event(rec))
	}

	mod.mu.Lock()
	defer mod.mu.Unlock()

	err = mod.connect()
	if err != nil {
		return
	}

	sent, err := mod.sink.Send(events)
	if err != nil {
		mod.sink.Close()
		mod.sink = nil
		err = fmt.Errorf("failed beats send: %w", err)
		return
	}
	if sent != len(events) {
		err = fmt.Errorf("beats server acknowledged %d of %d events", sent, len(events))
		return
	}
	return
}

// Event fields for one record
func (mod *OutModule) event(rec record.Record) (fields map[string]interface{}) {
	facility := mod.facility
	priority, err := syslog.Priority(facility, rec.Severity)
	if err != nil {
		facility = global.DefaultFacility
		priority, _ = syslog.Priority(facility, rec.Severity)
	}
	facilityCode := priority / 8
	severityCode := priority % 8
	severityName, _ := syslog.CodeToSeverity(severityCode)

	fields = map[string]interface{}{
		// Minimum required fields
		"@timestamp": rec.Timestamp,
		"message":    rec.Message,

		"host": map[string]interface{}{
			"name":     global.Hostname,
			"hostname": global.Hostname,
		},
		"agent": map[string]interface{}{
			"name":    global.Hostname,
			"program": global.ProgBaseName,
			"version": global.ProgVersion,
			"type":    "filebeat",
			"pid":     os.Getpid(),
		},
		"log": map[string]interface{}{
			"level": string(rec.Severity),
			"syslog": map[string]interface{}{
				"facility": map[string]interface{}{
					"code": facilityCode,
					"name": facility,
				},
				"priority": priority,
				"severity": map[string]interface{}{
					"code": severityCode,
					"name": severityName,
				},
			},
		},
	}
	return
}

// Gracefully stops module
func (mod *OutModule) Close() (err error) {
	if mod == nil {
		return
	}
	mod.mu.Lock()
	defer mod.mu.Unlock()
	if mod.sink != nil {
		err = mod.sink.Close()
		mod.sink = nil
	}
	return
}

func (mod *OutModule) Name() (name string) {
	name = "beats"
	return
}
