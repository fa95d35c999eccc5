// Log records as they travel through the shipping pipeline
package record

import (
	"fmt"
	"strings"
	"time"
)

// Severity of a shipped record. Batching compares severities by exact equality.
type Severity string

const (
	Trace Severity = "TRACE"
	Debug Severity = "DEBUG"
	Info  Severity = "INFO"
	Warn  Severity = "WARN"
	Error Severity = "ERROR"
	Fatal Severity = "FATAL"
)

// All known severities, lowest first
var Severities = []Severity{Trace, Debug, Info, Warn, Error, Fatal}

// Single formatted log message. Never mutated after construction.
type Record struct {
	Message   string
	Severity  Severity
	Timestamp time.Time // event time, not send time
}

// Ordered group of records sharing one severity
type Batch []Record

// Creates new record, stamping it with the current time when none is given
func New(message string, severity Severity, timestamp time.Time) (rec Record) {
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	rec = Record{
		Message:   message,
		Severity:  severity,
		Timestamp: timestamp,
	}
	return
}

// Reports whether severity is one of the known set
func (severity Severity) Valid() (valid bool) {
	for _, known := range Severities {
		if severity == known {
			valid = true
			return
		}
	}
	return
}

func (severity Severity) String() string {
	return string(severity)
}

// Parses user/config supplied severity names (case-insensitive, common aliases accepted)
func ParseSeverity(name string) (severity Severity, err error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		severity = Trace
	case "DEBUG":
		severity = Debug
	case "INFO", "INFORMATIONAL", "NOTICE":
		severity = Info
	case "WARN", "WARNING":
		severity = Warn
	case "ERROR", "ERR":
		severity = Error
	case "FATAL", "CRIT", "CRITICAL", "ALERT", "EMERG":
		severity = Fatal
	default:
		err = fmt.Errorf("unknown severity name: %q", name)
	}
	return
}

// Severity shared by every record in the batch (empty for an empty batch)
func (batch Batch) Severity() (severity Severity) {
	if len(batch) == 0 {
		return
	}
	severity = batch[0].Severity
	return
}

// Total message bytes in batch
func (batch Batch) ByteSize() (size int) {
	for _, rec := range batch {
		size += len(rec.Message)
	}
	return
}

// Reports whether all records carry the same severity
func (batch Batch) Homogeneous() (ok bool) {
	ok = true
	for _, rec := range batch {
		if rec.Severity != batch[0].Severity {
			ok = false
			return
		}
	}
	return
}
