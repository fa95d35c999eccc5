// Syslog numeric codes for shipped record severities and facilities
package syslog

import (
	"fmt"
	"logshipper/internal/record"
)

// Name/code lookups in both directions
type codeTable struct {
	kind   string
	byName map[string]uint16
	byCode map[uint16]string
}

func newCodeTable(kind string, byName map[string]uint16) (table codeTable) {
	table = codeTable{
		kind:   kind,
		byName: byName,
		byCode: make(map[uint16]string, len(byName)),
	}
	for name, code := range byName {
		table.byCode[code] = name
	}
	return
}

func (table codeTable) code(name string) (code uint16, err error) {
	code, exists := table.byName[name]
	if !exists {
		err = fmt.Errorf("unknown %s name: %s", table.kind, name)
	}
	return
}

func (table codeTable) name(code uint16) (name string, err error) {
	name, exists := table.byCode[code]
	if !exists {
		err = fmt.Errorf("unknown %s code: %d", table.kind, code)
	}
	return
}

// Read-only after package init
var (
	facilities = newCodeTable("facility", map[string]uint16{
		"kern": 0, "user": 1, "mail": 2, "daemon": 3,
		"auth": 4, "syslog": 5, "lpr": 6, "news": 7,
		"uucp": 8, "cron": 9, "authpriv": 10, "ftp": 11,
		"local0": 16, "local1": 17, "local2": 18, "local3": 19,
		"local4": 20, "local5": 21, "local6": 22, "local7": 23,
	})
	severities = newCodeTable("severity", map[string]uint16{
		"emerg": 0, "alert": 1, "crit": 2, "err": 3,
		"warning": 4, "notice": 5, "info": 6, "debug": 7,
	})
)

// Pipeline severity to syslog severity name
var recordSeverity = map[record.Severity]string{
	record.Trace: "debug",
	record.Debug: "debug",
	record.Info:  "info",
	record.Warn:  "warning",
	record.Error: "err",
	record.Fatal: "crit",
}

func FacilityToCode(facility string) (code uint16, err error) {
	code, err = facilities.code(facility)
	return
}

func SeverityToCode(severity string) (code uint16, err error) {
	code, err = severities.code(severity)
	return
}

func CodeToFacility(code uint16) (facility string, err error) {
	facility, err = facilities.name(code)
	return
}

func CodeToSeverity(code uint16) (severity string, err error) {
	severity, err = severities.name(code)
	return
}

// Syslog severity code for a pipeline record severity. Unknown severities map to info.
func RecordSeverityCode(severity record.Severity) (code uint16) {
	name, ok := recordSeverity[severity]
	if !ok {
		name = "info"
	}
	code = severities.byName[name]
	return
}

// Combined PRI value (facility*8 + severity)
func Priority(facility string, severity record.Severity) (pri uint16, err error) {
	facilityCode, err := FacilityToCode(facility)
	if err != nil {
		return
	}
	pri = facilityCode*8 + RecordSeverityCode(severity)
	return
}
