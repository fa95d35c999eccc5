package file

import (
	"logshipper/internal/record"
	"strings"
	"time"
)

// Leading timestamp layouts recognised on input lines
var timestampLayouts = []struct {
	layout string
	width  int // 0 = first whitespace separated token
}{
	{layout: time.RFC3339Nano},
	{layout: "2006-01-02T15:04:05.999999-07:00"},
	{layout: "2006-01-02 15:04:05", width: 19},
	{layout: "2006/01/02 15:04:05", width: 19},
	{layout: "Jan _2 15:04:05", width: 15},
}

// Builds a record from a raw line. The message keeps the full line text;
// timestamp and severity are taken from the line when recognisable.
func parseLine(line string, defaultSeverity record.Severity) (rec record.Record) {
	rec.Message = line
	rec.Timestamp = parseTimestamp(line)
	rec.Severity = parseSeverity(line, defaultSeverity)
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	return
}

func parseTimestamp(line string) (ts time.Time) {
	for _, candidate := range timestampLayouts {
		var prefix string
		if candidate.width == 0 {
			prefix, _, _ = strings.Cut(line, " ")
		} else {
			if len(line) < candidate.width {
				continue
			}
			prefix = line[:candidate.width]
		}

		parsed, err := time.Parse(candidate.layout, prefix)
		if err != nil {
			continue
		}
		ts = parsed
		if candidate.layout == "Jan _2 15:04:05" {
			ts = withCurrentYear(parsed)
		}
		return
	}
	return
}

// Finds a severity marker: "[ERROR]", "ERROR:", "level=error", or a bare level word in the first few fields
func parseSeverity(line string, defaultSeverity record.Severity) (severity record.Severity) {
	severity = defaultSeverity

	fields := strings.Fields(line)
	if len(fields) > 6 {
		fields = fields[:6]
	}
	for _, field := range fields {
		token := field
		token = strings.TrimPrefix(token, "level=")
		token = strings.TrimPrefix(token, "severity=")
		token = strings.Trim(token, "[]():<>\"")
		if token == "" {
			continue
		}

		parsed, err := record.ParseSeverity(token)
		if err != nil {
			continue
		}
		// Lower case words only count when bracketed or key=value
		if token != strings.ToUpper(token) && !strings.Contains(field, "=") && !strings.HasPrefix(field, "[") {
			continue
		}
		severity = parsed
		return
	}
	return
}

// Adds year (and timezone) to timestamps that do not have one
func withCurrentYear(old time.Time) (new time.Time) {
	now := time.Now()
	new = time.Date(
		now.Year(),
		old.Month(),
		old.Day(),
		old.Hour(),
		old.Minute(),
		old.Second(),
		0,
		time.Local,
	)
	return
}
