// Line sink writing to a terminal or standard stream
package console

import (
	"context"
	"fmt"
	"io"
	"logshipper/internal/record"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// ANSI colours per severity
var severityColor = map[record.Severity]string{
	record.Trace: "\x1b[90m",
	record.Debug: "\x1b[36m",
	record.Info:  "\x1b[32m",
	record.Warn:  "\x1b[33m",
	record.Error: "\x1b[31m",
	record.Fatal: "\x1b[1;31m",
}

const colorReset string = "\x1b[0m"

// Prefix of every written line
const linePrefix string = "stdout flush:"

type OutModule struct {
	mu     sync.Mutex
	out    io.Writer
	color  bool
	stream string
}

// Creates new console output for "stdout" or "stderr". Colour is used only when the stream is a terminal.
func NewOutput(stream string, color bool) (module *OutModule, err error) {
	var file *os.File
	switch stream {
	case "", "stdout":
		stream = "stdout"
		file = os.Stdout
	case "stderr":
		file = os.Stderr
	default:
		err = fmt.Errorf("unknown console stream %q (expected stdout or stderr)", stream)
		return
	}

	module = &OutModule{
		out:    file,
		color:  color && term.IsTerminal(int(file.Fd())),
		stream: stream,
	}
	return
}

// Creates console output writing to w (never coloured)
func NewWriterOutput(w io.Writer) (module *OutModule) {
	module = &OutModule{
		out:    w,
		stream: "writer",
	}
	return
}

func (mod *OutModule) Deliver(ctx context.Context, batch record.Batch) (err error) {
	var buf strings.Builder
	for _, rec := range batch {
		buf.WriteString(linePrefix)
		buf.WriteString(rec.Timestamp.Format(time.RFC3339Nano))
		buf.WriteByte(' ')
		if mod.color {
			buf.WriteString(severityColor[rec.Severity])
			buf.WriteString(string(rec.Severity))
			buf.WriteString(colorReset)
		} else {
			buf.WriteString(string(rec.Severity))
		}
		buf.WriteByte(' ')
		buf.WriteString(strings.TrimRight(rec.Message, "\n"))
		buf.WriteByte('\n')
	}

	mod.mu.Lock()
	defer mod.mu.Unlock()
	_, err = io.WriteString(mod.out, buf.String())
	if err != nil {
		err = fmt.Errorf("failed console write: %w", err)
	}
	return
}

// Standard streams are left open
func (mod *OutModule) Close() (err error) {
	return
}

func (mod *OutModule) Name() (name string) {
	name = "console:" + mod.stream
	return
}
