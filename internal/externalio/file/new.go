package file

import (
	"fmt"
	"logshipper/internal/global"
	"logshipper/internal/record"
	"os"
)

// Path naming standard input
const StdinPath string = "-"

// Creates new file input module reading lines from filePath ("-" for stdin)
func NewInput(namespace []string, filePath string, defaultSeverity record.Severity, outbox func(record.Record) bool) (module *InModule, err error) {
	if filePath == "" {
		err = fmt.Errorf("no input path given")
		return
	}
	if outbox == nil {
		err = fmt.Errorf("no destination for input lines")
		return
	}

	module = &InModule{
		path:            filePath,
		defaultSeverity: defaultSeverity,
		outbox:          outbox,
	}

	if filePath == StdinPath {
		module.Namespace = append(namespace, global.NSoStdIn)
		module.source = os.Stdin
		return
	}

	source, err := os.OpenFile(filePath, os.O_RDONLY, 0)
	if err != nil {
		err = fmt.Errorf("failed to open source file: %w", err)
		module = nil
		return
	}
	module.Namespace = append(namespace, global.NSoFile)
	module.source = source
	return
}

// Creates new file output module. Returns nil nil if no path.
func NewOutput(filePath string) (module *OutModule, err error) {
	if filePath == "" {
		return
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
	if err != nil {
		err = fmt.Errorf("failed to open output file: %w", err)
		return
	}

	module = &OutModule{
		path: filePath,
		sink: file,
	}
	return
}
