package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"logshipper/internal/global"
	"logshipper/internal/logctx"
	"strings"
)

// Reads lines until end of input or cancellation, handing each to the outbox
func (mod *InModule) Run(ctx context.Context) (err error) {
	ctx = logctx.OverwriteCtxTag(ctx, mod.Namespace)
	defer mod.source.Close()

	// Unblock a pending read on cancellation
	stop := context.AfterFunc(ctx, func() {
		if mod.path != StdinPath {
			mod.source.Close()
		}
	})
	defer stop()

	reader := bufio.NewReaderSize(mod.source, 65536)
	for {
		line, readErr := reader.ReadString('\n')
		if line != "" {
			mod.handleLine(ctx, line)
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
					"finished reading %s (%d lines)\n", mod.path, mod.metrics.LinesRead.Load())
				return
			}
			if ctx.Err() != nil {
				return
			}
			err = fmt.Errorf("failed reading %s: %w", mod.path, readErr)
			return
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (mod *InModule) handleLine(ctx context.Context, line string) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return
	}
	mod.metrics.LinesRead.Add(1)

	rec := parseLine(line, mod.defaultSeverity)
	if mod.outbox(rec) {
		mod.metrics.Accepted.Add(1)
		return
	}
	mod.metrics.Dropped.Add(1)
	logctx.LogEvent(ctx, global.VerbosityData, global.WarnLog, "pipeline full, dropped line: %s\n", line)
}
