package logctx

import (
	"fmt"
	"io"
	"logshipper/internal/global"
	"strings"
	"time"
)

// Suppression of highly repetitive messages
type dedupState struct {
	lastMsg          string
	repeatCount      int
	lastSuppressTime time.Time
}

const (
	dedupWindow      time.Duration = 5 * time.Second
	minRepeats       int           = 10
	suppressCooldown time.Duration = 1 * time.Minute
)

// Starts a go routine that reads events and writes formatted output to io.Writer.
// Stops when logger.Done is closed and the buffer is empty.
func StartWatcher(logger *Logger, output io.Writer) {
	logger.wg.Add(1)

	go func() {
		defer logger.wg.Done()

		var dedup dedupState
		for {
			event, ok := logger.next()
			if !ok {
				return
			}

			now := time.Now()

			// Duplicate events older than the window are not considered duplicates
			if event.Message != "" &&
				event.Message == dedup.lastMsg &&
				now.Sub(event.Timestamp) <= dedupWindow {

				dedup.repeatCount++
				// Only print suppression message once per cooldown
				if dedup.repeatCount >= minRepeats && now.Sub(dedup.lastSuppressTime) >= suppressCooldown {
					fmt.Fprintf(output,
						"[%s] [%s] [%s] Suppressed %d repeated messages: %s",
						padTimestamp(event.Timestamp),
						strings.Join(event.Tags, "/"),
						global.InfoLog,
						dedup.repeatCount,
						dedup.lastMsg)

					dedup.lastSuppressTime = now
					dedup.repeatCount = 0
				}
				continue
			}
			dedup.lastMsg = event.Message
			dedup.repeatCount = 1

			fmt.Fprintf(output, "%s", event.Format())
		}
	}()
}

// Blocks until an event is available. Returns false once done and drained.
func (logger *Logger) next() (event Event, ok bool) {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()

	for len(logger.queue) == 0 {
		select {
		case <-logger.Done:
			return
		default:
			logger.cond.Wait()
		}
	}

	event = logger.queue[0]
	logger.queue = logger.queue[1:]

	logger.history = append(logger.history, event)
	if len(logger.history) > historyLimit {
		logger.history = logger.history[len(logger.history)-historyLimit:]
	}

	ok = true
	return
}
