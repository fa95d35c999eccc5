package shipper

import (
	"fmt"
	"logshipper/internal/externalio/beats"
	"logshipper/internal/externalio/console"
	"logshipper/internal/externalio/file"
	"logshipper/internal/externalio/httpingest"
	"logshipper/internal/externalio/journald"
	"logshipper/internal/sink"
)

// Sink type names
const (
	SinkConsole  string = "console"
	SinkFile     string = "file"
	SinkHTTP     string = "http"
	SinkBeats    string = "beats"
	SinkJournald string = "journald"
	SinkDiscard  string = "discard"
)

// Builds the configured output module
func NewSink(cfg SinkConfig) (out sink.Sink, err error) {
	switch cfg.Type {
	case SinkConsole, "":
		var mod *console.OutModule
		mod, err = console.NewOutput(cfg.ConsoleStream, cfg.ConsoleColor)
		if err != nil {
			err = fmt.Errorf("failed to create console output: %w", err)
			return
		}
		out = mod
	case SinkFile:
		var mod *file.OutModule
		mod, err = file.NewOutput(cfg.FilePath)
		if err != nil {
			err = fmt.Errorf("failed to create file output: %w", err)
			return
		}
		if mod == nil {
			err = fmt.Errorf("file sink requires a path")
			return
		}
		out = mod
	case SinkHTTP:
		var mod *httpingest.OutModule
		mod, err = httpingest.NewOutput(httpingest.Config{
			Endpoint:    cfg.HTTPURL,
			Token:       cfg.HTTPToken,
			Compression: cfg.HTTPCompression,
			SigningKey:  cfg.HTTPSigningKey,
			Source:      cfg.HTTPSource,
			Subject:     cfg.HTTPSubject,
			Timeout:     cfg.HTTPTimeout,
		})
		if err != nil {
			err = fmt.Errorf("failed to create http output: %w", err)
			return
		}
		if mod == nil {
			err = fmt.Errorf("http sink requires a url")
			return
		}
		out = mod
	case SinkBeats:
		var mod *beats.OutModule
		mod, err = beats.NewOutput(cfg.BeatsAddress, cfg.BeatsTimeout, cfg.BeatsCompression, cfg.Facility)
		if err != nil {
			err = fmt.Errorf("failed to create beats output: %w", err)
			return
		}
		if mod == nil {
			err = fmt.Errorf("beats sink requires an address")
			return
		}
		out = mod
	case SinkJournald:
		var mod *journald.OutModule
		mod, err = journald.NewOutput(cfg.JournaldURL, cfg.JournaldIdentifier, cfg.Facility)
		if err != nil {
			err = fmt.Errorf("failed to create journald output: %w", err)
			return
		}
		if mod == nil {
			err = fmt.Errorf("journald sink requires a url")
			return
		}
		out = mod
	case SinkDiscard:
		out = sink.Discard{}
	default:
		err = fmt.Errorf("unknown sink type '%s'", cfg.Type)
	}
	return
}
