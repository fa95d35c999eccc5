// log/slog handler that hands each formatted record to an asynchronous shipper
package slogship

import (
	"context"
	"log/slog"
	"logshipper/internal/record"
	"strings"
	"sync/atomic"
)

// Destination for formatted records; implemented by *shipper.Shipper
type Enqueuer interface {
	Enqueue(rec record.Record) (accepted bool)
}

type Options struct {
	// Minimum level handled (default Info)
	Level slog.Leveler
}

// Formats records as "message key=value ..." and enqueues them. Never blocks on delivery.
type Handler struct {
	out     Enqueuer
	level   slog.Leveler
	prefix  string // preformatted attrs from WithAttrs
	group   string // dotted group prefix for later attrs
	dropped *atomic.Uint64
}

// Creates new handler enqueueing into out
func NewHandler(out Enqueuer, opts *Options) (new *Handler) {
	new = &Handler{
		out:     out,
		level:   slog.LevelInfo,
		dropped: &atomic.Uint64{},
	}
	if opts != nil && opts.Level != nil {
		new.level = opts.Level
	}
	return
}

func (handler *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= handler.level.Level()
}

// Drops (and counts) the record when the queue is full or closed
func (handler *Handler) Handle(ctx context.Context, r slog.Record) error {
	var text strings.Builder
	text.WriteString(r.Message)
	text.WriteString(handler.prefix)
	r.Attrs(func(attr slog.Attr) bool {
		appendAttr(&text, handler.group, attr)
		return true
	})

	rec := record.New(text.String(), Severity(r.Level), r.Time)
	if !handler.out.Enqueue(rec) {
		handler.dropped.Add(1)
	}
	return nil
}

func (handler *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return handler
	}
	var text strings.Builder
	text.WriteString(handler.prefix)
	for _, attr := range attrs {
		appendAttr(&text, handler.group, attr)
	}

	child := *handler
	child.prefix = text.String()
	return &child
}

func (handler *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	child := *handler
	child.group = handler.group + name + "."
	return &child
}

// Records refused by the shipper (shared with derived handlers)
func (handler *Handler) Dropped() (count uint64) {
	count = handler.dropped.Load()
	return
}

// Maps a slog level onto the closed record severity set
func Severity(level slog.Level) (severity record.Severity) {
	switch {
	case level < slog.LevelDebug:
		severity = record.Trace
	case level < slog.LevelInfo:
		severity = record.Debug
	case level < slog.LevelWarn:
		severity = record.Info
	case level < slog.LevelError:
		severity = record.Warn
	case level < slog.LevelError+4:
		severity = record.Error
	default:
		severity = record.Fatal
	}
	return
}

// Writes " group.key=value", expanding nested groups
func appendAttr(text *strings.Builder, group string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if attr.Value.Kind() == slog.KindGroup {
		nested := group
		if attr.Key != "" {
			nested = group + attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			appendAttr(text, nested, member)
		}
		return
	}

	text.WriteByte(' ')
	text.WriteString(group)
	text.WriteString(attr.Key)
	text.WriteByte('=')

	value := attr.Value.String()
	if value == "" || strings.ContainsAny(value, " =\"\n") {
		value = quote(value)
	}
	text.WriteString(value)
}

func quote(value string) (quoted string) {
	var text strings.Builder
	text.WriteByte('"')
	for _, r := range value {
		switch r {
		case '"', '\\':
			text.WriteByte('\\')
			text.WriteRune(r)
		case '\n':
			text.WriteString(`\n`)
		default:
			text.WriteRune(r)
		}
	}
	text.WriteByte('"')
	quoted = text.String()
	return
}
