package httpingest

import (
	"fmt"
	"logshipper/internal/global"
	"net/http"
	"net/url"
	"time"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blake2b"
)

// Creates new HTTP ingestion output module. Returns nil nil if no endpoint.
func NewOutput(cfg Config) (module *OutModule, err error) {
	if cfg.Endpoint == "" {
		return
	}

	parsed, err := url.Parse(cfg.Endpoint)
	if err != nil {
		err = fmt.Errorf("invalid ingestion URL: %w", err)
		return
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		err = fmt.Errorf("invalid ingestion URL scheme '%s'", parsed.Scheme)
		return
	}

	if len(cfg.SigningKey) > blake2b.Size {
		err = fmt.Errorf("signing key too long: %d bytes (max %d)", len(cfg.SigningKey), blake2b.Size)
		return
	}

	new := &OutModule{
		url:         parsed.String(),
		token:       cfg.Token,
		compression: cfg.Compression,
		signingKey:  cfg.SigningKey,
		source:      cfg.Source,
		subject:     cfg.Subject,
		timeout:     cfg.Timeout,
	}
	if new.compression == "" {
		new.compression = CompressionNone
	}
	if new.source == "" {
		new.source = global.DefaultPayloadSource
	}
	if new.subject == "" {
		new.subject = global.DefaultPayloadSubject
	}
	if new.timeout <= 0 {
		new.timeout = global.DefaultSinkRequestTimeout
	}

	switch new.compression {
	case CompressionNone, CompressionGzip:
	case CompressionZstd:
		new.encoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			err = fmt.Errorf("failed to create zstd encoder: %w", err)
			return
		}
	default:
		err = fmt.Errorf("unknown compression '%s'", new.compression)
		return
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	new.client = &http.Client{
		Transport: transport,
		Timeout:   0, // deadline comes from the delivery context
	}

	module = new
	return
}
