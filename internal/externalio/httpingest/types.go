package httpingest

import (
	"net/http"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Body compression names
const (
	CompressionNone string = "none"
	CompressionGzip string = "gzip"
	CompressionZstd string = "zstd"
)

// Header carrying the hex keyed BLAKE2b-256 digest of the request body (as sent)
const SignatureHeader string = "X-Logshipper-Signature"

type Config struct {
	Endpoint    string
	Token       string        // bearer token, optional
	Compression string        // none, gzip, zstd
	SigningKey  []byte        // optional, 1..64 bytes
	Source      string        // batch source label
	Subject     string        // batch subject label
	Timeout     time.Duration // per request, applied when the delivery context has no deadline
}

type OutModule struct {
	client      *http.Client
	url         string
	token       string
	compression string
	signingKey  []byte
	source      string
	subject     string
	timeout     time.Duration

	encMu   sync.Mutex
	encoder *zstd.Encoder
}

// Put-logs request document
type putLogsDetails struct {
	SpecVersion     string          `json:"specversion"`
	LogEntryBatches []logEntryBatch `json:"logEntryBatches"`
}

type logEntryBatch struct {
	Source              string     `json:"source"`
	Type                string     `json:"type"`
	Subject             string     `json:"subject"`
	DefaultLogEntryTime time.Time  `json:"defaultlogentrytime"`
	Entries             []logEntry `json:"entries"`
}

type logEntry struct {
	ID   string    `json:"id"`
	Time time.Time `json:"time"`
	Data string    `json:"data"`
}
