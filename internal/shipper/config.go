package shipper

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"logshipper/internal/global"
	"logshipper/internal/retry"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

type JSONConfig struct {
	Pipeline struct {
		BatchSize       int `json:"batchSize" yaml:"batchSize"`
		FlushIntervalMs int `json:"flushIntervalMs" yaml:"flushIntervalMs"`
		QueueCapacity   int `json:"queueCapacity" yaml:"queueCapacity"`
	} `json:"pipeline" yaml:"pipeline"`
	Breaker struct {
		FailureThreshold int `json:"failureThreshold" yaml:"failureThreshold"`
		CooldownMs       int `json:"cooldownMs" yaml:"cooldownMs"`
	} `json:"breaker" yaml:"breaker"`
	Retry struct {
		MaxAttempts      int     `json:"maxAttempts" yaml:"maxAttempts"`
		InitialBackoffMs int     `json:"initialBackoffMs" yaml:"initialBackoffMs"`
		BackoffFactor    float64 `json:"backoffFactor" yaml:"backoffFactor"`
		MaxBackoffMs     int     `json:"maxBackoffMs" yaml:"maxBackoffMs"`
		Jitter           bool    `json:"jitter,omitempty" yaml:"jitter,omitempty"`
	} `json:"retry" yaml:"retry"`
	Shutdown struct {
		MaxFailedRounds  int `json:"maxFailedRounds" yaml:"maxFailedRounds"`
		PauseMs          int `json:"pauseMs" yaml:"pauseMs"`
		WorkerStopWaitMs int `json:"workerStopWaitMs,omitempty" yaml:"workerStopWaitMs,omitempty"`
	} `json:"shutdown" yaml:"shutdown"`
	Sink struct {
		Type     string `json:"type" yaml:"type"`
		Facility string `json:"facility,omitempty" yaml:"facility,omitempty"`
		Console  struct {
			Stream string `json:"stream,omitempty" yaml:"stream,omitempty"`
			Color  bool   `json:"color,omitempty" yaml:"color,omitempty"`
		} `json:"console" yaml:"console"`
		File struct {
			Path string `json:"path" yaml:"path"`
		} `json:"file" yaml:"file"`
		HTTP struct {
			URL         string `json:"url" yaml:"url"`
			Token       string `json:"token,omitempty" yaml:"token,omitempty"`
			Compression string `json:"compression,omitempty" yaml:"compression,omitempty"`
			SigningKey  string `json:"signingKeyHex,omitempty" yaml:"signingKeyHex,omitempty"`
			Source      string `json:"source,omitempty" yaml:"source,omitempty"`
			Subject     string `json:"subject,omitempty" yaml:"subject,omitempty"`
			TimeoutMs   int    `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`
		} `json:"http" yaml:"http"`
		Beats struct {
			Address          string `json:"address" yaml:"address"`
			TimeoutMs        int    `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`
			CompressionLevel int    `json:"compressionLevel,omitempty" yaml:"compressionLevel,omitempty"`
		} `json:"beats" yaml:"beats"`
		Journald struct {
			URL        string `json:"url" yaml:"url"`
			Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
		} `json:"journald" yaml:"journald"`
	} `json:"sink" yaml:"sink"`
	Inputs struct {
		FilePaths       []string `json:"filePaths,omitempty" yaml:"filePaths,omitempty"`
		DefaultSeverity string   `json:"defaultSeverity,omitempty" yaml:"defaultSeverity,omitempty"`
	} `json:"inputs" yaml:"inputs"`
	Metrics struct {
		Interval          string `json:"collectionInterval" yaml:"collectionInterval"`
		MaxAge            string `json:"maximumRetention,omitempty" yaml:"maximumRetention,omitempty"`
		EnableQueryServer bool   `json:"enableHTTPQueryServer" yaml:"enableHTTPQueryServer"`
		QueryServerPort   int    `json:"HTTPQueryServerPort" yaml:"HTTPQueryServerPort"`
	} `json:"metrics" yaml:"metrics"`
}

type SinkConfig struct {
	Type     string // console, file, http, beats, journald
	Facility string

	ConsoleStream string
	ConsoleColor  bool

	FilePath string

	HTTPURL         string
	HTTPToken       string
	HTTPCompression string
	HTTPSigningKey  []byte
	HTTPSource      string
	HTTPSubject     string
	HTTPTimeout     time.Duration

	BeatsAddress     string
	BeatsTimeout     time.Duration
	BeatsCompression int

	JournaldURL        string
	JournaldIdentifier string
}

type Config struct {
	Pipeline Pipeline
	Sink     SinkConfig

	// Line inputs
	InputPaths      []string
	DefaultSeverity string

	// Metrics
	MetricQueryServerEnabled bool
	MetricQueryServerPort    int
	MetricCollectionInterval time.Duration
	MetricMaxAge             time.Duration
}

// Loads config from file. JSON (comments allowed) for .json/.jsonc, YAML for .yaml/.yml.
func LoadConfig(path string) (cfg JSONConfig, err error) {
	configFile, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed to read config file: %w", err)
		return
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(configFile, &cfg)
	default:
		err = json.Unmarshal(jsonc.ToJSON(configFile), &cfg)
	}
	if err != nil {
		err = fmt.Errorf("invalid config syntax in '%s': %w", path, err)
		return
	}
	return
}

// Parses file config into daemon config, filling defaults for anything unset
func (cfg JSONConfig) NewDaemonConf() (config Config, err error) {
	// Pipeline settings
	config.Pipeline.BatchSize = cfg.Pipeline.BatchSize
	config.Pipeline.FlushInterval = millis(cfg.Pipeline.FlushIntervalMs)
	config.Pipeline.QueueCapacity = cfg.Pipeline.QueueCapacity
	config.Pipeline.BreakerThreshold = cfg.Breaker.FailureThreshold
	config.Pipeline.BreakerCooldown = millis(cfg.Breaker.CooldownMs)
	config.Pipeline.Retry = retry.Config{
		Attempts:       cfg.Retry.MaxAttempts,
		BackoffInitial: millis(cfg.Retry.InitialBackoffMs),
		BackoffFactor:  cfg.Retry.BackoffFactor,
		BackoffMax:     millis(cfg.Retry.MaxBackoffMs),
		BackoffJitter:  cfg.Retry.Jitter,
	}
	config.Pipeline.ShutdownMaxRounds = cfg.Shutdown.MaxFailedRounds
	config.Pipeline.ShutdownPause = millis(cfg.Shutdown.PauseMs)
	config.Pipeline.SchedulerStopWait = millis(cfg.Shutdown.WorkerStopWaitMs)

	// Sink settings
	config.Sink = SinkConfig{
		Type:               strings.ToLower(cfg.Sink.Type),
		Facility:           cfg.Sink.Facility,
		ConsoleStream:      cfg.Sink.Console.Stream,
		ConsoleColor:       cfg.Sink.Console.Color,
		FilePath:           cfg.Sink.File.Path,
		HTTPURL:            cfg.Sink.HTTP.URL,
		HTTPToken:          cfg.Sink.HTTP.Token,
		HTTPCompression:    cfg.Sink.HTTP.Compression,
		HTTPSource:         cfg.Sink.HTTP.Source,
		HTTPSubject:        cfg.Sink.HTTP.Subject,
		HTTPTimeout:        millis(cfg.Sink.HTTP.TimeoutMs),
		BeatsAddress:       cfg.Sink.Beats.Address,
		BeatsTimeout:       millis(cfg.Sink.Beats.TimeoutMs),
		BeatsCompression:   cfg.Sink.Beats.CompressionLevel,
		JournaldURL:        cfg.Sink.Journald.URL,
		JournaldIdentifier: cfg.Sink.Journald.Identifier,
	}
	if cfg.Sink.HTTP.SigningKey != "" {
		config.Sink.HTTPSigningKey, err = hex.DecodeString(cfg.Sink.HTTP.SigningKey)
		if err != nil {
			err = fmt.Errorf("failed to decode http signing key: %w", err)
			return
		}
	}

	// Source settings
	config.InputPaths = cfg.Inputs.FilePaths
	config.DefaultSeverity = cfg.Inputs.DefaultSeverity

	// Metric settings
	config.MetricQueryServerEnabled = cfg.Metrics.EnableQueryServer
	config.MetricQueryServerPort = cfg.Metrics.QueryServerPort
	if cfg.Metrics.MaxAge != "" {
		config.MetricMaxAge, err = time.ParseDuration(cfg.Metrics.MaxAge)
		if err != nil {
			err = fmt.Errorf("failed to parse metric max age time: %w", err)
			return
		}
	}
	if cfg.Metrics.Interval != "" {
		config.MetricCollectionInterval, err = time.ParseDuration(cfg.Metrics.Interval)
		if err != nil {
			err = fmt.Errorf("failed to parse collection interval time: %w", err)
			return
		}
	}

	config.setDefaults()

	err = config.Pipeline.Validate()
	if err != nil {
		return
	}
	return
}

// Sets defaults for any missing values
func (cfg *Config) setDefaults() {
	cfg.Pipeline.setDefaults()

	// Sink
	if cfg.Sink.Type == "" {
		cfg.Sink.Type = SinkConsole
	}
	if cfg.Sink.Facility == "" {
		cfg.Sink.Facility = global.DefaultFacility
	}

	// Source
	if cfg.DefaultSeverity == "" {
		cfg.DefaultSeverity = global.DefaultSeverity
	}

	// Metrics
	if cfg.MetricMaxAge == 0 {
		cfg.MetricMaxAge = 1 * time.Hour
	}
	if cfg.MetricQueryServerPort == 0 {
		cfg.MetricQueryServerPort = global.HTTPListenPort
	}
	if cfg.MetricCollectionInterval == 0 {
		cfg.MetricCollectionInterval = 15 * time.Second
	}
}

// Fills zero pipeline values with the defaults
func (cfg *Pipeline) setDefaults() {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = global.DefaultBatchSize
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = global.DefaultFlushInterval
	}
	if cfg.QueueCapacity == 0 {
		cfg.QueueCapacity = global.DefaultQueueCapacity
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = global.DefaultBreakerThreshold
	}
	if cfg.BreakerCooldown == 0 {
		cfg.BreakerCooldown = global.DefaultBreakerCooldown
	}
	if cfg.Retry.Attempts == 0 {
		cfg.Retry.Attempts = global.DefaultRetryAttempts
	}
	if cfg.Retry.BackoffInitial == 0 {
		cfg.Retry.BackoffInitial = global.DefaultBackoffInitial
	}
	if cfg.Retry.BackoffFactor == 0 {
		cfg.Retry.BackoffFactor = global.DefaultBackoffFactor
	}
	if cfg.Retry.BackoffMax == 0 {
		cfg.Retry.BackoffMax = global.DefaultBackoffMax
	}
	if cfg.ShutdownMaxRounds == 0 {
		cfg.ShutdownMaxRounds = global.DefaultShutdownMaxRounds
	}
	if cfg.ShutdownPause == 0 {
		cfg.ShutdownPause = global.DefaultShutdownPause
	}
	if cfg.SchedulerStopWait == 0 {
		cfg.SchedulerStopWait = global.DefaultSchedulerStopWait
	}
}

// Pipeline with every setting at its default
func DefaultPipeline() (cfg Pipeline) {
	cfg.setDefaults()
	return
}

// Rejects settings the pipeline cannot run with
func (cfg Pipeline) Validate() (err error) {
	switch {
	case cfg.BatchSize <= 0:
		err = fmt.Errorf("batch size must be positive (got %d)", cfg.BatchSize)
	case cfg.FlushInterval <= 0:
		err = fmt.Errorf("flush interval must be positive (got %s)", cfg.FlushInterval)
	case cfg.QueueCapacity <= 0:
		err = fmt.Errorf("queue capacity must be positive (got %d)", cfg.QueueCapacity)
	case cfg.BatchSize > cfg.QueueCapacity:
		err = fmt.Errorf("batch size %d exceeds queue capacity %d", cfg.BatchSize, cfg.QueueCapacity)
	case cfg.BreakerThreshold <= 0:
		err = fmt.Errorf("breaker failure threshold must be positive (got %d)", cfg.BreakerThreshold)
	case cfg.BreakerCooldown < 0:
		err = fmt.Errorf("breaker cooldown cannot be negative (got %s)", cfg.BreakerCooldown)
	case cfg.Retry.Attempts <= 0:
		err = fmt.Errorf("retry attempts must be positive (got %d)", cfg.Retry.Attempts)
	case cfg.Retry.BackoffInitial < 0 || cfg.Retry.BackoffMax < 0:
		err = fmt.Errorf("retry backoff cannot be negative")
	case cfg.Retry.BackoffFactor < 1:
		err = fmt.Errorf("retry backoff factor must be at least 1 (got %g)", cfg.Retry.BackoffFactor)
	case cfg.ShutdownMaxRounds <= 0:
		err = fmt.Errorf("shutdown failed round limit must be positive (got %d)", cfg.ShutdownMaxRounds)
	case cfg.ShutdownPause < 0:
		err = fmt.Errorf("shutdown pause cannot be negative (got %s)", cfg.ShutdownPause)
	}
	return
}

func millis(ms int) (d time.Duration) {
	d = time.Duration(ms) * time.Millisecond
	return
}
