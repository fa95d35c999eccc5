package global

import "time"

const (
	// Descriptive Names for available verbosity levels
	VerbosityNone int = iota
	VerbosityStandard
	VerbosityProgress
	VerbosityData
	VerbosityFullData
	VerbosityDebug

	// Descriptive names for available severity levels (program logs, not shipped records)
	ErrorLog string = "Error"
	WarnLog  string = "Warn"
	InfoLog  string = "Info"
)

const (
	ProgVersion  string = "v0.3.0"
	ProgBaseName string = "logshipper"

	// Context keys
	LoggerKey  CtxKey = "logger"  // Event queue (mostly for variable log verbosity handling)
	LogTagsKey CtxKey = "logtags" // List of tags in order of broad->specific appended/popped at various parts of the program

	DefaultConfigPath string = "/etc/logshipper.jsonc"

	// Pipeline defaults
	DefaultBatchSize          int           = 50
	DefaultFlushInterval      time.Duration = 2000 * time.Millisecond
	DefaultQueueCapacity      int           = 5000
	DefaultBreakerThreshold   int           = 5
	DefaultBreakerCooldown    time.Duration = 30000 * time.Millisecond
	DefaultRetryAttempts      int           = 5
	DefaultBackoffInitial     time.Duration = 1000 * time.Millisecond
	DefaultBackoffFactor      float64       = 2
	DefaultBackoffMax         time.Duration = 30000 * time.Millisecond
	DefaultShutdownMaxRounds  int           = 20
	DefaultShutdownPause      time.Duration = 3 * time.Second
	DefaultSchedulerStopWait  time.Duration = 5 * time.Second
	DefaultSinkRequestTimeout time.Duration = 10 * time.Second

	// Remote payload identity
	DefaultPayloadSource  string = "logshipper-async"
	DefaultPayloadSubject string = "application"
	PayloadSpecVersion    string = "1.0"

	// Parsing defaults
	DefaultSeverity string = "INFO"
	DefaultFacility string = "user"

	// Metric HTTP server
	HTTPListenPort   int           = 18514
	HTTPListenAddr   string        = "localhost" // Metric queries only exposed to local machine
	HTTPReadTimeout  time.Duration = 30 * time.Second
	HTTPWriteTimeout time.Duration = 10 * time.Second
	HTTPIdleTimeout  time.Duration = 180 * time.Second
	DataPath         string        = "/data/"
	LatestPath       string        = "/latest/"
	HealthPath       string        = "/health"

	// Namespacing Name Components
	NSMetric    string = "Metrics"
	NSMetricSrv string = "Server"
	NSTest      string = "Test"
	NSCLI       string = "CLI"
	NSShip      string = "Shipper"
	NSQueue     string = "Queue"
	NSBreaker   string = "Breaker"
	NSFlush     string = "Flush"
	NSRetry     string = "Retry"
	NSSink      string = "Sink"
	NSWorker    string = "Worker"
	NSLifecycle string = "Lifecycle"
	NSoConsole  string = "Console"
	NSoFile     string = "File"
	NSoHTTP     string = "HTTP"
	NSoBeats    string = "Beats"
	NSoJrnl     string = "Journal"
	NSoStdIn    string = "Stdin"
)
