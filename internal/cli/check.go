package cli

import (
	"context"
	"fmt"
	"io"
	"logshipper/internal/global"
	"logshipper/internal/shipper"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

func CheckMode(ctx context.Context, commandname string, args []string) {
	var configPath string
	commandFlags := pflag.NewFlagSet(commandname, pflag.ExitOnError)
	SetGlobalArguments(commandFlags)
	SetCommon(commandFlags, &configPath)

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
	}
	commandFlags.Parse(args)

	daemonConfig, err := loadDaemonConfig(commandFlags, configPath, nil, shipOverrides{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printEffectiveConfig(os.Stdout, daemonConfig)
}

// Writes the settings the daemon would run with
func printEffectiveConfig(w io.Writer, cfg shipper.Config) {
	pipeline := cfg.Pipeline
	fmt.Fprintf(w, "Pipeline:\n")
	fmt.Fprintf(w, "  batch size:          %d\n", pipeline.BatchSize)
	fmt.Fprintf(w, "  flush interval:      %s\n", pipeline.FlushInterval)
	fmt.Fprintf(w, "  queue capacity:      %d\n", pipeline.QueueCapacity)
	fmt.Fprintf(w, "Circuit breaker:\n")
	fmt.Fprintf(w, "  failure threshold:   %d\n", pipeline.BreakerThreshold)
	fmt.Fprintf(w, "  cooldown:            %s\n", pipeline.BreakerCooldown)
	fmt.Fprintf(w, "Retry:\n")
	fmt.Fprintf(w, "  attempts:            %d\n", pipeline.Retry.Attempts)
	fmt.Fprintf(w, "  backoff:             %s x%g up to %s\n", pipeline.Retry.BackoffInitial, pipeline.Retry.BackoffFactor, pipeline.Retry.BackoffMax)
	fmt.Fprintf(w, "Shutdown:\n")
	fmt.Fprintf(w, "  max failed rounds:   %d\n", pipeline.ShutdownMaxRounds)
	fmt.Fprintf(w, "  pause:               %s\n", pipeline.ShutdownPause)
	fmt.Fprintf(w, "Sink:                  %s\n", cfg.Sink.Type)
	fmt.Fprintf(w, "Inputs:                %s\n", strings.Join(cfg.InputPaths, ", "))
	fmt.Fprintf(w, "Default severity:      %s\n", cfg.DefaultSeverity)
	if cfg.MetricQueryServerEnabled {
		fmt.Fprintf(w, "Metric server:         %s:%d\n", global.HTTPListenAddr, cfg.MetricQueryServerPort)
	}
}
