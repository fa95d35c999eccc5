package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"logshipper/internal/global"
	"logshipper/internal/lifecycle"
	"logshipper/internal/logctx"
	"logshipper/internal/shipper"
	"os"

	"github.com/spf13/pflag"
)

// Command line overrides applied on top of the config file
type shipOverrides struct {
	severity string
	sinkType string
	filePath string
	httpURL  string
}

func ShipMode(ctx context.Context, commandname string, args []string) {
	var configPath string
	var overrides shipOverrides
	commandFlags := pflag.NewFlagSet(commandname, pflag.ExitOnError)
	SetGlobalArguments(commandFlags)
	SetCommon(commandFlags, &configPath)
	commandFlags.StringVarP(&overrides.severity, "severity", "s", "", "Severity for lines without a recognizable level (TRACE, DEBUG, INFO, WARN, ERROR, FATAL)")
	commandFlags.StringVar(&overrides.sinkType, "sink", "", "Sink type (console, file, http, beats, journald, discard)")
	commandFlags.StringVar(&overrides.filePath, "output-file", "", "Output file for the file sink")
	commandFlags.StringVar(&overrides.httpURL, "url", "", "Endpoint for the http sink")

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
	}
	commandFlags.Parse(args)
	logctx.SetLogLevel(ctx, global.Verbosity)

	daemonConfig, err := loadDaemonConfig(commandFlags, configPath, commandFlags.Args(), overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	shipDaemon := shipper.NewDaemon(daemonConfig)
	err = shipDaemon.Start(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting shipping daemon: %v\n", err)
		os.Exit(1)
	}

	signalCtx, stopSignals := context.WithCancel(ctx)
	defer stopSignals()
	go lifecycle.SignalHandler(signalCtx, shipDaemon)

	shipDaemon.Run()
	shipDaemon.Shutdown()
}

// Reads the config file (optional when left at its default path), applies overrides, and converts to daemon config
func loadDaemonConfig(commandFlags *pflag.FlagSet, configPath string, inputs []string, overrides shipOverrides) (daemonConfig shipper.Config, err error) {
	var jsonCfg shipper.JSONConfig
	jsonCfg, err = shipper.LoadConfig(configPath)
	if err != nil {
		if commandFlags.Changed("config") || !errors.Is(err, fs.ErrNotExist) {
			return
		}
		err = nil
	}

	if overrides.severity != "" {
		jsonCfg.Inputs.DefaultSeverity = overrides.severity
	}
	if overrides.sinkType != "" {
		jsonCfg.Sink.Type = overrides.sinkType
	}
	if overrides.filePath != "" {
		jsonCfg.Sink.File.Path = overrides.filePath
	}
	if overrides.httpURL != "" {
		jsonCfg.Sink.HTTP.URL = overrides.httpURL
	}
	if len(inputs) > 0 {
		jsonCfg.Inputs.FilePaths = inputs
	}
	if len(jsonCfg.Inputs.FilePaths) == 0 {
		jsonCfg.Inputs.FilePaths = []string{"-"}
	}

	daemonConfig, err = jsonCfg.NewDaemonConf()
	return
}
