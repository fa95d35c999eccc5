package main

import (
	"context"
	"fmt"
	"logshipper/internal/cli"
	"logshipper/internal/global"
	"logshipper/internal/logctx"
	"os"
	"runtime"

	"github.com/spf13/pflag"
)

func main() {
	cliOpts := cli.DefineOptions()
	global.CmdOpts = cliOpts

	args := os.Args
	commandFlags := pflag.NewFlagSet(args[0], pflag.ExitOnError)
	commandFlags.SetInterspersed(false) // stop at the command name
	cli.SetGlobalArguments(commandFlags)

	commandFlags.Usage = func() {
		cli.PrintHelpMenu(commandFlags, cli.RootCLICommand, cliOpts)
	}
	if len(args) < 2 {
		cli.PrintHelpMenu(commandFlags, cli.RootCLICommand, cliOpts)
		os.Exit(1)
	}
	commandFlags.Parse(args[1:])

	remaining := commandFlags.Args()
	if len(remaining) < 1 {
		cli.PrintHelpMenu(commandFlags, cli.RootCLICommand, cliOpts)
		os.Exit(1)
	}

	// Retrieve command and args
	command := remaining[0]
	args = remaining[1:]

	// Setting global logging (program logs go to stderr, stdout may carry shipped records)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := logctx.NewLogger("global", global.Verbosity, ctx.Done()) // New logger tied to global
	ctx = logctx.WithLogger(ctx, logger)                               // Add logger to global ctx
	logctx.StartWatcher(logger, os.Stderr)

	// Process commands
	switch command {
	case "ship":
		cli.ShipMode(ctx, command, args)
	case "check":
		cli.CheckMode(ctx, command, args)
	case "version":
		if len(args) > 0 && (args[0] == "--verbosity" || args[0] == "-v") {
			fmt.Printf("logshipper %s\n", global.ProgVersion)
			fmt.Printf("Built using %s(%s) for %s on %s\n", runtime.Version(), runtime.Compiler, runtime.GOOS, runtime.GOARCH)
		} else {
			fmt.Println(global.ProgVersion)
		}
	default:
		cli.PrintHelpMenu(commandFlags, cli.RootCLICommand, cliOpts)
		os.Exit(1)
	}

	// Finish up any writes for global logger
	cancel()
	logger.Wake()
	logger.Wait()
}
