package cli

import (
	"fmt"
	"io"
	"logshipper/internal/global"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

const (
	RootCLICommand  string = "root"
	helpMenuTrailer string = `
Config files: JSON with comments (.jsonc/.json) or YAML (.yaml/.yml)
Verbosity 5 prints per-batch delivery traces
`
)

// Full standardized help menu for command (root when empty)
func PrintHelpMenu(fs *pflag.FlagSet, command string, rootCmd *global.CommandSet) {
	writeHelpMenu(os.Stdout, filepath.Base(os.Args[0]), fs, command, rootCmd)
}

func writeHelpMenu(w io.Writer, progName string, fs *pflag.FlagSet, command string, rootCmd *global.CommandSet) {
	const indent string = "  "

	curCmdSet := rootCmd
	usage := []string{progName}
	if command != "" && command != RootCLICommand {
		cmd, ok := rootCmd.ChildCommands[command]
		if !ok {
			fmt.Fprintf(w, "Unknown command: %s\n", command)
			return
		}
		curCmdSet = cmd
		usage = append(usage, cmd.CommandName)
	}

	if len(curCmdSet.ChildCommands) > 0 {
		usage = append(usage, "[options] <command>")
	} else {
		usage = append(usage, "[options]")
	}
	if curCmdSet.UsageOption != "" {
		usage = append(usage, curCmdSet.UsageOption)
	}
	fmt.Fprintf(w, "Usage: %s\n\n", strings.Join(usage, " "))

	if curCmdSet == rootCmd {
		fmt.Fprintf(w, "%s\n%s\n\n", curCmdSet.Description, curCmdSet.FullDescription)
	} else if curCmdSet.FullDescription != "" {
		fmt.Fprintf(w, "%sDescription:\n%s%s%s\n\n", indent, indent, indent, curCmdSet.FullDescription)
	}

	if len(curCmdSet.ChildCommands) > 0 {
		names := make([]string, 0, len(curCmdSet.ChildCommands))
		width := 0
		for name := range curCmdSet.ChildCommands {
			names = append(names, name)
			width = max(width, len(name))
		}
		slices.Sort(names)

		fmt.Fprintf(w, "%sCommands:\n", indent)
		for _, name := range names {
			fmt.Fprintf(w, "%s%s%-*s  - %s\n", indent, indent, width, name, curCmdSet.ChildCommands[name].Description)
		}
		fmt.Fprintln(w)
	}

	// pflag pairs short and long names and aligns usage text
	fmt.Fprintf(w, "%sOptions:\n", indent)
	fmt.Fprint(w, fs.FlagUsagesWrapped(100))

	if curCmdSet == rootCmd {
		fmt.Fprint(w, helpMenuTrailer)
	}
}
