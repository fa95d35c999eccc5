package cli

import (
	"logshipper/internal/global"

	"github.com/spf13/pflag"
)

func SetGlobalArguments(fs *pflag.FlagSet) {
	fs.IntVarP(&global.Verbosity, "verbosity", "v", 1, "Increase detailed progress messages (Higher is more verbose) <0...5>")
}

func SetCommon(fs *pflag.FlagSet, configPath *string) {
	fs.StringVarP(configPath, "config", "c", global.DefaultConfigPath, "Path to the configuration file (.jsonc, .json, .yaml)")
}
