package cli

import "logshipper/internal/global"

func DefineOptions() (cmdOpts *global.CommandSet) {
	// Root level
	root := &global.CommandSet{
		Description:     "Asynchronous Log Shipper (logshipper)",
		FullDescription: "  Buffers log lines and delivers them in batches to a remote sink with retry and circuit breaking",
		CommandName:     RootCLICommand,
		ChildCommands:   make(map[string]*global.CommandSet),
	}

	// Shipping
	root.ChildCommands["ship"] = &global.CommandSet{
		CommandName:     "ship",
		UsageOption:     "[file ...]",
		Description:     "Ship Log Lines",
		FullDescription: "Reads lines from files or stdin, batches them by severity, and delivers them to the configured sink",
		ChildCommands:   nil,
	}

	// Config check
	root.ChildCommands["check"] = &global.CommandSet{
		CommandName:     "check",
		Description:     "Check Configuration",
		FullDescription: "Loads the configuration, applies defaults, and prints the effective pipeline settings",
		ChildCommands:   nil,
	}

	// Version Info
	root.ChildCommands["version"] = &global.CommandSet{
		CommandName:     "version",
		Description:     "Show Version Information",
		FullDescription: "Display meta information about program",
	}

	cmdOpts = root
	return
}
