package global

// Command line command and its help text
type CommandSet struct {
	CommandName     string
	UsageOption     string                 // Positional arguments shown after the options in usage
	Description     string                 // One line summary listed under the parent command
	FullDescription string                 // Shown on the command's own help page
	ChildCommands   map[string]*CommandSet // nil for leaf commands
}

// Context value keys
type CtxKey string
