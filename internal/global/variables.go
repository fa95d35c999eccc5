package global

var (
	CmdOpts  *CommandSet // Holds CLI command definition
	Hostname string      // local machine name
	PID      int         // self

	// Integer for printing increasingly detailed information as program progresses
	//
	//	0 - None: quiet (prints nothing but errors)
	//	1 - Standard: normal progress messages
	//	2 - Progress: more progress messages (no actual data outputted)
	//	3 - Data: shows limited data being processed
	//	4 - FullData: shows full data being processed
	//	5 - Debug: per-batch delivery traces
	Verbosity int
)
