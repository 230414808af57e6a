package tcd

// Application-wide defaults shared across packages.
const (
	DefaultAppName      = "toolcall-decoder"
	DefaultConfigPath   = "/etc/toolcall-decoder"
	DefaultDatabaseDir  = "./data"
	DefaultDatabasePath = "./data/toolcall-decoder.db"

	// DefaultMaxValueSteps bounds free-value generation per argument.
	DefaultMaxValueSteps = 20
)
