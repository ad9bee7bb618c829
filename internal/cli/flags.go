package cli

// Flags contains the global flags of one command tree
type Flags struct {
	ConfigFile    string
	LogLevel      string
	LogFormat     string
	Verbose       int
	DebugGit      bool
	DebugClone    bool
	DebugGenerate bool
	NoColor       bool
}

// cloneFlags are shared by clone and populate
type cloneFlags struct {
	DataDir  string
	Populate bool
	Seed     uint64
}
