package cfg

type Cfg struct {
	// Run parameters
	TargetDate string
	InputFile  string
	OutputDir  string
	RulesFile  string
	BatchSize  int

	// Catalog FTP source
	FTPHost      string
	FTPUser      string
	FTPPassword  string
	FTPDir       string
	FTPFile      string
	FetchTimeout int

	// Server mode
	Serve        bool
	Port         string
	APIAccessKey string

	// Run history
	DBPath string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
