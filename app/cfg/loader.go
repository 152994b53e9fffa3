package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Run parameters
	TargetDate string `long:"date" env:"TARGET_DATE" description:"Target release date (YYYY-MM-DD, MM/DD/YYYY, YYYYMMDD, ...); defaults to the 4th upcoming Friday"`
	InputFile  string `long:"file" env:"CATALOG_FILE" description:"Local catalog file (.txt or .zip); when empty the catalog is fetched over FTP"`
	OutputDir  string `long:"output-dir" env:"OUTPUT_DIR" default:"." description:"Directory for the generated import CSV"`
	RulesFile  string `long:"rules" env:"RULES_FILE" description:"Optional YAML file overriding pricing/product rules"`
	BatchSize  int    `long:"batch-size" env:"BATCH_SIZE" default:"10000" description:"Number of catalog records processed per batch"`

	// Catalog FTP source
	FTPHost      string `long:"ftp-host" env:"FTP_HOST" description:"Wholesaler FTP host"`
	FTPUser      string `long:"ftp-user" env:"FTP_USERNAME" description:"Wholesaler FTP username"`
	FTPPassword  string `long:"ftp-password" env:"FTP_PASSWORD" description:"Wholesaler FTP password"`
	FTPDir       string `long:"ftp-dir" env:"FTP_REMOTE_DIRECTORY" default:"/" description:"Remote directory containing the catalog file"`
	FTPFile      string `long:"ftp-file" env:"FTP_REMOTE_FILE" default:"dfStdCatalogFull_048943_LatchKey.zip" description:"Remote catalog file name"`
	FetchTimeout int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"120" description:"FTP fetch timeout in seconds"`

	// Server mode
	Serve        bool   `long:"serve" env:"SERVE" description:"Run the HTTP server instead of a one-shot transformation"`
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Run history
	DBPath string `long:"db-path" env:"DB_PATH" default:"preorder.db" description:"SQLite run-history database path (empty disables run history)"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		TargetDate:   raw.TargetDate,
		InputFile:    raw.InputFile,
		OutputDir:    raw.OutputDir,
		RulesFile:    raw.RulesFile,
		BatchSize:    raw.BatchSize,
		FTPHost:      raw.FTPHost,
		FTPUser:      raw.FTPUser,
		FTPPassword:  raw.FTPPassword,
		FTPDir:       raw.FTPDir,
		FTPFile:      raw.FTPFile,
		FetchTimeout: raw.FetchTimeout,
		Serve:        raw.Serve,
		Port:         raw.Port,
		APIAccessKey: raw.APIAccessKey,
		DBPath:       raw.DBPath,
		Timezone:     raw.Timezone,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
