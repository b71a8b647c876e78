// Package config resolves telosgraph settings from flags, environment
// variables, an optional config file and a .env file, in that order of
// precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/HendryAvila/telosgraph/internal/logging"
)

// Setting keys.
const (
	KeyConfigFile     = "config"
	KeyMemoryPath     = "memory_path"
	KeyDataDir        = "data_dir"
	KeyLogLevel       = "log.level"
	KeyLogFile        = "log.file"
	KeyLogFormat      = "log.format"
	KeyJournalEnabled = "journal.enabled"
)

// DefaultMemoryFile is the graph file used when none is configured,
// relative to the working directory.
const DefaultMemoryFile = "memory.jsonl"

// Config is the resolved server configuration.
type Config struct {
	// MemoryPath is the absolute path of the JSONL graph file.
	MemoryPath string
	// DataDir holds server state other than the graph (the diagnostics database).
	DataDir        string
	JournalEnabled bool
	Log            logging.Config
}

// flagKeys maps command-line flag names to setting keys.
var flagKeys = map[string]string{
	"config":      KeyConfigFile,
	"memory-path": KeyMemoryPath,
	"data-dir":    KeyDataDir,
	"log-level":   KeyLogLevel,
	"log-file":    KeyLogFile,
	"log-format":  KeyLogFormat,
}

// New returns a viper instance with defaults and environment bindings.
//
// MEMORY_FILE_PATH keeps the name other memory servers use; everything
// else lives under the TELOS_ prefix (TELOS_DATA_DIR, TELOS_LOG_LEVEL, ...).
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyMemoryPath, DefaultMemoryFile)
	v.SetDefault(KeyDataDir, defaultDataDir())
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, logging.FormatJSON)
	v.SetDefault(KeyJournalEnabled, true)

	v.SetEnvPrefix("TELOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv(KeyMemoryPath, "MEMORY_FILE_PATH", "TELOS_MEMORY_PATH")
	return v
}

// BindFlags binds the known flags present in fs to their keys.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("config: bind flag %s: %w", name, err)
		}
	}
	// --no-journal is the inverse of journal.enabled.
	if f := fs.Lookup("no-journal"); f != nil && f.Changed {
		v.Set(KeyJournalEnabled, f.Value.String() != "true")
	}
	return nil
}

// LoadDotEnv loads .env from the working directory if it exists. Variables
// already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load resolves v into a Config. A config file named by the "config" key
// is read first; an unreadable one is an error.
func Load(v *viper.Viper) (*Config, error) {
	if path := v.GetString(KeyConfigFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	memPath := v.GetString(KeyMemoryPath)
	if memPath == "" {
		memPath = DefaultMemoryFile
	}
	memPath, err := filepath.Abs(expandHome(memPath))
	if err != nil {
		return nil, fmt.Errorf("config: memory path: %w", err)
	}

	dataDir := v.GetString(KeyDataDir)
	if dataDir == "" {
		dataDir = defaultDataDir()
	}
	dataDir, err = filepath.Abs(expandHome(dataDir))
	if err != nil {
		return nil, fmt.Errorf("config: data dir: %w", err)
	}

	return &Config{
		MemoryPath:     memPath,
		DataDir:        dataDir,
		JournalEnabled: v.GetBool(KeyJournalEnabled),
		Log: logging.Config{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
			File:   expandHome(v.GetString(KeyLogFile)),
		},
	}, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".telosgraph"
	}
	return filepath.Join(home, ".telosgraph")
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
