package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
)

// Backends the client can keep entries in.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendFiles  = "files"
	BackendRemote = "remote"
)

const defaultDataDir = "~/.mymoment"

// Config holds runtime settings for the MyMoment terminal client.
//
// Fields:
//   - Backend: where entries and accounts live (memory, sqlite, files, remote).
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint (remote only).
//   - DataDir: directory for the SQLite database, entry files and the log.
//   - LogFile: log file path; empty means DataDir/mymoment.log.
//   - GeoapifyAPIKey: enables reverse geocoding of location fixes.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - Seed: start the demo entries in every new collection.
type Config struct {
	Backend             string
	ServerEndpointAddr  string
	DataDir             string
	LogFile             string
	GeoapifyAPIKey      string
	OnlineCheckInterval time.Duration
	Seed                bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Backend = BackendSQLite
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DataDir = defaultDataDir
	c.LogFile = ""
	c.GeoapifyAPIKey = ""
	c.OnlineCheckInterval = 3 * time.Second
	c.Seed = false
}

// Validate rejects an unknown backend and expands "~" in DataDir.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendSQLite, BackendFiles, BackendRemote:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	dir, err := homedir.Expand(c.DataDir)
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	c.DataDir = dir
	return nil
}

// LogPath is LogFile, or mymoment.log inside DataDir.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "mymoment.log")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones. Any error panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
