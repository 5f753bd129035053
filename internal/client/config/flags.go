package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/mymoment/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   backend: memory, sqlite, files or remote
//	-a string   address and port of the backend server
//	-d string   data directory
//	-l string   log file
//	-g string   Geoapify API key
//	-i int      online check interval in seconds
//	-s          seed demo entries
//
// os.Args is filtered with flagx.FilterArgs first, so flags meant for other
// layers (such as -c) do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-a", "-d", "-l", "-g", "-i", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "backend: memory, sqlite, files or remote")
	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file (default <data dir>/mymoment.log)")
	fs.StringVar(&cfg.GeoapifyAPIKey, "g", cfg.GeoapifyAPIKey, "Geoapify API key for addresses")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.BoolVar(&cfg.Seed, "s", cfg.Seed, "seed demo entries")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
