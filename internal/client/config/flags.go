package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/flagx"
)

// parseFlags populates Config from command-line flags:
//
//	-a string   address and port of the identity server
//	-s string   path of the local state database
//	-t int      per-request timeout (in seconds)
//	-i int      online check interval (in seconds)
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.StateDBPath, "s", cfg.StateDBPath, "path of the local state database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
}
