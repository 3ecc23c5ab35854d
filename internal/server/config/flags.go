package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-w string   HTTP bind address for health, metrics and OAuth callback
//	-d string   PostgreSQL DSN
//	-l string   log level (debug|info|warn|error)
//	-s string   session backend (postgres|redis)
//	-n string   notification backend (log|nats|resend)
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//
// Secrets are deliberately not accepted on the command line.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-w", "-d", "-l", "-s", "-n", "-t", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port to run server")
	fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.SessionBackend, "s", config.SessionBackend, "session backend (postgres|redis)")
	fs.StringVar(&config.NotifyBackend, "n", config.NotifyBackend, "notification backend (log|nats|resend)")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessToken.TTL.Minutes()), "access token validity (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshToken.TTL.Minutes()), "refresh token validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessToken.TTL = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshToken.TTL = time.Duration(*refreshTokenValidityDuration) * time.Minute
}
