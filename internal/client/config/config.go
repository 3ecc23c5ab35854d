package config

import "time"

// Config holds runtime settings for the socialhub CLI.
type Config struct {
	ServerEndpointAddr  string
	// StateDBPath is the SQLite file that keeps the session tokens between runs.
	StateDBPath         string
	RequestTimeout      time.Duration
	// OnlineCheckInterval is how often the CLI pings the server.
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.StateDBPath = "socialhub.db"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 30 * time.Second
}

// LoadConfig applies defaults, then JSON, environment and flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
