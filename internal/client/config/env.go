package config

import (
	"os"

	"github.com/dmitrijs2005/socialhub/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays SOCIALHUB_SERVER_ADDR and SOCIALHUB_STATE_DB, after
// loading the dotenv file named by -env (or ./.env when present).
func parseEnv(cfg *Config) {
	if file := flagx.EnvFileFlags(); file != "" {
		if err := godotenv.Load(file); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv("SOCIALHUB_SERVER_ADDR"); v != "" {
		cfg.ServerEndpointAddr = v
	}
	if v := os.Getenv("SOCIALHUB_STATE_DB"); v != "" {
		cfg.StateDBPath = v
	}
}
