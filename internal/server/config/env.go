package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "SOCIALHUB_"

// parseEnv overlays SOCIALHUB_* environment variables. A dotenv file named by
// -env (or ./.env when present) is loaded first; variables already set in the
// process environment take precedence over the file.
func parseEnv(config *Config) {
	if file := flagx.EnvFileFlags(); file != "" {
		if err := godotenv.Load(file); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.LogLevel, "LOG_LEVEL")

	envString(&config.SessionBackend, "SESSION_BACKEND")
	envString(&config.RedisAddr, "REDIS_ADDR")
	envString(&config.RedisPassword, "REDIS_PASSWORD")
	envInt(&config.RedisDB, "REDIS_DB")

	envToken(&config.AccessToken, "ACCESS_TOKEN")
	envToken(&config.RefreshToken, "REFRESH_TOKEN")
	envToken(&config.EmailVerifyToken, "EMAIL_VERIFY_TOKEN")
	envToken(&config.ForgotPasswordToken, "FORGOT_PASSWORD_TOKEN")

	envString(&config.Google.ClientID, "GOOGLE_CLIENT_ID")
	envString(&config.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	envString(&config.Google.RedirectURI, "GOOGLE_REDIRECT_URI")
	envString(&config.Google.TokenURL, "GOOGLE_TOKEN_URL")
	envString(&config.Google.JWKSURL, "GOOGLE_JWKS_URL")
	envString(&config.Google.Issuer, "GOOGLE_ISSUER")
	envString(&config.Google.ClientRedirectURL, "GOOGLE_CLIENT_REDIRECT_URL")

	envString(&config.NotifyBackend, "NOTIFY_BACKEND")
	envString(&config.NATSURL, "NATS_URL")
	envString(&config.NATSSubjectPrefix, "NATS_SUBJECT_PREFIX")
	envString(&config.ResendAPIKey, "RESEND_API_KEY")
	envString(&config.MailFrom, "MAIL_FROM")
	envString(&config.AppBaseURL, "APP_BASE_URL")
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// envToken reads <KEY>_SECRET and <KEY>_TTL.
func envToken(dst *TokenConfig, key string) {
	envString(&dst.Secret, key+"_SECRET")
	if v, ok := os.LookupEnv(envPrefix + key + "_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			dst.TTL = d
		}
	}
}
