package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/socialhub/internal/flagx"
	"github.com/dmitrijs2005/socialhub/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration file.
// Durations accept Go duration strings ("15m") or integer nanoseconds.
//
// Fields missing from the file leave the current value untouched.
type JsonConfig struct {
	EndpointAddrGRPC string `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP string `json:"endpoint_addr_http"`
	DatabaseDSN      string `json:"database_dsn"`
	LogLevel         string `json:"log_level"`

	SessionBackend string `json:"session_backend"`
	RedisAddr      string `json:"redis_addr"`
	RedisPassword  string `json:"redis_password"`
	RedisDB        *int   `json:"redis_db"`

	AccessTokenSecret         string         `json:"access_token_secret"`
	AccessTokenTTL            timex.Duration `json:"access_token_ttl"`
	RefreshTokenSecret        string         `json:"refresh_token_secret"`
	RefreshTokenTTL           timex.Duration `json:"refresh_token_ttl"`
	EmailVerifyTokenSecret    string         `json:"email_verify_token_secret"`
	EmailVerifyTokenTTL       timex.Duration `json:"email_verify_token_ttl"`
	ForgotPasswordTokenSecret string         `json:"forgot_password_token_secret"`
	ForgotPasswordTokenTTL    timex.Duration `json:"forgot_password_token_ttl"`

	GoogleClientID          string `json:"google_client_id"`
	GoogleClientSecret      string `json:"google_client_secret"`
	GoogleRedirectURI       string `json:"google_redirect_uri"`
	GoogleTokenURL          string `json:"google_token_url"`
	GoogleJWKSURL           string `json:"google_jwks_url"`
	GoogleIssuer            string `json:"google_issuer"`
	GoogleClientRedirectURL string `json:"google_client_redirect_url"`

	NotifyBackend     string `json:"notify_backend"`
	NATSURL           string `json:"nats_url"`
	NATSSubjectPrefix string `json:"nats_subject_prefix"`
	ResendAPIKey      string `json:"resend_api_key"`
	MailFrom          string `json:"mail_from"`
	AppBaseURL        string `json:"app_base_url"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config flags. If neither flag is set nothing is loaded.
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogLevel, c.LogLevel)

	setString(&config.SessionBackend, c.SessionBackend)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}

	setString(&config.AccessToken.Secret, c.AccessTokenSecret)
	setDuration(&config.AccessToken, c.AccessTokenTTL)
	setString(&config.RefreshToken.Secret, c.RefreshTokenSecret)
	setDuration(&config.RefreshToken, c.RefreshTokenTTL)
	setString(&config.EmailVerifyToken.Secret, c.EmailVerifyTokenSecret)
	setDuration(&config.EmailVerifyToken, c.EmailVerifyTokenTTL)
	setString(&config.ForgotPasswordToken.Secret, c.ForgotPasswordTokenSecret)
	setDuration(&config.ForgotPasswordToken, c.ForgotPasswordTokenTTL)

	setString(&config.Google.ClientID, c.GoogleClientID)
	setString(&config.Google.ClientSecret, c.GoogleClientSecret)
	setString(&config.Google.RedirectURI, c.GoogleRedirectURI)
	setString(&config.Google.TokenURL, c.GoogleTokenURL)
	setString(&config.Google.JWKSURL, c.GoogleJWKSURL)
	setString(&config.Google.Issuer, c.GoogleIssuer)
	setString(&config.Google.ClientRedirectURL, c.GoogleClientRedirectURL)

	setString(&config.NotifyBackend, c.NotifyBackend)
	setString(&config.NATSURL, c.NATSURL)
	setString(&config.NATSSubjectPrefix, c.NATSSubjectPrefix)
	setString(&config.ResendAPIKey, c.ResendAPIKey)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.AppBaseURL, c.AppBaseURL)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *TokenConfig, v timex.Duration) {
	if v.Duration > 0 {
		dst.TTL = v.Duration
	}
}
