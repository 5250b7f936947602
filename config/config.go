// Package config loads server configuration from the environment and an
// optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Redis   RedisConfig
	Bank    BankConfig
	Records RecordsConfig
	Session SessionConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port    string
	Timeout int // seconds, applied to read and write
}

// RedisConfig holds token record store settings
type RedisConfig struct {
	Addresses []string
	Password  string
	DB        int
	KeyPrefix string
}

// BankConfig holds open-banking integration settings
type BankConfig struct {
	Name            string
	ClientID        string
	ClientSecret    string
	RedirectURI     string
	Scopes          []string
	AuthURL         string
	TokenURL        string
	APIBaseURL      string
	CertificatePath string
	PrivateKeyPath  string
	RequestTimeout  time.Duration
}

// RecordsConfig holds the financial record database settings
type RecordsConfig struct {
	DatabasePath string
}

// SessionConfig holds cookie session settings
type SessionConfig struct {
	Secret string
}

// Load reads configuration from financas.yaml (if present) and the
// environment. Environment variables use the FINANCAS_ prefix with
// underscores, e.g. FINANCAS_BANK_CLIENTID.
func Load() (Config, error) {
	v := viper.New()

	v.SetConfigName("financas")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/financas")

	v.SetEnvPrefix("FINANCAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 15)
	v.SetDefault("redis.addresses", []string{"localhost:6379"})
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.keyprefix", "financas")
	v.SetDefault("bank.name", "itau")
	v.SetDefault("bank.authurl", "https://sts.itau.com.br")
	v.SetDefault("bank.tokenurl", "https://sts.itau.com.br/token")
	v.SetDefault("bank.apibaseurl", "https://api.itau.com.br")
	v.SetDefault("bank.scopes", []string{"openid", "accounts", "transactions"})
	v.SetDefault("bank.requesttimeout", 30*time.Second)
	v.SetDefault("records.databasepath", "financas.db")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; env and defaults still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Server: ServerConfig{
			Port:    v.GetString("server.port"),
			Timeout: v.GetInt("server.timeout"),
		},
		Redis: RedisConfig{
			Addresses: v.GetStringSlice("redis.addresses"),
			Password:  v.GetString("redis.password"),
			DB:        v.GetInt("redis.db"),
			KeyPrefix: v.GetString("redis.keyprefix"),
		},
		Bank: BankConfig{
			Name:            v.GetString("bank.name"),
			ClientID:        v.GetString("bank.clientid"),
			ClientSecret:    v.GetString("bank.clientsecret"),
			RedirectURI:     v.GetString("bank.redirecturi"),
			Scopes:          v.GetStringSlice("bank.scopes"),
			AuthURL:         v.GetString("bank.authurl"),
			TokenURL:        v.GetString("bank.tokenurl"),
			APIBaseURL:      v.GetString("bank.apibaseurl"),
			CertificatePath: v.GetString("bank.certificatepath"),
			PrivateKeyPath:  v.GetString("bank.privatekeypath"),
			RequestTimeout:  v.GetDuration("bank.requesttimeout"),
		},
		Records: RecordsConfig{
			DatabasePath: v.GetString("records.databasepath"),
		},
		Session: SessionConfig{
			Secret: v.GetString("session.secret"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Bank.ClientID == "" {
		return fmt.Errorf("bank client id is required (FINANCAS_BANK_CLIENTID)")
	}
	if c.Bank.ClientSecret == "" {
		return fmt.Errorf("bank client secret is required (FINANCAS_BANK_CLIENTSECRET)")
	}
	if c.Bank.RedirectURI == "" {
		return fmt.Errorf("bank redirect URI is required (FINANCAS_BANK_REDIRECTURI)")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session secret is required (FINANCAS_SESSION_SECRET)")
	}
	return nil
}
