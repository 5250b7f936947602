// infrastructure/container.go
package infrastructure

import (
	"context"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/dpereira/financas/config"
	"github.com/dpereira/financas/infrastructure/redis"
	"github.com/dpereira/financas/internal/banking"
	"github.com/dpereira/financas/internal/chat"
	"github.com/dpereira/financas/internal/importer"
	"github.com/dpereira/financas/internal/records"
	"github.com/dpereira/financas/pkg/bankclient"
)

// Container provides application dependencies
type Container struct {
	// Services
	AuthService *banking.Service
	BankClient  *bankclient.Client
	Importer    *importer.Importer
	Records     *records.Store
	Responder   *chat.Responder

	// Handlers
	AuthHandler    *banking.Handler
	ImportHandler  *importer.Handler
	RecordsHandler *records.Handler
	ChatHandler    *chat.Handler

	// Infrastructure
	RedisClient goredis.UniversalClient
	RedisHealth *redis.HealthChecker
	TokenStore  banking.TokenStore

	log zerolog.Logger
}

// NewContainer creates and initializes the dependency container
func NewContainer(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{log: log}

	redisCfg := redis.DefaultConfig()
	redisCfg.Addresses = cfg.Redis.Addresses
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB

	var redisClient goredis.UniversalClient
	if len(cfg.Redis.Addresses) > 1 {
		redisClient = redis.NewClusterClient(redisCfg)
	} else {
		redisClient = redis.NewClient(redisCfg)
	}
	container.RedisClient = redisClient

	container.RedisHealth = redis.NewHealthChecker(redisClient, 30*time.Second)

	tokenStore := banking.NewFallbackTokenStore(
		redisClient, cfg.Redis.KeyPrefix, container.RedisHealth.IsHealthy, log)
	tokenStore.StartReplicationRoutine(ctx)
	container.TokenStore = tokenStore

	banking.InitSessionStore([]byte(cfg.Session.Secret))

	container.AuthService = banking.NewService(banking.OAuthConfig{
		BankName:     cfg.Bank.Name,
		ClientID:     cfg.Bank.ClientID,
		ClientSecret: cfg.Bank.ClientSecret,
		RedirectURI:  cfg.Bank.RedirectURI,
		Scopes:       cfg.Bank.Scopes,
		AuthURL:      cfg.Bank.AuthURL,
		TokenURL:     cfg.Bank.TokenURL,
		APIBaseURL:   cfg.Bank.APIBaseURL,
	}, container.TokenStore, log)

	clientOpts := []bankclient.Option{bankclient.WithTimeout(cfg.Bank.RequestTimeout)}
	if cfg.Bank.CertificatePath != "" && cfg.Bank.PrivateKeyPath != "" {
		clientOpts = append(clientOpts,
			bankclient.WithClientCertificate(cfg.Bank.CertificatePath, cfg.Bank.PrivateKeyPath))
	}
	bankClient, err := bankclient.NewClient(cfg.Bank.APIBaseURL, container.AuthService, log, clientOpts...)
	if err != nil {
		return nil, err
	}
	container.BankClient = bankClient

	store, err := records.Open(cfg.Records.DatabasePath)
	if err != nil {
		return nil, err
	}
	container.Records = store

	container.Importer = importer.New(
		cfg.Bank.Name, container.TokenStore, bankClient, store, store, log)
	container.Responder = chat.NewResponder(store, log)

	container.AuthHandler = banking.NewHandler(container.AuthService, log)
	container.ImportHandler = importer.NewHandler(container.Importer, log)
	container.RecordsHandler = records.NewHandler(store, log)
	container.ChatHandler = chat.NewHandler(container.Responder)

	return container, nil
}

// Shutdown gracefully closes connections
func (c *Container) Shutdown() {
	if c.Records != nil {
		if err := c.Records.Close(); err != nil {
			c.log.Error().Err(err).Msg("Error closing records database")
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.log.Error().Err(err).Msg("Error closing Redis connection")
		}
	}
}
