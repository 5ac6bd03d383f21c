package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"

	"support-bot-demo/backend/pkg/logger"
)

var (
	ErrSecretNotFound = errors.New("secret not found")
	ErrNoVaultToken   = errors.New("no vault token provided")
	ErrNoVaultAddress = errors.New("no vault address provided")
)

const defaultSecretsPath = "secret/data/support-bot"

type VaultConfig struct {
	Address     string
	Token       string
	Namespace   string
	Timeout     time.Duration
	MaxRetries  int
	SecretsPath string
	Enabled     bool
}

// VaultSource reads secrets from HashiCorp Vault with an in-memory cache.
// When VAULT_ENABLED is off it resolves everything from the environment,
// which is how local development runs.
type VaultSource struct {
	client *vault.Client
	config VaultConfig
	cache  map[string]string
	mu     sync.RWMutex
	log    *logger.Logger
}

func NewVaultSource(log *logger.Logger) (*VaultSource, error) {
	config := VaultConfig{
		Address:     os.Getenv("VAULT_ADDR"),
		Token:       os.Getenv("VAULT_TOKEN"),
		Namespace:   os.Getenv("VAULT_NAMESPACE"),
		SecretsPath: os.Getenv("VAULT_SECRETS_PATH"),
		Enabled:     false,
		Timeout:     10 * time.Second,
		MaxRetries:  3,
	}
	if enabled := os.Getenv("VAULT_ENABLED"); enabled != "" {
		config.Enabled = enabled == "true" || enabled == "1" || enabled == "yes"
	}

	if !config.Enabled {
		return &VaultSource{
			config: config,
			cache:  make(map[string]string),
			log:    log,
		}, nil
	}

	if config.Address == "" {
		return nil, ErrNoVaultAddress
	}
	if config.Token == "" {
		return nil, ErrNoVaultToken
	}
	if config.SecretsPath == "" {
		config.SecretsPath = defaultSecretsPath
	}

	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = config.Address
	vaultConfig.Timeout = config.Timeout
	vaultConfig.MaxRetries = config.MaxRetries

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	client.SetToken(config.Token)
	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	return &VaultSource{
		client: client,
		config: config,
		cache:  make(map[string]string),
		log:    log,
	}, nil
}

func (s *VaultSource) GetSecret(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	cached, found := s.cache[key]
	s.mu.RUnlock()
	if found {
		return cached, nil
	}

	if !s.config.Enabled {
		return s.getFromEnvironment(key)
	}

	value, err := s.getFromVault(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			s.log.Warn("Secret not found in Vault, falling back to environment", "key", key)
			return s.getFromEnvironment(key)
		}
		return "", err
	}

	s.cacheSecret(key, value)
	return value, nil
}

func (s *VaultSource) GetSecretWithDefault(ctx context.Context, key, defaultValue string) string {
	value, err := s.GetSecret(ctx, key)
	if err != nil {
		return defaultValue
	}
	return value
}

func (s *VaultSource) getFromVault(ctx context.Context, key string) (string, error) {
	secret, err := s.client.KVv2("secret").Get(ctx, s.config.SecretsPath)
	if err != nil {
		s.log.Error("Failed to read secret from Vault", "path", s.config.SecretsPath, "error", err.Error())
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return "", ErrSecretNotFound
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", ErrSecretNotFound
	}
	value, ok := data[key].(string)
	if !ok {
		return "", ErrSecretNotFound
	}
	return value, nil
}

// getFromEnvironment maps key names like "jwt-secret" or "db.password"
// to JWT_SECRET / DB_PASSWORD.
func (s *VaultSource) getFromEnvironment(key string) (string, error) {
	envKey := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(key))
	value := os.Getenv(envKey)
	if value == "" {
		return "", ErrSecretNotFound
	}
	s.cacheSecret(key, value)
	return value, nil
}

func (s *VaultSource) cacheSecret(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = value
}
