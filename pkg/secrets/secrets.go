package secrets

import (
	"context"
	"errors"
	"sync"

	"support-bot-demo/backend/pkg/logger"
)

// Source resolves deployment secrets such as the JWT signing key and the
// database password. Implementations fall back to environment variables
// when the backing store has no entry.
type Source interface {
	GetSecret(ctx context.Context, key string) (string, error)
	GetSecretWithDefault(ctx context.Context, key, defaultValue string) string
}

var (
	ErrNotInitialized = errors.New("secrets source not initialized")

	defaultSource Source
	sourceOnce    sync.Once
)

// Init sets up the default Vault-backed source. Safe to call more than
// once; only the first call does work.
func Init(log *logger.Logger) error {
	var err error
	sourceOnce.Do(func() {
		source, initErr := NewVaultSource(log)
		if initErr != nil {
			err = initErr
			return
		}
		defaultSource = source
	})
	return err
}

func GetSecret(ctx context.Context, key string) (string, error) {
	if defaultSource == nil {
		return "", ErrNotInitialized
	}
	return defaultSource.GetSecret(ctx, key)
}

func GetSecretWithDefault(ctx context.Context, key, defaultValue string) string {
	if defaultSource == nil {
		return defaultValue
	}
	return defaultSource.GetSecretWithDefault(ctx, key, defaultValue)
}

// SetSource replaces the default source, primarily for tests.
func SetSource(source Source) {
	defaultSource = source
}
