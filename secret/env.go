package secret

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// envProvider serves env:// references from the process environment.
type envProvider struct{}

// NewEnvProvider creates a provider that resolves "env://VAR_NAME"
// references.
func NewEnvProvider() Provider {
	return envProvider{}
}

func (envProvider) Scheme() string {
	return "env"
}

func (envProvider) Resolve(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("secret: env key is empty")
	}
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", fmt.Errorf("secret: environment variable %q is not set", key)
	}
	return value, nil
}
