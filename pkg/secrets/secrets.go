// Package secrets resolves credentials from Vault with an environment
// variable fallback.
package secrets

import (
	"context"
	"strings"
)

// Manager provides access to secrets from various sources
type Manager interface {
	// GetSecret retrieves a secret by key
	GetSecret(ctx context.Context, key string) (string, error)

	// GetSecretWithDefault retrieves a secret with a default value if not found
	GetSecretWithDefault(ctx context.Context, key, defaultValue string) string
}

// EnvKey converts a secret key such as "llm-api.key" into the environment
// variable consulted on fallback ("LLM_API_KEY").
func EnvKey(key string) string {
	return strings.ToUpper(envReplacer.Replace(key))
}

var envReplacer = strings.NewReplacer("-", "_", ".", "_")
