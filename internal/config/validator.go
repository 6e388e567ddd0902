package config

import (
	"fmt"
	"os"
	"strings"
)

// RequiredEnvVars lists the environment variables the chosen storage backend needs.
func RequiredEnvVars(backend string) []string {
	required := []string{"DISCORD_TOKEN"}
	if backend == StorageBackendPostgres {
		required = append(required, "DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME")
	}
	return required
}

// ValidateEnv checks that all required environment variables are set
func ValidateEnv(backend string) error {
	var missing []string
	for _, envVar := range RequiredEnvVars(backend) {
		if os.Getenv(envVar) == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%s: %s", ErrMsgMissingEnv, strings.Join(missing, ", "))
	}
	return nil
}

// Warnings reports non-fatal configuration issues such as example values or
// an unprotected API.
func (c *Config) Warnings() []string {
	var warnings []string

	if c.StorageBackend == StorageBackendPostgres && c.DBPassword == ExampleDBPassword {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}
	if c.APIKey == ExampleAPIKey {
		warnings = append(warnings, "API_KEY appears to be using the example value - generate a secure key with: openssl rand -hex 32")
	}
	if c.APIKey == "" {
		warnings = append(warnings, "API_KEY is not set - mutating API endpoints are disabled")
	}

	return warnings
}
