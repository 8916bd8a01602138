package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// APIKeyEnv names the environment variable consulted when neither the key file nor the config carries a key.
const APIKeyEnv = "CATALOGAI_API_KEY"

// LoadAPIKey resolves the API key: the bare key file first, then credentials.api_key, then [APIKeyEnv].
//
// A .env file in the working directory is loaded (without overriding the real environment) before the env lookup.
func LoadAPIKey(creds CredentialsConfig) (string, error) {
	if creds.APIKeyFile != "" {
		data, err := os.ReadFile(creds.APIKeyFile)
		switch {
		case err == nil:
			if key := strings.TrimSpace(string(data)); key != "" {
				return key, nil
			}
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("failed to read api key file: %w", err)
		}
	}

	if key := strings.TrimSpace(creds.APIKey); key != "" {
		return key, nil
	}

	_ = godotenv.Load()
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		return key, nil
	}

	return "", fmt.Errorf("%w: write the key to %s or set %s", ErrMissingCredentials, creds.APIKeyFile, APIKeyEnv)
}

// WriteAPIKey stores key in a bare key file readable only by the owner.
func WriteAPIKey(path, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: empty api key", ErrInvalidArgument)
	}
	if err := os.WriteFile(path, []byte(key+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write api key file: %w", err)
	}
	return nil
}
