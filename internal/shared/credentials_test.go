package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAPIKey(t *testing.T) {
	t.Run("Reads Trimmed Key File", func(t *testing.T) {
		keyFile := filepath.Join(t.TempDir(), "api_key.txt")
		if err := os.WriteFile(keyFile, []byte("  secret-key\n"), 0600); err != nil {
			t.Fatalf("failed to write key file: %v", err)
		}

		key, err := LoadAPIKey(CredentialsConfig{APIKeyFile: keyFile, APIKey: "from-config"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if key != "secret-key" {
			t.Errorf("expected secret-key, got %q", key)
		}
	})

	t.Run("Falls Back To Config Key", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "from-env")

		key, err := LoadAPIKey(CredentialsConfig{
			APIKeyFile: filepath.Join(t.TempDir(), "missing.txt"),
			APIKey:     "from-config",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if key != "from-config" {
			t.Errorf("expected from-config, got %q", key)
		}
	})

	t.Run("Falls Back To Environment", func(t *testing.T) {
		t.Setenv(APIKeyEnv, " from-env ")

		key, err := LoadAPIKey(CredentialsConfig{APIKeyFile: filepath.Join(t.TempDir(), "missing.txt")})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if key != "from-env" {
			t.Errorf("expected from-env, got %q", key)
		}
	})

	t.Run("Empty Key File Is Skipped", func(t *testing.T) {
		keyFile := filepath.Join(t.TempDir(), "api_key.txt")
		if err := os.WriteFile(keyFile, []byte("\n"), 0600); err != nil {
			t.Fatalf("failed to write key file: %v", err)
		}

		key, err := LoadAPIKey(CredentialsConfig{APIKeyFile: keyFile, APIKey: "from-config"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if key != "from-config" {
			t.Errorf("expected from-config, got %q", key)
		}
	})

	t.Run("Missing Everywhere", func(t *testing.T) {
		t.Setenv(APIKeyEnv, "")

		_, err := LoadAPIKey(CredentialsConfig{APIKeyFile: filepath.Join(t.TempDir(), "missing.txt")})
		if !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestWriteAPIKey(t *testing.T) {
	t.Run("Writes Owner Only File", func(t *testing.T) {
		keyFile := filepath.Join(t.TempDir(), "api_key.txt")

		if err := WriteAPIKey(keyFile, " abc123 "); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		info, err := os.Stat(keyFile)
		if err != nil {
			t.Fatalf("expected key file to exist: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
		}

		key, err := LoadAPIKey(CredentialsConfig{APIKeyFile: keyFile})
		if err != nil {
			t.Fatalf("expected no error reading back, got %v", err)
		}
		if key != "abc123" {
			t.Errorf("expected abc123, got %q", key)
		}
	})

	t.Run("Rejects Empty Key", func(t *testing.T) {
		err := WriteAPIKey(filepath.Join(t.TempDir(), "k"), "   ")
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
