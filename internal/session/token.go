package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// tokenFile is the on-disk shape of the persisted credential. The token is
// the only client-side state that survives a restart.
type tokenFile struct {
	Token string `toml:"token"`
}

// readToken loads the persisted bearer token. A missing file means no token
// and is not an error.
func readToken(path string) (string, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}

	var tf tokenFile
	if err := toml.Unmarshal(bytes, &tf); err != nil {
		return "", fmt.Errorf("parse token file: %w", err)
	}
	return strings.TrimSpace(tf.Token), nil
}

// writeToken persists the bearer token, creating directories as needed.
func writeToken(path, token string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}

	bytes, err := toml.Marshal(tokenFile{Token: token})
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}

	// 0600: the token is a credential.
	if err := os.WriteFile(path, bytes, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// removeToken deletes the persisted token. Missing file is fine.
func removeToken(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
