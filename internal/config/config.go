// Package config loads the pokedeck client configuration from a TOML file,
// with environment variables taking precedence over file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the fields the pokedeck client needs.
type Config struct {
	APIURL     string // backend REST base URL
	PokeAPIURL string // species service base URL
	TokenPath  string // persisted bearer token location
}

const (
	defaultConfigPath = "~/.config/pokedeck/config.toml"
	defaultAPIURL     = "http://localhost:8000"
	defaultPokeAPIURL = "https://pokeapi.co/api/v2"
	defaultTokenPath  = "~/.config/pokedeck/token.toml"
)

// Load locates and parses the config file, falling back to defaults when
// missing. POKEDECK_API_URL, POKEDECK_POKEAPI_URL, and POKEDECK_TOKEN_PATH
// override file values.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIURL:     defaultAPIURL,
		PokeAPIURL: defaultPokeAPIURL,
		TokenPath:  defaultTokenPath,
	}

	bytes, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// no config file; defaults plus env
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		var raw struct {
			APIURL     string `toml:"api_url"`
			PokeAPIURL string `toml:"pokeapi_url"`
			TokenPath  string `toml:"token_path"`
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if v := strings.TrimSpace(raw.APIURL); v != "" {
			cfg.APIURL = v
		}
		if v := strings.TrimSpace(raw.PokeAPIURL); v != "" {
			cfg.PokeAPIURL = v
		}
		if v := strings.TrimSpace(raw.TokenPath); v != "" {
			cfg.TokenPath = v
		}
	}

	applyEnv(&cfg)

	cfg.TokenPath = mustExpand(cfg.TokenPath)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("POKEDECK_API_URL")); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv("POKEDECK_POKEAPI_URL")); v != "" {
		cfg.PokeAPIURL = v
	}
	if v := strings.TrimSpace(os.Getenv("POKEDECK_TOKEN_PATH")); v != "" {
		cfg.TokenPath = v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
