package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	appDirName     = "boot-ai"
	configFileName = "config.yaml"
	apiKeyField    = "openrouter_api_key"
)

// Environment fallbacks checked when the config file carries no key.
var envVars = []string{"OPENROUTER_API_KEY", "OPENROUTER_API"}

// Resolver returns the current API key, or "" when none is configured.
// It is re-invoked on every analysis or chat submission so edits to the
// config file take effect without a restart.
type Resolver func() string

// Dir returns the application config directory, creating it if needed.
// Honors XDG_CONFIG_HOME and falls back to ~/.config.
func Dir() (string, error) {
	root := os.Getenv("XDG_CONFIG_HOME")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		root = filepath.Join(home, ".config")
	}

	dir := filepath.Join(root, appDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

// APIKey resolves the OpenRouter API key: config file first, then the
// environment fallbacks. Returns "" when nothing is configured. A file
// that exists but cannot be parsed is treated as absent.
func APIKey() string {
	if key := keyFromFile(); key != "" {
		return key
	}
	for _, name := range envVars {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return ""
}

func keyFromFile() string {
	dir, err := Dir()
	if err != nil {
		return ""
	}

	data, err := os.ReadFile(filepath.Join(dir, configFileName))
	if err != nil {
		return ""
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		// Corrupt config is deliberately treated as absent.
		return ""
	}

	key, _ := doc[apiKeyField].(string)
	return key
}

// Persist writes the API key to the config file, merging into the
// existing document so unrelated keys survive. An unparseable existing
// file is replaced with a document holding only the new key.
func Persist(apiKey string) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, configFileName)

	doc := map[string]interface{}{}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			doc = map[string]interface{}{}
		}
	}
	doc[apiKeyField] = apiKey

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
