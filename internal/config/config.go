// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/litechat-tui/internal/util"
)

// =============================================================================
// SETTINGS
// =============================================================================

// Settings is the complete litechat configuration.
type Settings struct {
	// Gateway credentials and endpoint.
	APIKey  string `toml:"api_key" json:"api_key"`
	BaseURL string `toml:"base_url" json:"base_url"`

	// Model selection per operation kind.
	Model          string `toml:"model" json:"model"`
	ImageModel     string `toml:"image_model" json:"image_model"`
	AudioModel     string `toml:"audio_model" json:"audio_model"`
	EmbeddingModel string `toml:"embedding_model" json:"embedding_model"`

	// Generation parameters.
	Temperature float64 `toml:"temperature" json:"temperature"`
	MaxTokens   int     `toml:"max_tokens" json:"max_tokens"`

	// EnableCache asks the gateway to serve cached completions.
	EnableCache bool `toml:"enable_cache" json:"enable_cache"`

	// UI preferences.
	Theme      string `toml:"theme" json:"theme"`
	ShowCost   bool   `toml:"show_cost" json:"show_cost"`
	ShowTokens bool   `toml:"show_tokens" json:"show_tokens"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		BaseURL:        "https://api.ai.it.ufl.edu/v1",
		Model:          "llama-3.1-70b-instruct",
		ImageModel:     "flux.1-schnell",
		AudioModel:     "whisper-large-v3",
		EmbeddingModel: "nomic-embed-text-v1.5",
		Temperature:    0.7,
		MaxTokens:      1000,
		EnableCache:    false,
		Theme:          "dark",
		ShowCost:       true,
		ShowTokens:     true,
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the litechat configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".litechat"), nil
}

// PathTOML returns the TOML config file path.
func PathTOML() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// PathJSON returns the JSON config file path.
func PathJSON() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ensureSecurePermissions tightens a config file to 0600. The file
// carries the API key.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Mode().Perm()&0077 != 0 {
		return os.Chmod(path, 0600)
	}
	return nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads settings from disk: TOML first, JSON as fallback, defaults
// otherwise. Environment overrides apply in every case.
func Load() (*Settings, error) {
	s := Default()

	if path, err := PathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := loadTOML(s, path); err != nil {
				return nil, fmt.Errorf("load TOML config: %w", err)
			}
			return finish(s)
		}
	}

	if path, err := PathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := loadJSON(s, path); err != nil {
				return nil, fmt.Errorf("load JSON config: %w", err)
			}
			return finish(s)
		}
	}

	return finish(s)
}

// LoadFromPath reads settings from a specific file, picking the decoder
// by extension.
func LoadFromPath(path string) (*Settings, error) {
	s := Default()
	if strings.HasSuffix(path, ".json") {
		if err := loadJSON(s, path); err != nil {
			return nil, fmt.Errorf("load JSON config from %s: %w", path, err)
		}
	} else {
		if err := loadTOML(s, path); err != nil {
			return nil, fmt.Errorf("load TOML config from %s: %w", path, err)
		}
	}
	return finish(s)
}

func finish(s *Settings) (*Settings, error) {
	s.ApplyEnvOverrides()
	s.FillDefaults()
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return s, nil
}

func loadTOML(s *Settings, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, s); err != nil {
		return fmt.Errorf("decode TOML: %w", err)
	}
	return nil
}

func loadJSON(s *Settings, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read JSON: %w", err)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("decode JSON: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies LITECHAT_* environment variables on top of
// file values.
func (s *Settings) ApplyEnvOverrides() {
	if v := os.Getenv("LITECHAT_API_KEY"); v != "" {
		s.APIKey = v
	}
	if v := os.Getenv("LITECHAT_BASE_URL"); v != "" {
		s.BaseURL = v
	}
	if v := os.Getenv("LITECHAT_MODEL"); v != "" {
		s.Model = v
	}
}

// FillDefaults replaces zero values with built-in defaults so a partial
// config file still yields a complete Settings.
//
// Temperature is deliberately left out: 0 is a valid setting, and
// config files decode on top of Default(), so an absent key already
// keeps the default while an explicit 0.0 must survive.
func (s *Settings) FillDefaults() {
	def := Default()
	if s.BaseURL == "" {
		s.BaseURL = def.BaseURL
	}
	if s.Model == "" {
		s.Model = def.Model
	}
	if s.ImageModel == "" {
		s.ImageModel = def.ImageModel
	}
	if s.AudioModel == "" {
		s.AudioModel = def.AudioModel
	}
	if s.EmbeddingModel == "" {
		s.EmbeddingModel = def.EmbeddingModel
	}
	if s.MaxTokens == 0 {
		s.MaxTokens = def.MaxTokens
	}
	if s.Theme == "" {
		s.Theme = def.Theme
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError reports one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks settings for internal consistency. It does not
// require an API key; an unconfigured client is a valid state.
func (s *Settings) Validate() error {
	if s.Temperature < 0 || s.Temperature > 2 {
		return ValidationError{Field: "temperature", Message: fmt.Sprintf("must be in [0, 2], got %g", s.Temperature)}
	}
	if s.MaxTokens <= 0 {
		return ValidationError{Field: "max_tokens", Message: fmt.Sprintf("must be positive, got %d", s.MaxTokens)}
	}
	if s.BaseURL != "" {
		u, err := url.Parse(s.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return ValidationError{Field: "base_url", Message: fmt.Sprintf("not a valid http(s) URL: %q", s.BaseURL)}
		}
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes settings to the TOML config path with 0600 permissions.
func Save(s *Settings) error {
	path, err := PathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(s, path)
}

// SaveTOML writes settings to a TOML file, atomically and owner-only.
func SaveTOML(s *Settings, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf strings.Builder
	buf.WriteString("# litechat configuration file\n")
	buf.WriteString("# Generated by litechat - edit with care\n\n")
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
