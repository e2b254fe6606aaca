package models

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds application settings persisted between runs.
type Config struct {
	// Gemini API settings
	GeminiKey   string `json:"gemini_key"`
	GeminiModel string `json:"gemini_model"`

	// Batching settings
	BatchSize    int `json:"batch_size"`     // subtitles per API call
	BatchDelayMs int `json:"batch_delay_ms"` // throttle between batches

	// Default translation direction code ("en-fa" or "fa-en")
	DefaultDirection string `json:"default_direction"`

	// OutputDirectory is where translated files are saved by default.
	// Empty means next to the input file.
	OutputDirectory string `json:"output_directory"`
}

func DefaultConfig() *Config {
	return &Config{
		GeminiKey:        "",
		GeminiModel:      "gemini-2.0-flash",
		BatchSize:        30,
		BatchDelayMs:     500,
		DefaultDirection: EnglishToFarsi.Code(),
		OutputDirectory:  "",
	}
}

func (c *Config) ConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "subtitle-translator", "config.json")
}

func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(config.ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	if config.BatchDelayMs < 0 {
		config.BatchDelayMs = DefaultConfig().BatchDelayMs
	}

	return config, nil
}

func (c *Config) Save() error {
	configPath := c.ConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600) // key material, user-only
}
