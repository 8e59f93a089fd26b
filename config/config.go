package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type Config struct {
	APIKey       string `json:"api_key"`
	BaseURL      string `json:"base_url"`
	ChatModel    string `json:"chat_model"`
	InsightModel string `json:"insight_model"`
	Addr         string `json:"addr"`
}

var globalConfig *Config

// LoadConfig reads config.json if present, then applies env-var overrides.
// The result is cached for the process lifetime.
func LoadConfig() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	config := &Config{
		BaseURL:      "https://api.openai.com/v1",
		ChatModel:    "gpt-4o-mini",
		InsightModel: "gpt-4o-mini",
		Addr:         ":8080",
	}

	if data, err := os.ReadFile("config.json"); err == nil {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config.json: %v", err)
		}
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.APIKey = key
	}
	if key := os.Getenv("API_KEY"); key != "" {
		config.APIKey = key
	}
	if url := os.Getenv("BASE_URL"); url != "" {
		config.BaseURL = url
	}
	if model := os.Getenv("CHAT_MODEL"); model != "" {
		config.ChatModel = model
	}
	if model := os.Getenv("INSIGHT_MODEL"); model != "" {
		config.InsightModel = model
	}
	if v := os.Getenv("PORT"); v != "" {
		config.Addr = ":" + v
	}

	globalConfig = config
	return globalConfig, nil
}

func (c *Config) Validate() error {
	var errors []string

	if strings.TrimSpace(c.APIKey) == "" {
		errors = append(errors, "API key is required")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		errors = append(errors, "Base URL is required")
	}
	if strings.TrimSpace(c.InsightModel) == "" {
		errors = append(errors, "Insight model is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}
	return nil
}

func (c *Config) HasValidAPI() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.BaseURL) != ""
}
