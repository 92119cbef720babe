package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Models  ModelsConfig  `koanf:"models"`
	Chat    ChatConfig    `koanf:"chat"`
	Dataset DatasetConfig `koanf:"dataset"`
	Store   StoreConfig   `koanf:"store"`
	Export  ExportConfig  `koanf:"export"`
}

type ServerConfig struct {
	LogLevel string `koanf:"log_level"`
}

type ModelsConfig struct {
	Default  string          `koanf:"default"`
	Fallback string          `koanf:"fallback"`
	Registry []ModelRegistry `koanf:"registry"`
}

type ModelRegistry struct {
	Name     string `koanf:"name"`
	Provider string `koanf:"provider"`
	BaseURL  string `koanf:"base_url"`
	APIKey   string `koanf:"api_key"`
}

type ChatConfig struct {
	SystemPrompt   string `koanf:"system_prompt"`
	MaxToolRounds  int    `koanf:"max_tool_rounds"`
	RequestTimeout string `koanf:"request_timeout"`
}

type DatasetConfig struct {
	Seed             int64 `koanf:"seed"`
	UnitsPerCategory int   `koanf:"units_per_category"`
	MinInspections   int   `koanf:"min_inspections"`
	MaxInspections   int   `koanf:"max_inspections"`
}

type StoreConfig struct {
	Path        string `koanf:"path"`
	LockTimeout string `koanf:"lock_timeout"`
}

type ExportConfig struct {
	Dir string `koanf:"dir"`
}

const (
	DefaultServerLogLevel           = "info"
	DefaultModelDefault             = "gemini-2.5-flash"
	DefaultModelFallback            = "gpt-4o-mini"
	DefaultOpenAIBaseURL            = "https://api.openai.com/v1"
	DefaultOllamaBaseURL            = "http://localhost:11434/v1"
	DefaultOllamaAPIKey             = "ollama"
	DefaultChatMaxToolRounds        = 8
	DefaultChatRequestTimeout       = "120s"
	DefaultDatasetSeed              = 42
	DefaultDatasetUnitsPerCategory  = 50
	DefaultDatasetMinInspections    = 3
	DefaultDatasetMaxInspections    = 15
	DefaultStoreLockTimeout         = "10s"
	DefaultStoreLockRetry           = "500ms"
	DefaultStoreLockMaxRetry        = 20
	DefaultStoreInboxSize           = 64
	DefaultChatSystemPrompt         = `You are InspectorAI, an expert reliability engineering assistant.
You have access to a database of equipment inspection reports.

Your capabilities:
1. List available equipment.
2. Retrieve full inspection history for specific equipment (findings, recommendations, dates, severity).
3. Search for similar findings across the database (e.g., "Show me all vibration issues").

Rules:
- ALWAYS provide the 'reportUrl' as a clickable Markdown link when discussing a specific inspection (e.g., [View Report](url)).
- Format findings clearly using bullet points or tables if comparing multiple items.
- If a user asks a vague question, ask for clarification or offer to list equipment.
- Be professional, concise, and safety-oriented.
- Use the provided tools to fetch data. Do not make up data.`
)

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	home, _ := os.UserHomeDir()
	defaults := map[string]interface{}{
		"server.log_level": DefaultServerLogLevel,
		"models.default":   DefaultModelDefault,
		"models.fallback":  DefaultModelFallback,
		"models.registry": []ModelRegistry{
			{Name: DefaultModelDefault, Provider: "gemini"},
			{Name: DefaultModelFallback, Provider: "openai"},
			{Name: "claude-3-7-sonnet-latest", Provider: "anthropic"},
			{Name: "local-llama", Provider: "ollama", BaseURL: DefaultOllamaBaseURL},
		},
		"chat.system_prompt":          DefaultChatSystemPrompt,
		"chat.max_tool_rounds":        DefaultChatMaxToolRounds,
		"chat.request_timeout":        DefaultChatRequestTimeout,
		"dataset.seed":                DefaultDatasetSeed,
		"dataset.units_per_category":  DefaultDatasetUnitsPerCategory,
		"dataset.min_inspections":     DefaultDatasetMinInspections,
		"dataset.max_inspections":     DefaultDatasetMaxInspections,
		"store.path":                  filepath.Join(home, ".inspector", "sessions"),
		"store.lock_timeout":          DefaultStoreLockTimeout,
		"export.dir":                  ".",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Config file loading
	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else if home != "" {
		globalPath := filepath.Join(home, ".inspector", "config.yaml")
		if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
			slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
		}
	}

	// Environment Variables
	k.Load(env.Provider("INSPECTOR_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "INSPECTOR_")), "_", ".", -1)
	}), nil)

	// CLI Flags
	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// Inject standard env vars into registry entries that have no key
	for i, m := range cfg.Models.Registry {
		var envKey string
		switch m.Provider {
		case "gemini":
			envKey = os.Getenv("GEMINI_API_KEY")
		case "openai":
			envKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			envKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if m.APIKey == "" && envKey != "" {
			cfg.Models.Registry[i].APIKey = envKey
		}
	}

	return &cfg, nil
}
