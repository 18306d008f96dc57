package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config is the persistent application configuration
type Config struct {
	// Oracle holds language-model provider settings
	Oracle OracleConfig `json:"oracle"`

	// Pipeline holds retrieval pipeline tunables
	Pipeline PipelineConfig `json:"pipeline"`

	// Server holds HTTP transport settings
	Server ServerConfig `json:"server"`

	// Ingest holds bulk-ingest settings
	Ingest IngestConfig `json:"ingest"`

	// DBPath is the SQLite database location
	DBPath string `json:"db_path"`
}

// OracleConfig holds language-model settings per provider
type OracleConfig struct {
	Gemini GeminiSettings `json:"gemini"`
	Ollama OllamaSettings `json:"ollama"`

	// Preferred provider name; falls back to the first available
	Preferred string `json:"preferred"`
}

// GeminiSettings for the Google Gemini API
type GeminiSettings struct {
	APIKey     string `json:"api_key,omitempty"`
	Model      string `json:"model,omitempty"`
	EmbedModel string `json:"embed_model,omitempty"`
}

// OllamaSettings for a local Ollama server
type OllamaSettings struct {
	Enabled    bool   `json:"enabled"`
	Endpoint   string `json:"endpoint,omitempty"`
	Model      string `json:"model,omitempty"`
	EmbedModel string `json:"embed_model,omitempty"`
}

// PipelineConfig holds retrieval pipeline tunables
type PipelineConfig struct {
	// SimilarityThreshold is the minimum cosine similarity for the
	// embedding prefilter
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// Collection is the trend record collection queried by the pipeline
	Collection string `json:"collection"`

	// AnswerMaxWords caps the composed answer length
	AnswerMaxWords int `json:"answer_max_words"`
}

// ServerConfig holds HTTP transport settings
type ServerConfig struct {
	Host        string   `json:"host"`
	Port        int      `json:"port"`
	CorsOrigins []string `json:"cors_origins"`
}

// IngestConfig holds bulk-ingest settings
type IngestConfig struct {
	// BatchSize is how many records are embedded per batch
	BatchSize int `json:"batch_size"`

	// RequestsPerMinute bounds embedding API calls during ingest
	RequestsPerMinute int `json:"requests_per_minute"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Oracle: OracleConfig{
			Gemini: GeminiSettings{
				Model:      "gemini-2.0-flash",
				EmbedModel: "embedding-001",
			},
			Ollama: OllamaSettings{
				Endpoint:   "http://localhost:11434",
				Model:      "llama3.1",
				EmbedModel: "nomic-embed-text",
			},
			Preferred: "gemini",
		},
		Pipeline: PipelineConfig{
			SimilarityThreshold: 0.6,
			Collection:          "trends_data_analyzed",
			AnswerMaxWords:      25,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			CorsOrigins: []string{"*"},
		},
		Ingest: IngestConfig{
			BatchSize:         10,
			RequestsPerMinute: 60,
		},
		DBPath: defaultDBPath(),
	}
}

func defaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".trendspotter", "trends.db")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".trendspotter", "config.json")
}

// Load reads config from disk, or returns defaults.
// API keys are always re-read from the environment so they never have to
// live in the config file.
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		cfg := DefaultConfig()
		cfg.AutoPopulateFromEnv()
		return cfg, nil
	}

	cfg.AutoPopulateFromEnv()
	return &cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for API keys
}

// AutoPopulateFromEnv fills in settings from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Oracle.Gemini.APIKey = key
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" && c.Oracle.Gemini.APIKey == "" {
		c.Oracle.Gemini.APIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		c.Oracle.Gemini.Model = model
	}
	if endpoint := os.Getenv("OLLAMA_HOST"); endpoint != "" {
		c.Oracle.Ollama.Endpoint = endpoint
		c.Oracle.Ollama.Enabled = true
	}
	if path := os.Getenv("TRENDSPOTTER_DB"); path != "" {
		c.DBPath = path
	}
}
