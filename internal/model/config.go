package model

import "time"

// Config holds the complete groundcheck configuration.
type Config struct {
	Verify      VerifyConfig      `yaml:"verify" json:"verify"`
	Retrieve    RetrieveConfig    `yaml:"retrieve" json:"retrieve"`
	Embed       EmbedConfig       `yaml:"embed" json:"embed"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" json:"rate_limit"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// VerifyConfig controls claim verification.
type VerifyConfig struct {
	Threshold float64 `yaml:"threshold" json:"threshold"` // minimum support score for a claim to count as supported
	TopK      int     `yaml:"top_k" json:"top_k"`         // max ranked evidence indices per claim
}

// RetrieveConfig controls evidence retrieval.
type RetrieveConfig struct {
	TopK        int     `yaml:"top_k" json:"top_k"`
	ResultsPath string  `yaml:"results_path" json:"results_path"` // precomputed lookup JSON
	CorpusPath  string  `yaml:"corpus_path" json:"corpus_path"`   // JSONL corpus for the live fallback
	FuzzyCutoff float64 `yaml:"fuzzy_cutoff" json:"fuzzy_cutoff"` // minimum ratio for a fuzzy lookup match
	Rerank      bool    `yaml:"rerank" json:"rerank"`             // rerank lookup hits by embedding similarity
}

// EmbedConfig selects and configures the embedding backend.
type EmbedConfig struct {
	Provider string `yaml:"provider" json:"provider"` // tfidf, openai, ollama
	Model    string `yaml:"model" json:"model"`
	APIKey   string `yaml:"-" json:"-"` // from environment, never persisted
	BaseURL  string `yaml:"base_url" json:"base_url"`
	Timeout  int    `yaml:"timeout" json:"timeout"` // seconds
}

// LLMConfig configures the answer provider.
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider"` // openai, anthropic, ollama, ""
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"-" json:"-"`
	BaseURL   string `yaml:"base_url" json:"base_url"`
	Timeout   int    `yaml:"timeout" json:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
}

// HTTPConfig configures outbound HTTP for corpus ingestion.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls" json:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy" json:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy" json:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy" json:"no_proxy"`
}

// CacheConfig configures the embedding/fetch cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// ConcurrencyConfig controls batch processing.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" json:"workers"`
}

// RateLimitConfig controls per-host request pacing during ingestion.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" json:"burst_size"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Verify: VerifyConfig{
			Threshold: 0.65,
			TopK:      3,
		},
		Retrieve: RetrieveConfig{
			TopK:        5,
			ResultsPath: "data/retrieval_results.json",
			CorpusPath:  "data/corpus.jsonl",
			FuzzyCutoff: 0.7,
			Rerank:      true,
		},
		Embed: EmbedConfig{
			Provider: "tfidf",
			Timeout:  30,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 512,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Groundcheck/0.1 (+https://github.com/mkarpov/groundcheck)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".groundcheck-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
