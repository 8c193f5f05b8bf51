package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	SQLite      SQLiteConfig    `mapstructure:"sqlite"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Auth        AuthConfig      `mapstructure:"auth"`
	LLM         LLMConfig       `mapstructure:"llm"`
	Retrieval   RetrievalConfig `mapstructure:"retrieval"`
	Hospital    HospitalConfig  `mapstructure:"hospital"`
	Session     SessionConfig   `mapstructure:"session"`
	Security    SecurityConfig  `mapstructure:"security"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	DocumentDir string          `mapstructure:"document_dir"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// SQLiteConfig locates the local appointment request store
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	StaffCodeHash  string        `mapstructure:"staff_code_hash"`
	AdminCodeHash  string        `mapstructure:"admin_code_hash"`
}

type LLMConfig struct {
	DefaultProvider string        `mapstructure:"default_provider"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	Gemini          GeminiConfig  `mapstructure:"gemini"`
	OpenAI          OpenAIConfig  `mapstructure:"openai"`
	Ollama          OllamaConfig  `mapstructure:"ollama"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding_model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	Host         string `mapstructure:"host"`
	DefaultModel string `mapstructure:"default_model"`
}

// RetrievalConfig bounds the retrieval fan-out and context assembly
type RetrievalConfig struct {
	Backend       string        `mapstructure:"backend"`
	MaxSnippets   int           `mapstructure:"max_snippets"`
	ChunkSize     int           `mapstructure:"chunk_size"`
	ChunkOverlap  int           `mapstructure:"chunk_overlap"`
	MaxChunks     int           `mapstructure:"max_chunks"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	MongoURI      string        `mapstructure:"mongo_uri"`
	MongoDatabase string        `mapstructure:"mongo_database"`
}

// HospitalConfig carries the facility identity used in canned responses and
// response annotation
type HospitalConfig struct {
	Name         string   `mapstructure:"name"`
	Phone        string   `mapstructure:"phone"`
	AddressLines []string `mapstructure:"address_lines"`
	AddressMatch []string `mapstructure:"address_match"`
	Website      string   `mapstructure:"website"`
}

type SessionConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type SecurityConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.middleware_timeout", "120s")

	// Database
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "hospitalchat")
	v.SetDefault("database.database", "hospitalchat")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)

	// SQLite appointment store
	v.SetDefault("sqlite.path", "./appointments.db")

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Auth
	v.SetDefault("auth.access_token_ttl", "12h")

	// LLM
	v.SetDefault("llm.default_provider", "gemini")
	v.SetDefault("llm.request_timeout", "60s")
	v.SetDefault("llm.gemini.model", "gemini-2.5-flash")
	v.SetDefault("llm.gemini.embedding_model", "text-embedding-004")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.ollama.host", "http://localhost:11434")
	v.SetDefault("llm.ollama.default_model", "llama3")

	// Retrieval
	v.SetDefault("retrieval.backend", "memory")
	v.SetDefault("retrieval.max_snippets", 20)
	v.SetDefault("retrieval.chunk_size", 1000)
	v.SetDefault("retrieval.chunk_overlap", 200)
	v.SetDefault("retrieval.max_chunks", 2000)
	v.SetDefault("retrieval.cache_ttl", "5m")
	v.SetDefault("retrieval.mongo_database", "hospitalchat")

	// Hospital identity
	v.SetDefault("hospital.name", "KG Hospital")
	v.SetDefault("hospital.phone", "0422-2324105")
	v.SetDefault("hospital.address_lines", []string{
		"No. 5, Arts College Road,",
		"Coimbatore - 641 018,",
		"Tamil Nadu, India",
	})
	v.SetDefault("hospital.address_match", []string{
		"No. 5, Arts College Road",
		"Arts College Road, Coimbatore",
	})
	v.SetDefault("hospital.website", "https://www.kghospital.com/")

	// Session
	v.SetDefault("session.timeout", "30m")

	// Security
	v.SetDefault("security.rate_limit.requests_per_minute", 60)
	v.SetDefault("security.rate_limit.burst", 10)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Documents
	v.SetDefault("document_dir", "./documents")
}

func bindEnvVars(v *viper.Viper) {
	// Database
	v.BindEnv("database.password", "POSTGRES_PASSWORD")

	// Redis
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Auth
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.staff_code_hash", "STAFF_CODE_HASH")
	v.BindEnv("auth.admin_code_hash", "ADMIN_CODE_HASH")

	// LLM API keys
	v.BindEnv("llm.gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("llm.openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("llm.ollama.host", "OLLAMA_HOST")

	// Retrieval
	v.BindEnv("retrieval.mongo_uri", "MONGO_URI")
}
