package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings is the process configuration, read from the environment.
type Settings struct {
	Port             string
	DatabaseURL      string
	AutoMigrate      bool
	DBLogLevel       string
	JWTSecret        string
	TokenTTL         time.Duration
	CORSAllowOrigins string

	LogLevel  string
	LogFormat string

	LLMProvider      string
	AssistantTimeout time.Duration
	GeminiAPIKey     string
	GeminiModelID    string
	OpenAIAPIKey     string
	OpenAIModel      string
	GroqAPIKey       string
	GroqBaseURL      string
	GroqModelName    string

	GCPCredentials    string // base64 encoded service account JSON
	GCPProjectID      string
	VertexLocation    string
	ClaudeVertexModel string
	ArchiveBucket     string
}

// Load reads Settings from the environment, applying defaults for anything unset.
func Load() (*Settings, error) {
	s := &Settings{
		Port:              getenv("PORT", "3000"),
		DatabaseURL:       os.Getenv("DB_URL"),
		DBLogLevel:        getenv("DB_LOG_LEVEL", "warn"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		CORSAllowOrigins:  getenv("CORS_ALLOW_ORIGINS", "*"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogFormat:         getenv("LOG_FORMAT", "json"),
		LLMProvider:       strings.ToLower(getenv("LLM_PROVIDER", "gemini")),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModelID:     getenv("GEMINI_MODEL_ID", "gemini-2.0-flash"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       getenv("OPENAI_MODEL", "gpt-4.1"),
		GroqAPIKey:        os.Getenv("GROQ_API_KEY"),
		GroqBaseURL:       getenv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModelName:     os.Getenv("GROQ_MODEL_NAME"),
		GCPCredentials:    os.Getenv("GCP_SERVICE_ACCOUNT_CREDENTIALS"),
		GCPProjectID:      os.Getenv("GOOGLE_CLOUD_PROJECT_ID"),
		VertexLocation:    getenv("GOOGLE_CLOUD_VERTEXAI_LOCATION", "us-east5"),
		ClaudeVertexModel: getenv("CLAUDE_VERTEX_MODEL", "claude-sonnet-4-5@20250929"),
		ArchiveBucket:     os.Getenv("ARCHIVE_BUCKET"),
	}

	var err error
	if s.AutoMigrate, err = getbool("DB_AUTO_MIGRATE", false); err != nil {
		return nil, err
	}
	if s.TokenTTL, err = getduration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if s.AssistantTimeout, err = getduration("ASSISTANT_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks what the HTTP server cannot start without.
func (s *Settings) Validate() error {
	if s.DatabaseURL == "" {
		return fmt.Errorf("DB_URL must be set")
	}
	if s.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	return nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func getduration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return d, nil
}
