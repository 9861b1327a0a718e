// Package config loads server configuration from flags and environment,
// with a .env file picked up when present.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	Env       string
	Gemini    GeminiConfig
	Upload    UploadConfig
	Knowledge KnowledgeConfig
	Mirror    MirrorConfig
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type UploadConfig struct {
	Dir         string
	MaxFileSize int64
}

// KnowledgeConfig selects the knowledge-store backend: a Postgres DSN wins
// over a SQLite path; with neither set the store is in-memory.
type KnowledgeConfig struct {
	PostgresDSN string
	SQLitePath  string
	TopK        int
}

type MirrorConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8000", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port: *port,
		Env:  env,
		Gemini: GeminiConfig{
			APIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			Model:  firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_MODEL")), "gemini-2.5-flash"),
		},
		Upload: UploadConfig{
			Dir:         firstNonEmpty(strings.TrimSpace(os.Getenv("UPLOAD_DIR")), "uploads"),
			MaxFileSize: envInt64("MAX_FILE_SIZE", 10<<20),
		},
		Knowledge: KnowledgeConfig{
			PostgresDSN: strings.TrimSpace(os.Getenv("KNOWLEDGE_PG_DSN")),
			SQLitePath:  strings.TrimSpace(os.Getenv("KNOWLEDGE_SQLITE_PATH")),
			TopK:        int(envInt64("RETRIEVE_TOP_K", 3)),
		},
		Mirror: loadMirrorConfig(),
	}, nil
}

func loadMirrorConfig() MirrorConfig {
	endpoint := strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT"))
	return MirrorConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "rtl-artifacts"),
		UseSSL:    envBool("ARTIFACT_S3_USE_SSL", true),
	}
}

func envInt64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
