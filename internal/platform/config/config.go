package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
//
// The original deployment never defined its listen port; LEGADO_ADDR with a
// :8080 default closes that gap. Backends (Postgres, Redis, S3, Kafka) are
// optional: when a URL is absent the corresponding in-memory or on-disk
// implementation is used, which keeps local development dependency-free.
type Server struct {
	Addr string

	DatabaseURL string
	Redis       RedisConfig

	UploadDir string
	S3        S3Config

	KafkaBrokers []string
	AuditTopic   string

	SessionSigningKey string
	SessionTTL        time.Duration

	BootstrapUsername string
	BootstrapPassword string
}

// RedisConfig carries connection settings for the session store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// S3Config selects the object-storage file intake when fully populated.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

// Enabled reports whether object storage is configured.
func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.AccessKey != "" && c.SecretKey != "" && c.Bucket != ""
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("LEGADO_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	uploadDir := os.Getenv("LEGADO_UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	sessionTTL := 24 * time.Hour
	if raw := os.Getenv("LEGADO_SESSION_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			sessionTTL = d
		}
	}

	signingKey := os.Getenv("LEGADO_SESSION_SIGNING_KEY")
	if signingKey == "" {
		// Development fallback; must be overridden in production.
		signingKey = "dev-secret-key-change-in-production"
	}

	var brokers []string
	if raw := os.Getenv("LEGADO_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}
	auditTopic := os.Getenv("LEGADO_AUDIT_TOPIC")
	if auditTopic == "" {
		auditTopic = "legado.audit"
	}

	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("LEGADO_DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("LEGADO_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		UploadDir: uploadDir,
		S3: S3Config{
			Endpoint:  os.Getenv("LEGADO_S3_ENDPOINT"),
			AccessKey: os.Getenv("LEGADO_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("LEGADO_S3_SECRET_KEY"),
			Bucket:    os.Getenv("LEGADO_S3_BUCKET"),
		},
		KafkaBrokers:      brokers,
		AuditTopic:        auditTopic,
		SessionSigningKey: signingKey,
		SessionTTL:        sessionTTL,
		BootstrapUsername: os.Getenv("LEGADO_BOOTSTRAP_USERNAME"),
		BootstrapPassword: os.Getenv("LEGADO_BOOTSTRAP_PASSWORD"),
	}
}
