package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	// Browser origins allowed by CORS, comma separated in CORS_ALLOWED_ORIGINS
	CORSAllowedOrigins []string
	// Entity storage: "memory" or "postgres"
	StorageBackend string
	DBUrl          string
	SeedData       bool
	// Attachment payload storage: "memory", "local", "s3" or "minio"
	FileBackend string
	FileDir     string
	// S3 / Wasabi
	S3Provider        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Endpoint        string
	// MinIO
	MinIOEndpoint         string
	MinIOAccessKeyID      string
	MinIOSecretAccessKey  string
	MinIOBucket           string
	MinIOUseSSL           bool
	MinIOAutoCreateBucket bool
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Sessions
	SessionSecret     string
	SessionTTLMinutes int
	// Uploads
	UploadMaxBytes  int64
	UploadPerMinute int
	UploadPerDay    int
	ClamAVAddress   string
	// Login protection
	FailedLoginMaxAttempts  int
	FailedLoginBlockMinutes int
}

func LoadConfig() (*Config, error) {
	// .env is optional, real environment variables win
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS"),
		StorageBackend:     strings.ToLower(getEnv("STORAGE_BACKEND", "memory")),
		DBUrl:              getEnv("DATABASE_URL", ""),
		SeedData:           getEnvBool("SEED_DATA", true),
		FileBackend:        strings.ToLower(getEnv("FILE_BACKEND", "local")),
		FileDir:            getEnv("FILE_DIR", "files"),
		// S3 Configuration
		S3Provider:        getEnv("S3_PROVIDER", "aws"),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Endpoint:        strings.TrimRight(getEnv("S3_ENDPOINT", ""), "/"),
		// MinIO Configuration
		MinIOEndpoint:         getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKeyID:      getEnv("MINIO_ACCESS_KEY_ID", ""),
		MinIOSecretAccessKey:  getEnv("MINIO_SECRET_ACCESS_KEY", ""),
		MinIOBucket:           getEnv("MINIO_BUCKET", "dreamjob-files"),
		MinIOUseSSL:           getEnvBool("MINIO_USE_SSL", false),
		MinIOAutoCreateBucket: getEnvBool("MINIO_AUTO_CREATE_BUCKET", true),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Sessions
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 60*24),
		// Uploads
		UploadMaxBytes:  int64(getEnvInt("UPLOAD_MAX_BYTES", 5<<20)), // 5 MiB
		UploadPerMinute: getEnvInt("UPLOAD_PER_MINUTE", 10),
		UploadPerDay:    getEnvInt("UPLOAD_PER_DAY", 50),
		ClamAVAddress:   getEnv("CLAMAV_ADDRESS", ""),
		// Login protection
		FailedLoginMaxAttempts:  getEnvInt("FAILED_LOGIN_MAX_ATTEMPTS", 5),
		FailedLoginBlockMinutes: getEnvInt("FAILED_LOGIN_BLOCK_MINUTES", 15),
	}

	if cfg.StorageBackend == "postgres" && cfg.DBUrl == "" {
		log.Println("WARNING: STORAGE_BACKEND=postgres but DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.SessionSecret == "" {
		log.Println("WARNING: SESSION_SECRET not configured. Using an insecure development secret.")
		cfg.SessionSecret = "dreamjob-dev-secret"
	}

	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Upload limits and login blocking are disabled.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated environment variable, dropping blanks
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
