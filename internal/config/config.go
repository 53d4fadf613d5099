package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upstream UpstreamConfig
	Storage  StorageConfig
	Worker   WorkerConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port      string
	Env       string
	BodyLimit int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// UpstreamConfig points at the external candidate and registration services.
type UpstreamConfig struct {
	CandidateAPIURL    string
	DocumentBaseURL    string
	RegistrationAPIURL string
	Timeout            time.Duration
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

type WorkerConfig struct {
	Concurrency  int
	QueueSize    int
	PollInterval time.Duration
	PollBatch    int
}

type LogConfig struct {
	Level  string
	Format string
}

var defaults = map[string]interface{}{
	"PORT":                 "3000",
	"ENV":                  "development",
	"BODY_LIMIT":           64 << 20,
	"DB_HOST":              "localhost",
	"DB_PORT":              "5432",
	"DB_USER":              "postgres",
	"DB_PASSWORD":          "postgres",
	"DB_NAME":              "onboarding_portal",
	"CANDIDATE_API_URL":    "http://localhost:8001/candidates",
	"DOCUMENT_BASE_URL":    "http://localhost:8001/",
	"REGISTRATION_API_URL": "http://localhost:8000/api",
	"HTTP_TIMEOUT":         "15s",
	"UPLOAD_PATH":          "./uploads",
	"MAX_FILE_SIZE":        5 << 20,
	"WORKER_CONCURRENCY":   3,
	"WORKER_QUEUE_SIZE":    100,
	"WORKER_POLL_INTERVAL": "10s",
	"WORKER_POLL_BATCH":    10,
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "console",
}

// Load reads an optional .env file and resolves every setting from the
// environment, falling back to defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and default values.")
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:      v.GetString("PORT"),
			Env:       v.GetString("ENV"),
			BodyLimit: v.GetInt("BODY_LIMIT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
		},
		Upstream: UpstreamConfig{
			CandidateAPIURL:    v.GetString("CANDIDATE_API_URL"),
			DocumentBaseURL:    v.GetString("DOCUMENT_BASE_URL"),
			RegistrationAPIURL: v.GetString("REGISTRATION_API_URL"),
			Timeout:            durationOrDefault(v, "HTTP_TIMEOUT"),
		},
		Storage: StorageConfig{
			UploadPath:  v.GetString("UPLOAD_PATH"),
			MaxFileSize: v.GetInt64("MAX_FILE_SIZE"),
		},
		Worker: WorkerConfig{
			Concurrency:  v.GetInt("WORKER_CONCURRENCY"),
			QueueSize:    v.GetInt("WORKER_QUEUE_SIZE"),
			PollInterval: durationOrDefault(v, "WORKER_POLL_INTERVAL"),
			PollBatch:    v.GetInt("WORKER_POLL_BATCH"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// durationOrDefault keeps the default when the configured value does not parse.
func durationOrDefault(v *viper.Viper, key string) time.Duration {
	if d, err := time.ParseDuration(v.GetString(key)); err == nil {
		return d
	}
	d, _ := time.ParseDuration(fmt.Sprint(defaults[key]))
	return d
}
