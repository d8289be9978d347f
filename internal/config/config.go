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
	Qdrant   QdrantConfig
	Gemini   GeminiConfig
	Storage  StorageConfig
	Events   EventsConfig
	Pipeline PipelineConfig
	Worker   WorkerConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

// Enabled reports whether a vector index is configured.
func (q QdrantConfig) Enabled() bool {
	return q.URL != ""
}

type GeminiConfig struct {
	APIKey           string
	Model            string
	EmbedModel       string
	Timeout          time.Duration
	RetryMaxAttempts int
}

// Configured reports whether the remote classification backend can be used.
// An empty key is a valid state that routes analysis to the rule engine.
func (g GeminiConfig) Configured() bool {
	return g.APIKey != ""
}

type StorageConfig struct {
	Driver      string
	UploadPath  string
	MaxFileSize int64
	S3          S3Config
}

type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

type EventsConfig struct {
	RabbitMQURL string
	Exchange    string
}

// Enabled reports whether processed-document events are published.
func (e EventsConfig) Enabled() bool {
	return e.RabbitMQURL != ""
}

type PipelineConfig struct {
	Concurrency int
	JobLimit    int
}

type WorkerConfig struct {
	Concurrency int
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and default values.")
	}

	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "document_parser")

	v.SetDefault("QDRANT_URL", "")
	v.SetDefault("QDRANT_API_KEY", "")
	v.SetDefault("QDRANT_COLLECTION", "document_parser_docs")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_EMBED_MODEL", "text-embedding-004")
	v.SetDefault("GEMINI_TIMEOUT", "30s")
	v.SetDefault("RETRY_MAX_ATTEMPTS", 1)

	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("UPLOAD_PATH", "./uploads")
	v.SetDefault("MAX_FILE_SIZE", 10485760)
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_REGION", "auto")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "document_events")

	v.SetDefault("PIPELINE_CONCURRENCY", 1)
	v.SetDefault("JOB_RECOMMENDATION_LIMIT", 5)
	v.SetDefault("INDEX_WORKER_CONCURRENCY", 2)

	v.SetDefault("LOG_JSON", false)
	v.SetDefault("LOG_DEBUG", false)

	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
		},
		Qdrant: QdrantConfig{
			URL:        v.GetString("QDRANT_URL"),
			APIKey:     v.GetString("QDRANT_API_KEY"),
			Collection: v.GetString("QDRANT_COLLECTION"),
		},
		Gemini: GeminiConfig{
			APIKey:           v.GetString("GEMINI_API_KEY"),
			Model:            v.GetString("GEMINI_MODEL"),
			EmbedModel:       v.GetString("GEMINI_EMBED_MODEL"),
			Timeout:          durationOr(v.GetDuration("GEMINI_TIMEOUT"), 30*time.Second),
			RetryMaxAttempts: atLeast(v.GetInt("RETRY_MAX_ATTEMPTS"), 1),
		},
		Storage: StorageConfig{
			Driver:      v.GetString("STORAGE_DRIVER"),
			UploadPath:  v.GetString("UPLOAD_PATH"),
			MaxFileSize: v.GetInt64("MAX_FILE_SIZE"),
			S3: S3Config{
				Endpoint:  v.GetString("S3_ENDPOINT"),
				Region:    v.GetString("S3_REGION"),
				Bucket:    v.GetString("S3_BUCKET"),
				AccessKey: v.GetString("S3_ACCESS_KEY"),
				SecretKey: v.GetString("S3_SECRET_KEY"),
			},
		},
		Events: EventsConfig{
			RabbitMQURL: v.GetString("RABBITMQ_URL"),
			Exchange:    v.GetString("RABBITMQ_EXCHANGE"),
		},
		Pipeline: PipelineConfig{
			Concurrency: atLeast(v.GetInt("PIPELINE_CONCURRENCY"), 1),
			JobLimit:    atLeast(v.GetInt("JOB_RECOMMENDATION_LIMIT"), 1),
		},
		Worker: WorkerConfig{
			Concurrency: atLeast(v.GetInt("INDEX_WORKER_CONCURRENCY"), 1),
		},
		Log: LogConfig{
			JSON:  v.GetBool("LOG_JSON"),
			Debug: v.GetBool("LOG_DEBUG"),
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

func durationOr(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}

func atLeast(value, min int) int {
	if value < min {
		return min
	}
	return value
}
