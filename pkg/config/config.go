package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Auth     AuthConfig
	Groq     GroqConfig
	Assembly AssemblyAIConfig
	Jira     JiraConfig
	Slack    SlackConfig
	Email    EmailConfig
	Invite   InviteConfig
	Dispatch DispatchConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host        string `envconfig:"DB_HOST" default:"localhost"`
	Port        string `envconfig:"DB_PORT" default:"5432"`
	User        string `envconfig:"DB_USER" default:"postgres"`
	Password    string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name        string `envconfig:"DB_NAME" default:"meeting_automation"`
	SSLMode     string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns    int    `envconfig:"DB_MIN_CONNS" default:"5"`
	AutoMigrate bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"meeting-automation"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string `envconfig:"STORAGE_PUBLIC_URL" default:""`
}

// AuthConfig holds API authentication configuration
type AuthConfig struct {
	APIKey        string        `envconfig:"API_KEY"`
	AccessSecret  string        `envconfig:"JWT_ACCESS_SECRET" default:"your-access-secret-change-in-production"`
	RefreshSecret string        `envconfig:"JWT_REFRESH_SECRET" default:"your-refresh-secret-change-in-production"`
	AccessExpiry  time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"15m"`
	RefreshExpiry time.Duration `envconfig:"JWT_REFRESH_EXPIRY" default:"168h"`
}

// GroqConfig holds Groq LLM configuration
type GroqConfig struct {
	APIKey  string `envconfig:"GROQ_API_KEY"`
	BaseURL string `envconfig:"GROQ_API_URL" default:"https://api.groq.com"`
	Model   string `envconfig:"GROQ_MODEL" default:"llama-3.1-70b-versatile"`
}

// AssemblyAIConfig holds AssemblyAI transcription configuration
type AssemblyAIConfig struct {
	APIKey         string `envconfig:"ASSEMBLYAI_API_KEY"`
	WebhookSecret  string `envconfig:"ASSEMBLYAI_WEBHOOK_SECRET"`
	WebhookBaseURL string `envconfig:"ASSEMBLYAI_WEBHOOK_URL"`
	LanguageCode   string `envconfig:"ASSEMBLYAI_LANGUAGE" default:"en"`
}

// JiraConfig holds Jira integration configuration.
// Variable names match the legacy deployment environment.
type JiraConfig struct {
	URL         string `envconfig:"JIRA_URL"`
	Username    string `envconfig:"JIRA_USERNAME"`
	APIToken    string `envconfig:"JIRA_API_TOKEN"`
	ProjectKey  string `envconfig:"JIRA_PROJECT_KEY" default:"KAN"`
	IssueTypeID string `envconfig:"JIRA_ISSUE_TYPE_ID" default:"10001"`
}

// Enabled reports whether the Jira integration has full credentials
func (c JiraConfig) Enabled() bool {
	return c.URL != "" && c.Username != "" && c.APIToken != ""
}

// SlackConfig holds Slack integration configuration
type SlackConfig struct {
	APIToken  string `envconfig:"SLACK_API_TOKEN"`
	ChannelID string `envconfig:"SLACK_CHANNEL_ID"`
	BaseURL   string `envconfig:"SLACK_API_URL" default:"https://slack.com/api"`
}

// Enabled reports whether the Slack integration has full credentials
func (c SlackConfig) Enabled() bool {
	return c.APIToken != "" && c.ChannelID != ""
}

// EmailConfig holds SMTP configuration for minutes delivery.
// Variable names match the legacy deployment environment.
type EmailConfig struct {
	Host       string `envconfig:"SMTP_HOST"`
	Port       int    `envconfig:"SMTP_PORT" default:"465"`
	Username   string `envconfig:"SMTP_USERNAME"`
	Password   string `envconfig:"SMTP_PASSWORD"`
	From       string `envconfig:"EMAIL_USERNAME"`
	SenderName string `envconfig:"EMAIL_SENDER_NAME" default:"Meeting Support"`
}

// Enabled reports whether the email integration has full credentials
func (c EmailConfig) Enabled() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// InviteConfig holds SMTP configuration for calendar invites. The legacy
// deployment used a separate sender account for invites, hence the second
// credential group.
type InviteConfig struct {
	SenderEmail    string `envconfig:"SENDER_EMAIL"`
	SenderPassword string `envconfig:"SENDER_PASSWORD"`
	SMTPServer     string `envconfig:"EMAIL_SMTP_SERVER" default:"smtp.gmail.com"`
	SMTPPort       int    `envconfig:"EMAIL_SMTP_PORT" default:"465"`
	Organizer      string `envconfig:"INVITE_ORGANIZER_NAME" default:"Meeting Invitation"`
}

// Enabled reports whether the invite integration has full credentials
func (c InviteConfig) Enabled() bool {
	return c.SenderEmail != "" && c.SenderPassword != ""
}

// DispatchConfig holds delivery worker pool configuration
type DispatchConfig struct {
	WorkerCount   int    `envconfig:"DISPATCH_WORKER_COUNT" default:"3"`
	PollInterval  int    `envconfig:"DISPATCH_POLL_INTERVAL_SECONDS" default:"15"`
	ReminderSpec  string `envconfig:"DISPATCH_REMINDER_CRON" default:"0 9 * * *"`
	MaxRetries    int    `envconfig:"DISPATCH_MAX_RETRIES" default:"3"`
	ZombieTimeout int    `envconfig:"DISPATCH_ZOMBIE_TIMEOUT_MINUTES" default:"10"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Groq.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	if c.Server.Environment == "production" {
		if c.Auth.APIKey == "" {
			return fmt.Errorf("API_KEY is required in production")
		}
		if c.Auth.AccessSecret == "your-access-secret-change-in-production" {
			return fmt.Errorf("JWT_ACCESS_SECRET must be changed in production")
		}
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
