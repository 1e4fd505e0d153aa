package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Provider-Konfiguration. Ein fehlender Key deaktiviert den jeweiligen
	// Provider, ohne den Scrape-Lauf als fehlgeschlagen zu werten.
	NewsAPIBaseURL  string `envconfig:"NEWSAPI_BASE_URL" default:"https://newsapi.org/v2"`
	NewsAPIKey      string `envconfig:"NEWSAPI_KEY"`
	GuardianBaseURL string `envconfig:"GUARDIAN_BASE_URL" default:"https://content.guardianapis.com"`
	GuardianKey     string `envconfig:"GUARDIAN_KEY"`
	NYTimesBaseURL  string `envconfig:"NYTIMES_BASE_URL" default:"https://api.nytimes.com/svc/search/v2"`
	NYTimesKey      string `envconfig:"NYTIMES_KEY"`

	EnabledProviders string `envconfig:"ENABLED_PROVIDERS" default:"newsapi,guardian,nytimes"`

	CronSchedule string `envconfig:"CRON_SCHEDULE" default:"0 0 * * *"`

	// Job-Semantik für den Scrape-Lauf als Hintergrund-Job.
	ScrapeMaxAttempts    int `envconfig:"SCRAPE_MAX_ATTEMPTS" default:"3"`
	ScrapeTimeoutSeconds int `envconfig:"SCRAPE_TIMEOUT_SECONDS" default:"300"`

	// Optionales S3-Archiv für Run-Reports. Leerer Bucket deaktiviert das Archiv.
	ReportS3Key    string `envconfig:"REPORT_S3_KEY"`
	ReportS3Secret string `envconfig:"REPORT_S3_SECRET"`
	ReportS3URL    string `envconfig:"REPORT_S3_URL"`
	ReportS3Region string `envconfig:"REPORT_S3_REGION"`
	ReportS3Bucket string `envconfig:"REPORT_S3_BUCKET"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
