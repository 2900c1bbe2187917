// Package config builds the typed server configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"xplore/internal/classifier"
	"xplore/internal/policy"
	"xplore/pkg/utils"
)

const (
	ClassifierRoboflow  = "roboflow"
	ClassifierGCPVision = "gcp_vision"

	StorageLocal = "local"
	StorageGCS   = "gcs"
)

type Config struct {
	Port   string
	AppEnv string

	PostgresURL     string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	DBAutoMigrate   bool
	DBSeed          bool
	JWTSecret       string
	JWTTTL          time.Duration
	Confidence      policy.Confidence
	ClassifierKind  string
	Roboflow        classifier.RoboflowConfig
	StorageProvider string
	UploadDir       string
	PublicBaseURL   string
	GCSBucket       string
	GCSCDNDomain    string
	AssetBaseURL    string
	RedisAddr       string
	RedisPassword   string
	CORSOrigins     []string
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	utils.LoadEnv()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	port := utils.GetEnv("PORT", "8080")
	cfg := &Config{
		Port:           port,
		AppEnv:         utils.GetEnv("APP_ENV", "development"),
		PostgresURL:    utils.GetEnv("POSTGRES_URL", ""),
		DBMaxOpenConns: utils.GetEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: utils.GetEnvInt("DB_MAX_IDLE_CONNS", 5),
		DBAutoMigrate:  utils.GetEnvBool("DB_AUTO_MIGRATE", true),
		DBSeed:         utils.GetEnvBool("DB_SEED", false),
		JWTSecret:      utils.GetEnv("JWT_SECRET", ""),
		JWTTTL:         utils.GetEnvDuration("JWT_TTL", 24*time.Hour),
		Confidence: policy.Confidence{
			Floor:  utils.GetEnvFloat("CONFIDENCE_FLOOR", policy.DefaultFloor),
			Accept: utils.GetEnvFloat("CONFIDENCE_ACCEPT", policy.DefaultAccept),
		},
		ClassifierKind: strings.ToLower(utils.GetEnv("CLASSIFIER_PROVIDER", ClassifierRoboflow)),
		Roboflow: classifier.RoboflowConfig{
			BaseURL: utils.GetEnv("ROBOFLOW_API_URL", classifier.DefaultRoboflowURL),
			APIKey:  utils.GetEnv("ROBOFLOW_API_KEY", ""),
			Project: utils.GetEnv("ROBOFLOW_PROJECT", ""),
			Version: utils.GetEnv("ROBOFLOW_VERSION", ""),
			Timeout: utils.GetEnvDuration("ROBOFLOW_TIMEOUT", classifier.DefaultRoboflowTimeout),
		},
		StorageProvider: strings.ToLower(utils.GetEnv("STORAGE_PROVIDER", StorageLocal)),
		UploadDir:       utils.GetEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL:   utils.GetEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		GCSBucket:       utils.GetEnv("GCS_BUCKET", ""),
		GCSCDNDomain:    utils.GetEnv("GCS_CDN_DOMAIN", ""),
		AssetBaseURL:    utils.GetEnv("ASSET_BASE_URL", ""),
		RedisAddr:       utils.GetEnv("REDIS_ADDR", ""),
		RedisPassword:   utils.GetEnv("REDIS_PASSWORD", ""),
		CORSOrigins:     utils.GetEnvList("CORS_ALLOWED_ORIGINS", nil),
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	var problems []string
	if c.PostgresURL == "" {
		problems = append(problems, "POSTGRES_URL is required")
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if err := c.Confidence.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	switch c.ClassifierKind {
	case ClassifierRoboflow, ClassifierGCPVision:
	default:
		problems = append(problems, fmt.Sprintf("unknown CLASSIFIER_PROVIDER %q", c.ClassifierKind))
	}
	switch c.StorageProvider {
	case StorageLocal:
	case StorageGCS:
		if c.GCSBucket == "" {
			problems = append(problems, "GCS_BUCKET is required for STORAGE_PROVIDER=gcs")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown STORAGE_PROVIDER %q", c.StorageProvider))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}
