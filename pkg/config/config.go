package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "adforge"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "ADFORGE_DB_DSN"
	EnvDBHost = "ADFORGE_DB_HOST"
	EnvDBUser = "ADFORGE_DB_USER"
	EnvDBName = "ADFORGE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Approval     ApprovalConfig
	Generation   GenerationConfig
	Storage      StorageConfig
	Uploads      UploadsConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ADFORGE_APP_ENV" required:"true"`
	Port         string `envconfig:"ADFORGE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ADFORGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ADFORGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ADFORGE_DB_DSN"`
	Driver string `envconfig:"ADFORGE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ADFORGE_DB_HOST"`
	LegacyPort     int    `envconfig:"ADFORGE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ADFORGE_DB_USER"`
	LegacyPassword string `envconfig:"ADFORGE_DB_PASSWORD"`
	LegacyName     string `envconfig:"ADFORGE_DB_NAME"`
	LegacySSLMode  string `envconfig:"ADFORGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ADFORGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ADFORGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ADFORGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ADFORGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ADFORGE_REDIS_URL"`
	Address      string        `envconfig:"ADFORGE_REDIS_ADDR"`
	Password     string        `envconfig:"ADFORGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ADFORGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ADFORGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ADFORGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ADFORGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ADFORGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ADFORGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// ApprovalConfig carries the deployment-gate knobs. HomeRegion is the region
// exempted from the regional-approval requirement.
type ApprovalConfig struct {
	HomeRegion string `envconfig:"ADFORGE_HOME_REGION" default:"US"`
}

type GenerationConfig struct {
	TextAPIKey  string        `envconfig:"ADFORGE_TEXT_API_KEY"`
	ImageAPIKey string        `envconfig:"ADFORGE_IMAGE_API_KEY"`
	Timeout     time.Duration `envconfig:"ADFORGE_GENERATION_TIMEOUT" default:"30s"`
}

type StorageConfig struct {
	RootDir string `envconfig:"ADFORGE_STORAGE_ROOT" default:"uploads"`
}

type UploadsConfig struct {
	MaxUploadMB int `envconfig:"ADFORGE_MAX_UPLOAD_MB" default:"10"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ADFORGE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ADFORGE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
