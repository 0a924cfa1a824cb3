package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "MESAFOOD"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "MESAFOOD_DB_DSN"
	EnvDBHost = "MESAFOOD_DB_HOST"
	EnvDBUser = "MESAFOOD_DB_USER"
	EnvDBName = "MESAFOOD_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
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
	Env          string `envconfig:"MESAFOOD_APP_ENV" required:"true"`
	Port         string `envconfig:"MESAFOOD_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"MESAFOOD_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MESAFOOD_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"MESAFOOD_DB_DSN"`

	LegacyHost     string `envconfig:"MESAFOOD_DB_HOST"`
	LegacyPort     int    `envconfig:"MESAFOOD_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"MESAFOOD_DB_USER"`
	LegacyPassword string `envconfig:"MESAFOOD_DB_PASSWORD"`
	LegacyName     string `envconfig:"MESAFOOD_DB_NAME"`
	LegacySSLMode  string `envconfig:"MESAFOOD_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MESAFOOD_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MESAFOOD_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MESAFOOD_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MESAFOOD_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"MESAFOOD_REDIS_URL"`
	Address      string        `envconfig:"MESAFOOD_REDIS_ADDR"`
	Password     string        `envconfig:"MESAFOOD_REDIS_PASSWORD"`
	DB           int           `envconfig:"MESAFOOD_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MESAFOOD_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MESAFOOD_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MESAFOOD_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MESAFOOD_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MESAFOOD_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MESAFOOD_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MESAFOOD_JWT_ISSUER" default:"mesafood"`
	ExpirationMinutes int    `envconfig:"MESAFOOD_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	BcryptCost int `envconfig:"MESAFOOD_BCRYPT_COST" default:"12"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"MESAFOOD_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"MESAFOOD_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"MESAFOOD_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"MESAFOOD_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"MESAFOOD_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"MESAFOOD_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate   bool   `envconfig:"MESAFOOD_AUTO_MIGRATE" default:"false"`
	GCSAccessMode string `envconfig:"MESAFOOD_GCS_ACCESS_MODE" default:"public"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MESAFOOD_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"MESAFOOD_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"MESAFOOD_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"MESAFOOD_GCS_BUCKET_NAME" required:"true"`
	DownloadURLExpiry time.Duration `envconfig:"MESAFOOD_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
}

type MediaConfig struct {
	MaxUploadMB              int    `envconfig:"MESAFOOD_MAX_UPLOAD_MB" default:"10"`
	DefaultRestaurantImgKey  string `envconfig:"MESAFOOD_DEFAULT_RESTAURANT_IMG_KEY" default:"restaurants/default.png"`
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
