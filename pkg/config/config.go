package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
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
	Env          string `envconfig:"FICHAJE_APP_ENV" required:"true"`
	Port         string `envconfig:"FICHAJE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FICHAJE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FICHAJE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FICHAJE_DB_DSN"`
	Driver string `envconfig:"FICHAJE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FICHAJE_DB_HOST"`
	LegacyPort     int    `envconfig:"FICHAJE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FICHAJE_DB_USER"`
	LegacyPassword string `envconfig:"FICHAJE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FICHAJE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FICHAJE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FICHAJE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FICHAJE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FICHAJE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FICHAJE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FICHAJE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FICHAJE_REDIS_ADDR"`
	Password     string        `envconfig:"FICHAJE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FICHAJE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FICHAJE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FICHAJE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FICHAJE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FICHAJE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FICHAJE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FICHAJE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FICHAJE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FICHAJE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FICHAJE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	MinLength        int `envconfig:"FICHAJE_PASSWORD_MIN_LENGTH" default:"6"`
	ArgonMemoryKB    int `envconfig:"FICHAJE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FICHAJE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FICHAJE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FICHAJE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FICHAJE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"FICHAJE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"FICHAJE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"FICHAJE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"FICHAJE_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"FICHAJE_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"FICHAJE_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FICHAJE_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"FICHAJE_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
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
