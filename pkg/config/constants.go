package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix only matters for fields without a tag.
const EnvPrefix = "FICHAJE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "FICHAJE_APP_ENV"
	EnvPort                   = "FICHAJE_APP_PORT"
	EnvDBDSN                  = "FICHAJE_DB_DSN"
	EnvDBHost                 = "FICHAJE_DB_HOST"
	EnvDBUser                 = "FICHAJE_DB_USER"
	EnvDBName                 = "FICHAJE_DB_NAME"
	EnvRedisURL               = "FICHAJE_REDIS_URL"
	EnvJWTSecret              = "FICHAJE_JWT_SECRET"
	EnvJWTIssuer              = "FICHAJE_JWT_ISSUER"
	EnvJWTExpMins             = "FICHAJE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "FICHAJE_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
