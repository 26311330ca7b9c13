package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names.
const EnvPrefix = "DELISPI"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "DELISPI_APP_ENV"
	EnvPort   = "DELISPI_APP_PORT"

	EnvDBDSN  = "DELISPI_DB_DSN"
	EnvDBHost = "DELISPI_DB_HOST"
	EnvDBUser = "DELISPI_DB_USER"
	EnvDBName = "DELISPI_DB_NAME"

	EnvRedisURL  = "DELISPI_REDIS_URL"
	EnvJWTSecret = "DELISPI_JWT_SECRET"
	EnvJWTIssuer = "DELISPI_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
