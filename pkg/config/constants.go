package config

// EnvPrefix is empty because every field carries its fully-qualified env var name.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv    = "PHARMACY_APP_ENV"
	EnvPort      = "PHARMACY_APP_PORT"
	EnvRedisURL  = "PHARMACY_REDIS_URL"
	EnvUseSQLite = "PHARMACY_USE_SQLITE"

	EnvDBDSN  = "PHARMACY_DB_DSN"
	EnvDBHost = "PHARMACY_DB_HOST"
	EnvDBUser = "PHARMACY_DB_USER"
	EnvDBName = "PHARMACY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
