package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "FOODHEAVEN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "FOODHEAVEN_APP_ENV"
	EnvPort     = "FOODHEAVEN_APP_PORT"
	EnvLogLevel = "FOODHEAVEN_LOG_LEVEL"

	EnvDBDSN  = "FOODHEAVEN_DB_DSN"
	EnvDBHost = "FOODHEAVEN_DB_HOST"
	EnvDBUser = "FOODHEAVEN_DB_USER"
	EnvDBName = "FOODHEAVEN_DB_NAME"

	EnvRedisURL = "FOODHEAVEN_REDIS_URL"

	EnvJWTSecret              = "FOODHEAVEN_JWT_SECRET"
	EnvJWTIssuer              = "FOODHEAVEN_JWT_ISSUER"
	EnvJWTExpMins             = "FOODHEAVEN_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "FOODHEAVEN_REFRESH_TOKEN_TTL_MINUTES"

	EnvGCPProjectID      = "FOODHEAVEN_GCP_PROJECT_ID"
	EnvPubSubOrdersTopic = "FOODHEAVEN_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub   = "FOODHEAVEN_PUBSUB_ORDERS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{
	EnvDBHost,
	EnvDBUser,
	EnvDBName,
}
