package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names.
const EnvPrefix = "ATACADOLINK"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                 = "ATACADOLINK_APP_ENV"
	EnvPort                   = "ATACADOLINK_APP_PORT"
	EnvDBDSN                  = "ATACADOLINK_DB_DSN"
	EnvDBHost                 = "ATACADOLINK_DB_HOST"
	EnvDBUser                 = "ATACADOLINK_DB_USER"
	EnvDBName                 = "ATACADOLINK_DB_NAME"
	EnvRedisURL               = "ATACADOLINK_REDIS_URL"
	EnvJWTSecret              = "ATACADOLINK_JWT_SECRET"
	EnvJWTIssuer              = "ATACADOLINK_JWT_ISSUER"
	EnvJWTExpMins             = "ATACADOLINK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "ATACADOLINK_REFRESH_TOKEN_TTL_MINUTES"
	EnvGCPProjectID           = "ATACADOLINK_GCP_PROJECT_ID"
	EnvPubSubProductsSub      = "ATACADOLINK_PUBSUB_PRODUCTS_SUBSCRIPTION"
	EnvPubSubEntitiesSub      = "ATACADOLINK_PUBSUB_ENTITIES_SUBSCRIPTION"
	EnvPubSubOrdersSub        = "ATACADOLINK_PUBSUB_ORDERS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
