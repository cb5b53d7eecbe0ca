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
	GCP           GCPConfig
	PubSub        PubSubConfig
	Inference     InferenceConfig
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
	Env          string `envconfig:"ATACADOLINK_APP_ENV" required:"true"`
	Port         string `envconfig:"ATACADOLINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ATACADOLINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ATACADOLINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ATACADOLINK_DB_DSN"`
	Driver string `envconfig:"ATACADOLINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ATACADOLINK_DB_HOST"`
	LegacyPort     int    `envconfig:"ATACADOLINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ATACADOLINK_DB_USER"`
	LegacyPassword string `envconfig:"ATACADOLINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"ATACADOLINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"ATACADOLINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ATACADOLINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ATACADOLINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ATACADOLINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ATACADOLINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ATACADOLINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ATACADOLINK_REDIS_ADDR"`
	Password     string        `envconfig:"ATACADOLINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"ATACADOLINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ATACADOLINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ATACADOLINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ATACADOLINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ATACADOLINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ATACADOLINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ATACADOLINK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ATACADOLINK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ATACADOLINK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ATACADOLINK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ATACADOLINK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ATACADOLINK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ATACADOLINK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ATACADOLINK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ATACADOLINK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ATACADOLINK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ATACADOLINK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ATACADOLINK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ATACADOLINK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"ATACADOLINK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"ATACADOLINK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ATACADOLINK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ATACADOLINK_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ATACADOLINK_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"ATACADOLINK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ATACADOLINK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	ProductsTopic        string `envconfig:"ATACADOLINK_PUBSUB_PRODUCTS_TOPIC" default:"al-products-snapshots"`
	ProductsSubscription string `envconfig:"ATACADOLINK_PUBSUB_PRODUCTS_SUBSCRIPTION" required:"true"`
	EntitiesTopic        string `envconfig:"ATACADOLINK_PUBSUB_ENTITIES_TOPIC" default:"al-entities-snapshots"`
	EntitiesSubscription string `envconfig:"ATACADOLINK_PUBSUB_ENTITIES_SUBSCRIPTION" required:"true"`
	OrdersTopic          string `envconfig:"ATACADOLINK_PUBSUB_ORDERS_TOPIC" default:"al-orders-snapshots"`
	OrdersSubscription   string `envconfig:"ATACADOLINK_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
}

type InferenceConfig struct {
	BaseURL        string        `envconfig:"ATACADOLINK_INFERENCE_BASE_URL" default:"https://api.openai.com"`
	APIKey         string        `envconfig:"ATACADOLINK_INFERENCE_API_KEY"`
	Model          string        `envconfig:"ATACADOLINK_INFERENCE_MODEL" default:"gpt-4o-mini"`
	RequestTimeout time.Duration `envconfig:"ATACADOLINK_INFERENCE_REQUEST_TIMEOUT" default:"30s"`
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
