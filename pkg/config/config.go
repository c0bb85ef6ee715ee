package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Checkout      CheckoutConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.parse(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FOODHEAVEN_APP_ENV" required:"true"`
	Port         string `envconfig:"FOODHEAVEN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FOODHEAVEN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FOODHEAVEN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FOODHEAVEN_DB_DSN"`
	Driver string `envconfig:"FOODHEAVEN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FOODHEAVEN_DB_HOST"`
	LegacyPort     int    `envconfig:"FOODHEAVEN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FOODHEAVEN_DB_USER"`
	LegacyPassword string `envconfig:"FOODHEAVEN_DB_PASSWORD"`
	LegacyName     string `envconfig:"FOODHEAVEN_DB_NAME"`
	LegacySSLMode  string `envconfig:"FOODHEAVEN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOODHEAVEN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOODHEAVEN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOODHEAVEN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODHEAVEN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FOODHEAVEN_REDIS_URL" required:"true"`
	Password     string        `envconfig:"FOODHEAVEN_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOODHEAVEN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOODHEAVEN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOODHEAVEN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOODHEAVEN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOODHEAVEN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOODHEAVEN_REDIS_WRITE_TIMEOUT" default:"5s"`

	// SlotTTL bounds how long abandoned cart/wishlist slots linger.
	SlotTTL time.Duration `envconfig:"FOODHEAVEN_REDIS_SLOT_TTL" default:"720h"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FOODHEAVEN_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FOODHEAVEN_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FOODHEAVEN_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FOODHEAVEN_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FOODHEAVEN_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FOODHEAVEN_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FOODHEAVEN_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FOODHEAVEN_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FOODHEAVEN_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FOODHEAVEN_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FOODHEAVEN_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FOODHEAVEN_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FOODHEAVEN_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FOODHEAVEN_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FOODHEAVEN_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FOODHEAVEN_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FOODHEAVEN_AUTO_MIGRATE" default:"false"`
}

// CheckoutConfig carries the storefront pricing knobs. Raw strings are
// parsed into decimals at load time so malformed values fail fast.
type CheckoutConfig struct {
	DeliveryFeeRaw string `envconfig:"FOODHEAVEN_CHECKOUT_DELIVERY_FEE" default:"40"`
	TaxRateRaw     string `envconfig:"FOODHEAVEN_CHECKOUT_TAX_RATE" default:"0.05"`

	DeliveryFee decimal.Decimal `ignored:"true"`
	TaxRate     decimal.Decimal `ignored:"true"`
}

func (c *CheckoutConfig) parse() error {
	fee, err := decimal.NewFromString(c.DeliveryFeeRaw)
	if err != nil {
		return fmt.Errorf("parsing delivery fee %q: %w", c.DeliveryFeeRaw, err)
	}
	if fee.IsNegative() {
		return fmt.Errorf("delivery fee must not be negative")
	}
	rate, err := decimal.NewFromString(c.TaxRateRaw)
	if err != nil {
		return fmt.Errorf("parsing tax rate %q: %w", c.TaxRateRaw, err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("tax rate must not be negative")
	}
	c.DeliveryFee = fee
	c.TaxRate = rate
	return nil
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FOODHEAVEN_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"FOODHEAVEN_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"FOODHEAVEN_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"FOODHEAVEN_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription string `envconfig:"FOODHEAVEN_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"FOODHEAVEN_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"FOODHEAVEN_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"FOODHEAVEN_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
