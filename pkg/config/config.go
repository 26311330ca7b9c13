package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Cart         CartConfig
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
	Env          string `envconfig:"DELISPI_APP_ENV" required:"true"`
	Port         string `envconfig:"DELISPI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DELISPI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DELISPI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DELISPI_DB_DSN"`
	Driver string `envconfig:"DELISPI_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DELISPI_DB_HOST"`
	LegacyPort     int    `envconfig:"DELISPI_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DELISPI_DB_USER"`
	LegacyPassword string `envconfig:"DELISPI_DB_PASSWORD"`
	LegacyName     string `envconfig:"DELISPI_DB_NAME"`
	LegacySSLMode  string `envconfig:"DELISPI_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DELISPI_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DELISPI_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DELISPI_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DELISPI_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DELISPI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DELISPI_REDIS_ADDR"`
	Password     string        `envconfig:"DELISPI_REDIS_PASSWORD"`
	DB           int           `envconfig:"DELISPI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DELISPI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DELISPI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DELISPI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DELISPI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DELISPI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DELISPI_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DELISPI_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DELISPI_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DELISPI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DELISPI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DELISPI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DELISPI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DELISPI_ARGON_KEY_LEN" default:"32"`
}

type CartConfig struct {
	SessionTTL time.Duration `envconfig:"DELISPI_CART_SESSION_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DELISPI_AUTO_MIGRATE" default:"false"`
	SampleData  bool `envconfig:"DELISPI_SAMPLE_DATA" default:"false"`
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
