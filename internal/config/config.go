package config

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Log         LogConfig         `yaml:"log"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Recruitment RecruitmentConfig `yaml:"recruitment"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type ServerConfig struct {
	Port  int  `yaml:"port"`
	Debug bool `yaml:"debug"`
	// CORSOrigins lists origins allowed to call the API with cookies. Empty
	// allows any origin without credentials.
	CORSOrigins []string `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type AuthConfig struct {
	SecretKey          string `yaml:"secret_key"`
	AdminUsername      string `yaml:"admin_username"`
	AdminPassword      string `yaml:"admin_password"`
	CredentialStrategy string `yaml:"credential_strategy"`
	JWTSecret          string `yaml:"jwt_secret"`
	CookieSecure       bool   `yaml:"cookie_secure"`
}

type RecruitmentConfig struct {
	// AtomicSubmission validates credentials before anything is written and
	// inserts application and account together. Off keeps the historical
	// behavior where a rejected login still leaves the application stored.
	AtomicSubmission bool `yaml:"atomic_submission"`
}

// Default returns the configuration used when neither a file nor the
// environment says otherwise.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080},
		Log:      LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Database: DatabaseConfig{URL: "sqlite:///garrison.db"},
		Auth: AuthConfig{
			SecretKey:          "dev-secret-key-change",
			AdminUsername:      "admin",
			AdminPassword:      "admin123",
			CredentialStrategy: "plaintext",
		},
	}
}

func Load(configFile string) *Config {
	c := Default()

	paths := []string{"etc/config-dev.yaml", "/etc/garrison/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	// .env never overrides variables already set in the process environment.
	_ = godotenv.Load()

	envOverride(&c.Auth.SecretKey, "SECRET_KEY")
	envOverride(&c.Auth.AdminUsername, "ADMIN_USERNAME")
	envOverride(&c.Auth.AdminPassword, "ADMIN_PASSWORD")
	envOverride(&c.Auth.CredentialStrategy, "CREDENTIAL_STRATEGY")
	envOverride(&c.Auth.JWTSecret, "JWT_SECRET")
	envOverride(&c.Database.URL, "DATABASE_URL")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideBool(&c.Server.Debug, "FLASK_DEBUG")
	envOverrideBool(&c.Server.Debug, "DEBUG")
	envOverrideBool(&c.Auth.CookieSecure, "COOKIE_SECURE")
	envOverrideBool(&c.Recruitment.AtomicSubmission, "ATOMIC_SUBMISSION")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = strings.Split(v, ",")
	}

	if c.Auth.JWTSecret == "" {
		c.Auth.JWTSecret = c.Auth.SecretKey
	}
	if c.Server.Debug && os.Getenv("LOG_LEVEL") == "" {
		c.Log.Level = "debug"
	}
	c.Database.URL = NormalizeDatabaseURL(c.Database.URL)
	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

type Engine string

const (
	EngineSQLite   Engine = "sqlite"
	EngineMySQL    Engine = "mysql"
	EnginePostgres Engine = "postgres"
)

// NormalizeDatabaseURL rewrites the legacy postgres:// scheme handed out by
// some hosting platforms to postgresql://.
func NormalizeDatabaseURL(raw string) string {
	if strings.HasPrefix(raw, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(raw, "postgres://")
	}
	return raw
}

// ParseDatabaseURL maps a database URL onto an engine and the DSN its
// driver expects.
//
//	sqlite:///relative.db      -> relative.db
//	sqlite:////abs/path.db     -> /abs/path.db
//	mysql://u:p@host:3306/db   -> u:p@tcp(host:3306)/db?parseTime=true
//	postgresql://u:p@host/db   -> unchanged
func ParseDatabaseURL(raw string) (Engine, string, error) {
	raw = NormalizeDatabaseURL(strings.TrimSpace(raw))
	switch {
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			return "", "", fmt.Errorf("sqlite url %q has no path", raw)
		}
		if !strings.Contains(path, "?") {
			path += "?_foreign_keys=on"
		}
		return EngineSQLite, path, nil
	case strings.HasPrefix(raw, "postgresql://"):
		return EnginePostgres, raw, nil
	case strings.HasPrefix(raw, "mysql://"):
		dsn, err := mysqlDSN(raw)
		if err != nil {
			return "", "", err
		}
		return EngineMySQL, dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database url %q", raw)
	}
}

func mysqlDSN(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse mysql url: %w", err)
	}
	cfg := gomysql.NewConfig()
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = u.Host + ":3306"
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true
	if len(u.Query()) > 0 {
		cfg.Params = map[string]string{}
		for k := range u.Query() {
			cfg.Params[k] = u.Query().Get(k)
		}
	}
	return cfg.FormatDSN(), nil
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	engine, dsn, err := ParseDatabaseURL(c.Database.URL)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if c.Server.Debug {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	switch engine {
	case EngineMySQL:
		mcfg, err := gomysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse dsn: %w", err)
		}
		connector, err := gomysql.NewConnector(mcfg)
		if err != nil {
			return nil, fmt.Errorf("create connector: %w", err)
		}
		sqlDB := sql.OpenDB(connector)
		if err := sqlDB.Ping(); err != nil {
			return nil, fmt.Errorf("ping db: %w", err)
		}
		return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), gormCfg)
	case EnginePostgres:
		return gorm.Open(postgres.Open(dsn), gormCfg)
	default:
		return gorm.Open(sqlite.Open(dsn), gormCfg)
	}
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envOverrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}
