package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // Time zones resolve in minimal containers too.

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type AppConfig struct {
	API          *APIConfig          `mapstructure:"api"`
	Gin          *GinConfig          `mapstructure:"gin"`
	Storage      *StorageConfig      `mapstructure:"storage"`
	Postgres     *PostgresConfig     `mapstructure:"postgres"`
	Admin        *AdminConfig        `mapstructure:"admin"`
	Gemini       *GeminiConfig       `mapstructure:"gemini"`
	Registration *RegistrationConfig `mapstructure:"registration"`
	SMTP         *SMTPConfig         `mapstructure:"smtp"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	JWTTTL             time.Duration `mapstructure:"jwt_ttl"`
	TimeZone           string        `mapstructure:"time_zone"`
}

func (c *APIConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Dir    string `mapstructure:"dir"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode,
	)
}

type AdminConfig struct {
	Password string `mapstructure:"password"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type RegistrationConfig struct {
	SubmitDelay time.Duration `mapstructure:"submit_delay"`
}

// SMTPConfig enables real confirmation mails when Host is set.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

func (c *SMTPConfig) Enabled() bool {
	return c != nil && c.Host != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:3000"})
	v.SetDefault("api.jwt_signing_key", "")
	v.SetDefault("api.jwt_ttl", "12h")
	v.SetDefault("api.time_zone", "Asia/Taipei")

	v.SetDefault("gin.mode", "debug")

	v.SetDefault("storage.driver", StorageFile)
	v.SetDefault("storage.dir", "./data")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "postgres")
	v.SetDefault("postgres.db", "housing")
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("admin.password", "admin")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")

	v.SetDefault("registration.submit_delay", "1500ms")

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("HOUSING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	return v
}

// Load reads the YAML file at path. HOUSING_* environment variables override
// file values; the Gemini key also falls back to GEMINI_API_KEY and API_KEY.
func Load(path string) (*AppConfig, error) {
	v := newViper(path)
	if err := v.BindEnv("gemini.api_key", "HOUSING_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("v.BindEnv -> %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	return conf, nil
}

// Watch calls onChange whenever the file at path is written. Changes are
// not applied to a running server.
func Watch(path string, onChange func(fsnotify.Event)) {
	v := newViper(path)
	v.OnConfigChange(onChange)
	v.WatchConfig()
}
