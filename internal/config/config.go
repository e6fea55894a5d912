package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Converter ConverterConfig `mapstructure:"converter"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Email     EmailConfig     `mapstructure:"email"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// MaxUploadSize caps workbook uploads in bytes.
	MaxUploadSize int64 `mapstructure:"max_upload_size"`
}

// ConverterConfig holds the external soffice converter configuration
type ConverterConfig struct {
	// SofficePath overrides discovery of the soffice binary. Empty means
	// look on PATH and then in the known install locations.
	SofficePath string        `mapstructure:"soffice_path"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// SMTPConfig holds the mail relay configuration
type SMTPConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	FromName string        `mapstructure:"from_name"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// EmailConfig holds distribution defaults
type EmailConfig struct {
	SubjectTemplate string        `mapstructure:"subject_template"`
	BodyTemplate    string        `mapstructure:"body_template"`
	Delay           time.Duration `mapstructure:"delay"`
	Retries         int           `mapstructure:"retries"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from an optional file plus environment
// variables. A missing file is not an error; env and defaults still
// produce a usable configuration.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnvVars(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 60*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.max_upload_size", int64(32<<20))

	v.SetDefault("converter.timeout", 120*time.Second)

	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.timeout", 30*time.Second)

	v.SetDefault("email.subject_template", "SPTJM - {nama} ({nip})")
	v.SetDefault("email.body_template",
		"Yth. Bapak/Ibu {nama},\n\nBerikut kami kirimkan file SPTJM (PDF).\n\nTerima kasih.\n")
	v.SetDefault("email.delay", 700*time.Millisecond)
	v.SetDefault("email.retries", 2)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	// Sensitive credentials and machine-local paths come from the
	// environment (or a .env file loaded by the caller).
	v.BindEnv("smtp.host", "SMTP_HOST")
	v.BindEnv("smtp.port", "SMTP_PORT")
	v.BindEnv("smtp.user", "SMTP_USER")
	v.BindEnv("smtp.password", "SMTP_PASS")
	v.BindEnv("smtp.from_name", "SMTP_FROM_NAME")
	v.BindEnv("converter.soffice_path", "SOFFICE_PATH")
}

// Validate validates the configuration. SMTP completeness is deliberately
// not checked here: generation must work on a machine with no mail relay
// configured. The email phase calls SMTP.Validate before any send.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Converter.Timeout <= 0 {
		return fmt.Errorf("converter.timeout must be positive")
	}
	if c.Email.Retries < 0 {
		return fmt.Errorf("email.retries must not be negative")
	}
	return nil
}

// Validate reports whether the relay configuration is complete enough to
// send at all. Incompleteness is a configuration error, surfaced before
// the first send is attempted.
func (c SMTPConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("smtp.host is required")
	}
	if c.Port <= 0 {
		return fmt.Errorf("smtp.port is required")
	}
	if c.User == "" {
		return fmt.Errorf("smtp.user is required")
	}
	if c.Password == "" {
		return fmt.Errorf("smtp.password is required")
	}
	return nil
}
