package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App        AppConfig
	DB         DBConfig
	JWT        JWTConfig
	HTTP       HTTPConfig
	Redis      RedisConfig
	Mail       MailConfig
	SuperAdmin SuperAdminConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	// FrontendURL se usa en los enlaces de los correos.
	FrontendURL string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string
	// LoginRateLimit intentos de login por minuto e IP.
	LoginRateLimit int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig denylist de tokens. Si Addr está vacío se usa la tabla revoked_tokens de PostgreSQL.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Proveedores de correo soportados.
const (
	MailProviderLog      = "log"
	MailProviderSMTP     = "smtp"
	MailProviderSendGrid = "sendgrid"
)

// MailConfig credenciales de correo saliente.
type MailConfig struct {
	Provider       string // log, smtp, sendgrid
	From           string
	FromName       string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	SendGridAPIKey string
}

// SuperAdminConfig identifica al super-admin por email.
type SuperAdminConfig struct {
	Email    string
	Password string // solo lo usa cmd/seed
	Name     string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo)
// y la valida. Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper construye la configuración aplicando valores por defecto.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "vendofy-api"),
			LogLevel:    getString(v, "LOG_LEVEL", "info"),
			FrontendURL: getString(v, "FRONTEND_URL", "http://localhost:5173"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", ""),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", ""),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 25),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60*24),
			Issuer:     getString(v, "JWT_ISSUER", "vendofy"),
		},
		HTTP: HTTPConfig{
			Host:           getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:           getInt(v, "HTTP_PORT", 8080),
			CORSOrigins:    getString(v, "CORS_ORIGINS", "*"),
			LoginRateLimit: getInt(v, "LOGIN_RATE_LIMIT", 10),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Mail: MailConfig{
			Provider:       strings.ToLower(getString(v, "MAIL_PROVIDER", MailProviderLog)),
			From:           getString(v, "MAIL_FROM", ""),
			FromName:       getString(v, "MAIL_FROM_NAME", "Vendofy"),
			SMTPHost:       getString(v, "SMTP_HOST", ""),
			SMTPPort:       getInt(v, "SMTP_PORT", 587),
			SMTPUser:       getString(v, "SMTP_USER", ""),
			SMTPPassword:   getString(v, "SMTP_PASSWORD", ""),
			SendGridAPIKey: getString(v, "SENDGRID_API_KEY", ""),
		},
		SuperAdmin: SuperAdminConfig{
			Email:    strings.ToLower(getString(v, "SUPER_ADMIN_EMAIL", "")),
			Password: getString(v, "SUPER_ADMIN_PASSWORD", ""),
			Name:     getString(v, "SUPER_ADMIN_NAME", "Super Admin"),
		},
	}
}

// Validate falla si falta alguna variable obligatoria. Reporta todas a la vez.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET es obligatorio"))
	}
	if c.DB.DatabaseURL == "" && (c.DB.Host == "" || c.DB.DBName == "") {
		errs = append(errs, errors.New("DATABASE_URL o DB_HOST + DB_NAME son obligatorios"))
	}
	if c.SuperAdmin.Email == "" {
		errs = append(errs, errors.New("SUPER_ADMIN_EMAIL es obligatorio"))
	}
	switch c.Mail.Provider {
	case MailProviderLog:
	case MailProviderSMTP:
		if c.Mail.SMTPHost == "" || c.Mail.From == "" {
			errs = append(errs, errors.New("SMTP_HOST y MAIL_FROM son obligatorios con MAIL_PROVIDER=smtp"))
		}
	case MailProviderSendGrid:
		if c.Mail.SendGridAPIKey == "" || c.Mail.From == "" {
			errs = append(errs, errors.New("SENDGRID_API_KEY y MAIL_FROM son obligatorios con MAIL_PROVIDER=sendgrid"))
		}
	default:
		errs = append(errs, fmt.Errorf("MAIL_PROVIDER desconocido: %q", c.Mail.Provider))
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuración inválida: %w", errors.Join(errs...))
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
