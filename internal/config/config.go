package config

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.Username, c.Password, c.Host, c.Port, c.DBName, sslMode)
}

// DBConfigFromEnv reads the POSTGRES_* variables.
func DBConfigFromEnv() DBConfig {
	return DBConfig{
		Username: os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		DBName:   os.Getenv("POSTGRES_DATABASE"),
		SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
	}
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// ClientConfig drives the terminal client.
type ClientConfig struct {
	BaseURL  string        `validate:"required,url"`
	PageSize int           `validate:"gte=1,lte=100"`
	Timeout  time.Duration `validate:"gte=0"`
	Debug    bool
	// Token is a bearer token from an earlier login.
	Token    string
}

var validate = validator.New()

func (c ClientConfig) Validate() error {
	return validate.Struct(c)
}

// LoadEnv loads .env if there is one. A missing file is not an error.
func LoadEnv() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}

// InitConfig reads app.yaml from the working directory into the global viper.
func InitConfig() error {
	return ReadConfig(viper.GetViper())
}

func ReadConfig(v *viper.Viper) error {
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName("app")
	return v.ReadInConfig()
}

func setClientDefaults(v *viper.Viper) {
	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.page_size", 10)
	v.SetDefault("client.timeout", 10*time.Second)
	v.SetDefault("client.debug", false)
}

// ClientConfigFrom reads the client section of v. FEEDCTL_* environment
// variables override the file.
func ClientConfigFrom(v *viper.Viper) (ClientConfig, error) {
	setClientDefaults(v)
	for _, key := range []string{"base_url", "page_size", "timeout", "debug", "token"} {
		if err := v.BindEnv("client."+key, "FEEDCTL_"+strings.ToUpper(key)); err != nil {
			return ClientConfig{}, err
		}
	}

	cfg := ClientConfig{
		BaseURL:  v.GetString("client.base_url"),
		PageSize: v.GetInt("client.page_size"),
		Timeout:  v.GetDuration("client.timeout"),
		Debug:    v.GetBool("client.debug"),
		Token:    v.GetString("client.token"),
	}
	if err := cfg.Validate(); err != nil {
		return ClientConfig{}, fmt.Errorf("invalid client config: %w", err)
	}
	return cfg, nil
}
