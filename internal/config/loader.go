package config

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/contaflow/backoffice/internal/db"
)

// Config carries everything the server needs to start.
type Config struct {
	Database       db.Config
	HTTPAddr       string
	AllowedOrigins []string
	MigrationsPath string
}

// DefaultConfig returns the development defaults.
func DefaultConfig() Config {
	return Config{
		Database:       db.DefaultConfig(),
		HTTPAddr:       ":8080",
		AllowedOrigins: []string{"http://localhost:3000"},
		MigrationsPath: "./migrations",
	}
}

// Load reads config.yaml from configPath, with environment overrides mapped
// through the BACKOFFICE prefix (e.g. BACKOFFICE_DATABASE_HOST).
func Load(configPath string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("BACKOFFICE")

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("http.addr")
	v.BindEnv("migrations.path")

	if err := v.ReadInConfig(); err != nil {
		logrus.Info("no config.yaml found, using defaults and env vars")
	} else {
		logrus.WithField("file", v.ConfigFileUsed()).Info("loaded config.yaml")
	}

	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("http.addr") {
		cfg.HTTPAddr = v.GetString("http.addr")
	}
	if v.IsSet("http.allowed_origins") {
		cfg.AllowedOrigins = v.GetStringSlice("http.allowed_origins")
	}
	if v.IsSet("migrations.path") {
		cfg.MigrationsPath = v.GetString("migrations.path")
	}

	return cfg, nil
}
