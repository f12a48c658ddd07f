// Package config reads the runtime configuration from environment variables.
package config

import "github.com/kelseyhightower/envconfig"

// App holds everything the service needs at startup.
type App struct {
	// HTTP
	Port       int    `envconfig:"PORT" default:"8080"`
	GinLogging string `envconfig:"GIN_LOGGING" default:"on"`
	// Database
	DBHost     string `envconfig:"DBHOST" default:"localhost:3306"`
	DBUser     string `envconfig:"DBUSER" default:"root"`
	DBPassword string `envconfig:"DBPWD" default:""`
	DBName     string `envconfig:"DBNAME" default:"test"`
	// Logging
	LogMode string `envconfig:"LOG_MODE" default:"dev"`
}

// Load populates an App from the process environment.
func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
