package main

import (
	"fmt"

	"github.com/sauvikbiswas007/contactbook/internal/config"
	"github.com/sauvikbiswas007/contactbook/internal/logger"
	"github.com/sauvikbiswas007/contactbook/internal/service"
)

// Usage example on the command line:
// > PORT=8080 DBHOST=localhost:3306 DBUSER=root DBPWD=secret GIN_MODE=release go run main.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	service.SetupLogger(log)
	sqlDB := service.CreateDatabase(cfg)
	service.SetupDatabaseWrapper(sqlDB)
	router := service.SetupHttpRouter(cfg)

	log.Info("starting contactbook service", "port", cfg.Port, "dbhost", cfg.DBHost)
	if err := router.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
