package main

import (
	"bufio"
	"flag"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/sauvikbiswas007/contactbook/internal/config"
	"github.com/sauvikbiswas007/contactbook/internal/service"
)

// Usage example on the command line:
// > DBHOST=localhost:3306 DBUSER=root DBPWD=secret go run main.go -file=../../scripts/database.sql
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	sqlDB := service.CreateDatabase(cfg)
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	filePtr := flag.String("file", "database.sql", "the sql file to execute")
	flag.Parse()

	readFile, err := os.Open(*filePtr) // nosemgrep
	if err != nil {
		panic(err)
	}
	defer readFile.Close()

	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	for fileScanner.Scan() {
		line := fileScanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			db.MustExec(builder.String())
			builder = strings.Builder{}
		}
	}
}
