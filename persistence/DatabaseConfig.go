package persistence

import (
	"database/sql"
	"errors"
	"os"
	"strings"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv DATABASE_DRIVER=mysql DATABASE_ARGS=root:root@(127.0.0.1:3306)/docflow?charset=utf8mb4&parseTime=True&loc=Local
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	driver := os.Getenv("DATABASE_DRIVER")
	if driver == "" {
		driver = "mysql"
	}
	args := os.Getenv("DATABASE_ARGS")
	if args == "" {
		return nil, errors.New("environment variable DATABASE_ARGS is not set")
	}
	return &DatabaseConfig{DriverType: driver, DriverArgs: args}, nil
}

// PrepareMysqlDatabase creates the database named in the dsn when it does not exist yet.
func PrepareMysqlDatabase(driverArgs string) error {
	slashIdx := strings.Index(driverArgs, "/")
	if slashIdx < 0 {
		return errors.New("invalid mysql driver args: " + driverArgs)
	}
	databaseName := driverArgs[slashIdx+1:]
	if qIdx := strings.Index(databaseName, "?"); qIdx >= 0 {
		databaseName = databaseName[0:qIdx]
	}
	if databaseName == "" {
		return errors.New("database name is missing in driver args")
	}

	db, err := sql.Open("mysql", driverArgs[0:slashIdx+1])
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS `" + databaseName + "` DEFAULT CHARACTER SET utf8mb4")
	return err
}
