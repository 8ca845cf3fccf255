package testinfra

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"docflow/persistence"

	"github.com/google/uuid"
)

type TestDatabase struct {
	TestDatabaseName string
	DS               *persistence.DataSourceManager
}

// StartTestDatabase spins up a throwaway database. The default is an on-disk
// sqlite file so the suite is hermetic; TEST_DB_DRIVER=mysql together with
// TEST_MYSQL_SERVICE=root:root@(127.0.0.1:3306) runs against a real server.
func StartTestDatabase(baseName string) *TestDatabase {
	databaseName := baseName + "_test_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	var dbConfig *persistence.DatabaseConfig
	if os.Getenv("TEST_DB_DRIVER") == "mysql" {
		mysqlSvc := os.Getenv("TEST_MYSQL_SERVICE")
		if mysqlSvc == "" {
			mysqlSvc = "root:root@(127.0.0.1:3306)"
		}
		dbConfig = &persistence.DatabaseConfig{
			DriverType: "mysql", DriverArgs: mysqlSvc + "/" + databaseName + "?charset=utf8mb4&parseTime=True&loc=Local&timeout=5s",
		}
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	} else {
		dbConfig = &persistence.DatabaseConfig{
			DriverType: "sqlite3", DriverArgs: filepath.Join(os.TempDir(), databaseName+".db"),
		}
	}

	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		defer ds.Stop()
		log.Fatalf("database connection failed %v\n", err)
	}

	return &TestDatabase{TestDatabaseName: databaseName, DS: ds}
}

func StopTestDatabase(testDatabase *TestDatabase) {
	if testDatabase == nil || testDatabase.DS == nil {
		return
	}

	config := testDatabase.DS.DatabaseConfig
	if config.DriverType == "mysql" && testDatabase.DS.GormDB() != nil {
		if err := testDatabase.DS.GormDB().Exec("DROP DATABASE " + testDatabase.TestDatabaseName).Error; err != nil {
			log.Println("failed to drop test database: " + testDatabase.TestDatabaseName)
		}
	}

	testDatabase.DS.Stop()

	if config.DriverType == "sqlite3" {
		if err := os.Remove(config.DriverArgs); err != nil {
			log.Println("failed to remove test database file: " + config.DriverArgs)
		}
	}
}
