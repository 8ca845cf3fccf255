package main

import (
	"log"
	"net/http"

	"docflow/bizerror"
	"docflow/domain"
	"docflow/identity"
	"docflow/persistence"
	"docflow/servehttp"
	"docflow/wf"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("service start")

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()

	// database migration (race condition)
	err = ds.GormDB().AutoMigrate(
		&domain.Workflow{}, &domain.WorkflowState{}, &domain.WorkflowAction{},
		&domain.WorkflowTransition{}, &domain.TransitionUser{}, &domain.TransitionGroup{},
		&domain.WorkflowLog{}, &domain.DocumentWorkflow{}, &domain.MandatoryWorkflow{},
		&identity.User{}, &identity.Group{}).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	engine := gin.Default()
	engine.Use(bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "docflow")
	})

	workflowEngine := wf.NewEngine(ds, identity.NewDatabaseResolver(ds), wf.NewGrantFilters())
	servehttp.RegisterWorkflowHandler(engine, workflowEngine)
	servehttp.RegisterLifecycleHandler(engine, workflowEngine)

	err = engine.Run(":80")
	if err != nil {
		panic(err)
	}
}
