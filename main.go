package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/linesmerrill/gun-locker-api/api/handlers"
	"github.com/linesmerrill/gun-locker-api/api/scheduler"

	"go.uber.org/zap"

	"github.com/linesmerrill/gun-locker-api/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	err := a.Initialize() //initialize database and router
	if err != nil {
		log.Fatal(err)
	}

	s := scheduler.NewScheduler(a.DBHelper(), a.Config.WarrantyDigestCron)
	s.Start()
	defer s.Stop()

	port := os.Getenv("PORT")
	baseURL := os.Getenv("BASE_URL")
	zap.S().Infow("gun-locker-api is up and running",
		"port", port,
		"url", baseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", port), a.Router))
}
