package main

import (
	"context"
	"log"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server"
	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
