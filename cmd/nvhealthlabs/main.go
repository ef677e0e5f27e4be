package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/NVHealth/nvhealthlabs-sub001/internal/app"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/config"
)

func main() {
	// Local development convenience; absent .env is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := app.Run(cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}
