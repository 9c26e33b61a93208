package main

import (
	"log"

	"github.com/linkring/linkring/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ linkring failed to start: %v", err)
	}
}
