package main

import (
	"log"

	"github.com/tech-arch1tect/cadence"
)

func main() {
	app, err := cadence.New()
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
