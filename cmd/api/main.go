package main

import (
	"log"

	"github.com/identra/identity-service/internal/infra/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("identity-service: %v", err)
	}
}
