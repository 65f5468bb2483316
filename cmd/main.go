package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ironvale/inventory-backend/internal/app"
)

func main() {
	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		application.Log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
