package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/matthewdeaves/isrguard/internal/cli"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	os.Exit(cli.Execute())
}
