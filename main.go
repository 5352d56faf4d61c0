package main

import (
	"github.com/joho/godotenv"

	"github.com/rsinha/cashguard/cmd"
)

func main() {
	// Local .env may set CASHGUARD_DATA_DIR and friends during development.
	_ = godotenv.Load()
	cmd.Execute()
}
