package main

import (
	"github.com/joho/godotenv"

	"github.com/scilens/biomark/cmd"
)

func main() {
	// Pick up API keys and backend settings from a local .env if present.
	_ = godotenv.Load()

	cmd.Execute()
}
