package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/MANOJ-80/0xRupex/cmd/rupex/cmd"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// A local .env is optional; real environment variables and flags win.
	_ = godotenv.Load()

	cmd.SetVersionInfo(version, commit, date)

	if err := cmd.Execute(); err != nil {
		handler := cmd.NewCLIErrorHandler()
		os.Exit(handler.HandleError(err))
	}
}
