package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"

	"github.com/pthm/prosescan/internal/cmd"
	"github.com/pthm/prosescan/internal/version"
)

func main() {
	// A missing .env is fine; secrets may come from the real environment.
	_ = godotenv.Load()

	err := fang.Execute(context.Background(), cmd.RootCmd, fang.WithVersion(version.Short()))
	if err != nil {
		os.Exit(1)
	}
}
