// Command apitypes generates TypeScript types from live API responses.
//
// Usage:
//
//	apitypes generate -c api-config.json [-o ./types] [-f zod] [-p 3] [-t 30] [--retries 2]
//	apitypes generate --name User --url https://api.example.com/users/1
//	apitypes init [-f json|yaml] [-o path]
//	apitypes mcp
//
// Run defaults come from APITYPES_* environment variables and an optional
// .env file in the working directory; flags override them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A missing .env is fine; real environment variables win.
	_ = godotenv.Load()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}
