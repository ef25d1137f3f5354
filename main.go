package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"blogapi/admin"
	"blogapi/app/config"
	"blogapi/app/logger"
	"blogapi/app/repositories"
	"blogapi/app/routes"
	"blogapi/app/server"
)

// CliVersion is reported by the version command.
const CliVersion = "1.0.0"

// exit is swapped out in tests.
var exit = os.Exit

func main() {
	RealMain()
}

// RealMain dispatches os.Args and exits with the command's status.
func RealMain() {
	if len(os.Args) < 2 {
		printHelp()
		exit(1)
		return
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "help":
		printHelp()
	case "version":
		fmt.Printf("blogapi version %s\n", CliVersion)
	case "serve":
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exit(1)
		}
	case "db":
		if err := db(os.Args[2:]); err != nil {
			if !errors.Is(err, admin.ErrUsage) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			exit(1)
		}
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printHelp()
		exit(1)
	}
}

func printHelp() {
	helpText := `Usage: blogapi <command> [options]
Commands:
  help                           Display this help message.
  version                        Show version information.
  serve                          Run the blog API server.
  db <command>                   Database maintenance: init, clean, backup, restore <file>.

Configuration is read from BLOG_* environment variables and an optional .env file.
`
	fmt.Println(helpText)
}

// serve runs the HTTP API until SIGINT or SIGTERM.
func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := repositories.Open(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	log.Info().
		Str("env", cfg.Env).
		Str("driver", cfg.Store.Driver).
		Msg("starting blog api")

	router := routes.SetupRoutes(store, log)
	return server.New(cfg, router, log).Start(ctx)
}

func db(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log)

	return admin.New(cfg.Store, log).HandleCommand(context.Background(), args)
}
