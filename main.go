package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-authgate/oauth1gate/internal/bootstrap"
	"github.com/go-authgate/oauth1gate/internal/config"
	"github.com/go-authgate/oauth1gate/internal/logger"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/store"
	"github.com/go-authgate/oauth1gate/internal/version"

	"go.uber.org/zap"
)

func main() {
	// Define flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		version.PrintVersion()
		os.Exit(0)
	}

	// Check if command is provided
	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	// Handle subcommands
	switch args[0] {
	case "server":
		runServer()
	case "register-client":
		runRegisterClient(args[1:])
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [OPTIONS] COMMAND\n\n", os.Args[0])
	fmt.Println("OAuth 1.0a service provider")
	fmt.Println("\nCommands:")
	fmt.Println("  server            Start the OAuth server")
	fmt.Println("  register-client   Register a consumer application and print its credentials")
	fmt.Println("\nOptions:")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println("  -h, --help       Show this help message")
}

// loadConfig loads configuration and installs the global logger.
func loadConfig() (*config.Config, *zap.Logger, func()) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l, err := logger.New(cfg.IsProduction, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return cfg, l, logger.Install(l)
}

func runServer() {
	cfg, l, flush := loadConfig()
	defer flush()

	l.Info("starting", zap.String("version", version.String()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Run(ctx, cfg, l); err != nil {
		l.Error("server stopped", zap.Error(err))
		flush()
		os.Exit(1) //nolint:gocritic // flush already ran
	}
}

func runRegisterClient(args []string) {
	fs := flag.NewFlagSet("register-client", flag.ExitOnError)
	name := fs.String("name", "", "Application name (required)")
	callback := fs.String("callback", "", "Static callback URL; empty lets each request choose")
	perms := fs.String("permissions", "", "Permission ceiling separated by commas or spaces; empty grants all")
	owner := fs.String("owner", "admin", "Display name of the owning user")
	_ = fs.Parse(args)

	if *name == "" {
		fs.Usage()
		os.Exit(1)
	}

	ceiling := models.FullPermissionSet()
	if *perms != "" {
		parsed, err := models.ParsePermissionSet(*perms)
		if err != nil {
			log.Fatalf("Invalid permissions: %v", err)
		}
		ceiling = parsed
	}

	cfg, l, flush := loadConfig()
	defer flush()

	db, err := store.New(cfg.DatabaseDriver, cfg.DatabaseDSN, cfg)
	if err != nil {
		l.Fatal("failed to open database", zap.Error(err))
	}
	ctx := context.Background()
	defer func() { _ = db.Close(ctx) }()

	user, err := db.GetUserByDisplayName(ctx, *owner)
	if err != nil {
		l.Fatal("owner not found", zap.String("owner", *owner), zap.Error(err))
	}

	client, err := store.NewClientApplication(*name, *callback, ceiling, user.ID)
	if err != nil {
		l.Fatal("failed to generate credentials", zap.Error(err))
	}
	if err := db.CreateClient(ctx, client); err != nil {
		l.Fatal("failed to register client", zap.Error(err))
	}

	fmt.Printf("Consumer key:    %s\n", client.Key)
	fmt.Printf("Consumer secret: %s\n", client.Secret)
}
