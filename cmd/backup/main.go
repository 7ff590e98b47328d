package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lifeos/internal/config"
	"lifeos/internal/logger"
	"lifeos/internal/repository"
	"lifeos/internal/service"
	"lifeos/internal/store"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)

	// Export flags
	exportOutput := exportCmd.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")

	// Import flags
	importInput := importCmd.String("input", "", "Input file path (required)")
	importClear := importCmd.Bool("clear", false, "Delete existing profiles before import (WARNING: destructive)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Open the configured store backend
	kv, err := store.New(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open store", "engine", cfg.StoreEngine, "error", err)
	}
	defer kv.Close()

	profiles := repository.NewProfileRepository(kv)
	backupService := service.NewBackupService(profiles, log)

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(ctx, log, backupService, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(ctx, log, backupService, profiles, *importInput, *importClear)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(ctx context.Context, log *logger.Logger, backupService *service.BackupService, outputPath string) {
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("backup_%s.json", timestamp)
	}

	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal("Failed to create output directory", "dir", dir, "error", err)
		}
	}

	log.Info("Exporting profiles", "path", outputPath)
	if err := backupService.Export(ctx, outputPath); err != nil {
		log.Fatal("Export failed", "error", err)
	}

	if fileInfo, err := os.Stat(outputPath); err == nil {
		log.Info("Export written", "path", outputPath, "bytes", fileInfo.Size())
	}
}

func handleImport(ctx context.Context, log *logger.Logger, backupService *service.BackupService, profiles *repository.ProfileRepository, inputPath string, clearData bool) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatal("Input file does not exist", "path", inputPath)
	}

	if clearData {
		fmt.Print("WARNING: This will delete all existing profiles. Type 'yes' to confirm: ")
		var confirmation string
		fmt.Scanln(&confirmation)
		if confirmation != "yes" {
			log.Info("Import cancelled")
			return
		}

		if err := clearProfiles(ctx, log, profiles); err != nil {
			log.Fatal("Failed to clear profiles", "error", err)
		}
	}

	log.Info("Importing profiles", "path", inputPath)
	n, err := backupService.Import(ctx, inputPath)
	if err != nil {
		log.Fatal("Import failed", "error", err)
	}
	log.Info("Import finished", "profiles", n)
}

// clearProfiles deletes every stored profile and the active-session pointer
func clearProfiles(ctx context.Context, log *logger.Logger, profiles *repository.ProfileRepository) error {
	usernames, err := profiles.ListUsernames(ctx)
	if err != nil {
		return err
	}
	for _, username := range usernames {
		if err := profiles.DeleteProfile(ctx, username); err != nil {
			return err
		}
		log.Debug("Deleted profile", "username", username)
	}
	return profiles.ClearActive(ctx)
}

func printUsage() {
	fmt.Println("LifeOS Profile Backup Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export all profiles to a JSON file")
	fmt.Println("  backup import [options]    Import profiles from a JSON file")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>    Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>     Input file path (required)")
	fmt.Println("  -clear            Delete existing profiles before import (WARNING: destructive)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  backup export -output mybackup.json")
	fmt.Println("  backup import -input backup.json")
	fmt.Println("  backup import -input backup.json -clear")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  STORE_ENGINE     Store backend: sqlite, postgres, mysql, json, redis, memory (default: sqlite)")
	fmt.Println("  STORE_NAMESPACE  Key prefix (default: lifeos_)")
	fmt.Println("  DB_PATH          SQLite database path (default: ./lifeos.db)")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
	fmt.Println("  JSON_STORE_PATH  JSON store file (default: ./lifeos.json)")
	fmt.Println("  REDIS_ADDR       Redis address (default: localhost:6379)")
}
