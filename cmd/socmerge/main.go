package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"socMerge/internal/archive"
	"socMerge/internal/config"
	"socMerge/internal/logger"
	"socMerge/internal/pipeline"
	"socMerge/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	command := os.Args[1]

	// Optional .env file carrying service account material.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("configs/config.toml")
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case "run":
		if len(os.Args) < 3 {
			fmt.Println("Error: run command requires a ZIP archive path")
			fmt.Println("Usage: socmerge run <archive.zip> [--sheets|--csv|--xlsx]")
			return
		}
		runMerge(cfg, os.Args[2], os.Args[3:])
	case "ui":
		initialArchive := ""
		if len(os.Args) > 2 {
			initialArchive = os.Args[2]
		}
		runUI(cfg, initialArchive)
	case "init-config":
		fmt.Println("✓ Configuration ready at configs/config.toml")
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

func runMerge(cfg *config.Config, zipPath string, flags []string) {
	if err := applyTargetFlags(cfg, flags); err != nil {
		fmt.Printf("Error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	if strings.ToLower(filepath.Ext(zipPath)) != ".zip" {
		fmt.Printf("Error: %s is not a .zip archive\n", zipPath)
		os.Exit(1)
	}
	if _, err := os.Stat(zipPath); err != nil {
		logger.Error("Archive not found", "path", zipPath, "error", err)
		fmt.Printf("Error: cannot read archive %s: %v\n", zipPath, err)
		os.Exit(1)
	}

	rules, err := cfg.Rules()
	if err != nil {
		logger.Error("Invalid transform rules", "error", err)
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Starting merge run", "archive", zipPath, "target", cfg.Output.Target)
	fmt.Printf("📦 Extracting %s...\n", filepath.Base(zipPath))

	stamp := time.Now().Format(archive.Stamp)
	res, err := pipeline.RunArchive(rules, zipPath, stamp, printEvent)
	if err != nil {
		logger.Error("Merge run failed", "error", err)
		fmt.Printf("❌ Error: %v\n", err)
		os.Exit(1)
	}

	if len(res.Files) == 0 {
		fmt.Println("❌ No CSV or XLSX files found in the ZIP")
		return
	}
	if res.Empty {
		fmt.Println("\n⚠️  No data after filtering, nothing to publish")
		return
	}

	fmt.Printf("\n✅ Processing complete: %d rows, %d columns\n", res.Table.RowCount(), res.Table.Width())
	printHeaders(res)

	outcome, err := pipeline.PublishTo(context.Background(), cfg, res)
	if err != nil {
		logger.Error("Publish failed", "error", err)
		fmt.Printf("❌ Error publishing results: %v\n", err)
		os.Exit(1)
	}

	if outcome.Fallback {
		fmt.Printf("⚠️  Primary destination failed: %v\n", outcome.PrimaryErr)
	}
	fmt.Printf("🎉 Published to %s\n", outcome.Sink)
}

func applyTargetFlags(cfg *config.Config, flags []string) error {
	for _, flag := range flags {
		switch flag {
		case "--sheets":
			cfg.Output.Target = config.TargetSheets
		case "--csv":
			cfg.Output.Target = config.TargetCSV
		case "--xlsx":
			cfg.Output.Target = config.TargetXLSX
		default:
			return fmt.Errorf("unknown flag %s", flag)
		}
	}
	return nil
}

func printEvent(e pipeline.Event) {
	switch e.Kind {
	case pipeline.EventFileStarted:
		fmt.Printf("\n[%d/%d] Processing: %s\n", e.Index, e.Total, filepath.Base(e.Path))
	case pipeline.EventFileProcessed:
		fmt.Printf("✓ %d rows kept\n", e.Rows)
	case pipeline.EventFileEmpty:
		fmt.Println("⚠️  No rows after filtering")
	case pipeline.EventFileSkipped:
		fmt.Printf("❌ Skipped: %v\n", e.Err)
	}
}

// printHeaders lists the columns whose original header name survived into
// the published table.
func printHeaders(res *pipeline.Result) {
	letters := res.Table.Letters()
	for i, letter := range letters {
		if res.Headers[i] != letter {
			fmt.Printf("   %s → %s\n", letter, res.Headers[i])
		}
	}
}

func runUI(cfg *config.Config, initialArchive string) {
	logger.Info("Starting interactive mode")
	if err := tui.Run(cfg, initialArchive); err != nil {
		logger.Error("Interactive mode failed", "error", err)
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("socMerge - Station Report Merge Tool")
	fmt.Println("\nUsage:")
	fmt.Println("  socmerge run <archive.zip>            - Merge the reports in a ZIP and publish them")
	fmt.Println("  socmerge run <archive.zip> --csv      - Publish to a local CSV file instead")
	fmt.Println("  socmerge run <archive.zip> --xlsx     - Publish to a local XLSX workbook instead")
	fmt.Println("  socmerge ui [archive.zip]             - Interactive mode")
	fmt.Println("  socmerge init-config                  - Create the default configuration file")
}
