package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/docforge/pdf2md/internal/config"
	"github.com/docforge/pdf2md/internal/converter"
	"github.com/docforge/pdf2md/internal/mcp"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the execution mode
func setupLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		// In stdio mode, redirect log output to stderr to avoid interfering with MCP protocol
		log.SetOutput(os.Stderr)
		if !cfg.IsDebug() {
			log.SetOutput(os.NewFile(0, os.DevNull))
		}
	} else {
		// In convert mode, use normal stdout logging with more detail
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

// runStdioMode runs the MCP server; the parent process controls our lifecycle
func runStdioMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.Printf("Received signal: %s", sig)
		cancel()
		if err := <-serverErrCh; err != nil {
			log.Printf("Server shutdown with error: %v", err)
			os.Exit(1)
		}
	case err := <-serverErrCh:
		if err != nil {
			log.Printf("Server error: %v", err)
			os.Exit(1)
		}
	}
}

// runConvertMode converts every PDF named on the command line. A failure
// aborts the current document and processing continues with the next one.
func runConvertMode(ctx context.Context, service *converter.Service, paths []string) {
	if len(paths) == 0 {
		pflag.Usage()
		os.Exit(1)
	}

	failures := 0
	for _, path := range paths {
		log.Printf("Processing PDF: %s", path)

		result, err := service.Convert(ctx, converter.ConvertRequest{Path: path})
		if err != nil {
			log.Printf("Error processing %s: %v", path, err)
			failures++
			continue
		}

		printResult(result)
	}

	if failures > 0 {
		log.Printf("%d of %d document(s) failed", failures, len(paths))
		os.Exit(1)
	}
}

// printResult gives a short console report of one converted document
func printResult(result *converter.ConvertResult) {
	fmt.Printf("\nConverted %s (%d pages, %d parts)\n", result.Path, result.Pages, len(result.Parts))
	fmt.Printf("  Markdown: %s\n", result.MarkdownPath)
	if result.TOCPath != "" {
		fmt.Printf("  Table of contents: %s (%d entries)\n", result.TOCPath, len(result.TOC))
	}
	if result.SummaryPath != "" {
		fmt.Printf("  Summary: %s\n", result.SummaryPath)
	}

	for i, entry := range result.TOC {
		if i >= 10 { // Show first 10 entries
			fmt.Printf("  ... and %d more entries\n", len(result.TOC)-10)
			break
		}
		for j := 1; j < entry.Level; j++ {
			fmt.Print("  ")
		}
		fmt.Printf("  - %s\n", entry.Title)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	service := converter.NewService(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsStdioMode() {
		server, err := mcp.NewServer(cfg, service)
		if err != nil {
			log.Fatalf("Failed to create MCP server: %v", err)
		}
		runStdioMode(ctx, cancel, server)
		return
	}

	runConvertMode(ctx, service, pflag.Args())
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("pdf2md\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
