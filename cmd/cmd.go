// Package cmd provides CLI commands for Mentor.
//
// Commands:
//   - serve: HTTP API server with SSE streaming
//   - version: Build and version information
//
// Signal handling and graceful shutdown are implemented via context
// cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
)

// Execute is the main entry point for the Mentor application.
func Execute() error {
	// Initialize logger once at entry point
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "serve":
		return runServe()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("Mentor - AI study assistant backend")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  mentor serve [addr]  Start HTTP API server (default: localhost:8080)")
	fmt.Println("  mentor --version     Show version information")
	fmt.Println("  mentor --help        Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GEMINI_API_KEY       Required: Gemini API key")
	fmt.Println("  DATABASE_URL         Optional: PostgreSQL connection URL")
	fmt.Println("  MENTOR_SERVER_ADDR   Optional: Listen address override")
	fmt.Println("  MENTOR_RATE_BURST    Optional: Per-IP rate limit burst size")
	fmt.Println("  DEBUG                Optional: Enable debug logging")
	fmt.Println()
	fmt.Println("Configuration file: ~/.mentor/config.yaml")
}
