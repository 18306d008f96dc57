// Command trendspotter is the social-trend chatbot.
//
// Usage:
//
//	trendspotter                Show help
//	trendspotter serve          Run the HTTP chat API
//	trendspotter chat           Interactive terminal chat
//	trendspotter ingest         Load a tweet CSV export into the store
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

const usage = `trendspotter — social trend chatbot

Usage:
  trendspotter <command> [flags]

Commands:
  serve       Run the HTTP chat API
  chat        Interactive terminal chat
  ingest      Load a tweet CSV export into the store

Environment:
  GEMINI_API_KEY     Google Gemini API key (preferred oracle)
  GEMINI_MODEL       Gemini model name (default: gemini-2.0-flash)
  OLLAMA_HOST        Local Ollama endpoint (fallback oracle)
  TRENDSPOTTER_DB    SQLite database path (default: ~/.trendspotter/trends.db)

Run 'trendspotter <command> -h' for command-specific help.
`

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found or error loading it. Using environment variables.")
	}

	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	// Strip the program name + subcommand so flag sets see only their flags
	os.Args = os.Args[1:]

	switch cmd {
	case "serve":
		runServe()
	case "chat":
		runChat()
	case "ingest":
		runIngest()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "trendspotter: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}
