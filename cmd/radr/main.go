package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hpungsan/radr/internal/config"
	"github.com/hpungsan/radr/internal/db"
	"github.com/hpungsan/radr/internal/docwriter"
	"github.com/hpungsan/radr/internal/mcp"
	"github.com/hpungsan/radr/internal/tui"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"blip": true, "adr": true, "stats": true,
	"export": true, "serve": true, "tui": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs another front door.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → TUI or MCP depending on stdin
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func main() {
	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, nil, "")
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".radr")

	cwd, err := os.Getwd()
	if err != nil {
		cwd = baseDir
	}

	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	database, err := openDatabase(baseDir, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	writer := docwriter.New(cfg.ResolveAdrDir(baseDir), cfg.ResolveBlipDir(baseDir))

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(database, cfg, writer, baseDir)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start another mode)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'radr --help' for usage.\n")
		os.Exit(1)
	}

	// No args + interactive terminal → TUI session
	if isTerminal() {
		if err := runTUI(database, cfg, writer, baseDir); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// MCP server mode (piped stdin)
	if err := mcp.Run(database, cfg, writer, baseDir, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openDatabase opens the index, honoring a DATABASE_NAME saved from the
// settings screen: the default database is opened first to read persisted
// settings, then reopened under the saved name when they differ. ADR_DIR and
// BLIP_DIR settings overlay the file config the same way.
func openDatabase(baseDir string, cfg *config.Config) (database *sql.DB, err error) {
	database, err = db.Init(baseDir, cfg.DatabaseName)
	if err != nil {
		return nil, err
	}

	settings, err := db.GetSettings(database)
	if err != nil {
		database.Close()
		return nil, err
	}

	if name := settings["DATABASE_NAME"]; name != "" && name != cfg.DatabaseName {
		database.Close()
		cfg.DatabaseName = name
		database, err = db.Init(baseDir, name)
		if err != nil {
			return nil, err
		}
		if settings, err = db.GetSettings(database); err != nil {
			database.Close()
			return nil, err
		}
	}

	if v := settings["ADR_DIR"]; v != "" {
		cfg.AdrDir = v
	}
	if v := settings["BLIP_DIR"]; v != "" {
		cfg.BlipDir = v
	}

	db.ConfigurePool(database, cfg)
	return database, nil
}

func runTUI(database *sql.DB, cfg *config.Config, writer *docwriter.Writer, baseDir string) error {
	model := tui.New(database, cfg, writer, cfg.ResolveAuthor(), baseDir)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
