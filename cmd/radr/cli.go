package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/radr/internal/config"
	"github.com/hpungsan/radr/internal/docwriter"
	"github.com/hpungsan/radr/internal/errors"
	"github.com/hpungsan/radr/internal/ops"
	"github.com/hpungsan/radr/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, writer *docwriter.Writer, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "radr",
		Usage:   "Terminal technology radar with a decision log",
		Version: Version,
		Commands: []*cli.Command{
			blipCmd(db, cfg, writer),
			adrCmd(db, writer),
			statsCmd(db),
			exportCmd(db, baseDir),
			serveCmd(db, cfg, baseDir),
			tuiCmd(db, cfg, writer, baseDir),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// blipCmd groups the blip subcommands.
func blipCmd(db *sql.DB, cfg *config.Config, writer *docwriter.Writer) *cli.Command {
	return &cli.Command{
		Name:  "blip",
		Usage: "Manage radar blips",
		Subcommands: []*cli.Command{
			blipAddCmd(db, cfg, writer),
			blipListCmd(db),
			blipUpdateCmd(db, cfg, writer),
		},
	}
}

// blipAddCmd creates the blip add command.
func blipAddCmd(db *sql.DB, cfg *config.Config, writer *docwriter.Writer) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a blip (index row plus Markdown document)",
		ArgsUsage: "<name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "quadrant", Aliases: []string{"q"}, Usage: "platforms|languages|tools|techniques"},
			&cli.StringFlag{Name: "ring", Aliases: []string{"r"}, Usage: "hold|assess|trial|adopt"},
			&cli.StringFlag{Name: "tag", Usage: "Optional tag"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Optional description"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("blip name is required"))
			}

			output, err := ops.CreateBlip(db, writer, ops.CreateBlipInput{
				Name:        c.Args().First(),
				Quadrant:    c.String("quadrant"),
				Ring:        c.String("ring"),
				Tag:         c.String("tag"),
				Description: c.String("description"),
				Author:      cfg.ResolveAuthor(),
			})
			if err != nil {
				return outputError(err)
			}

			warnToStderr(output.Warning)
			return outputJSON(output)
		},
	}
}

// blipListCmd creates the blip list command.
func blipListCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List blips in creation order",
		Action: func(c *cli.Context) error {
			output, err := ops.ListBlips(db)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// blipUpdateCmd creates the blip update command.
func blipUpdateCmd(db *sql.DB, cfg *config.Config, writer *docwriter.Writer) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a blip by id; set a flag to \"\" to clear the field",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New unique name"},
			&cli.StringFlag{Name: "quadrant", Aliases: []string{"q"}, Usage: "New quadrant"},
			&cli.StringFlag{Name: "ring", Aliases: []string{"r"}, Usage: "New ring"},
			&cli.StringFlag{Name: "tag", Usage: "New tag"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "New description"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("blip id is required"))
			}
			var id int64
			if _, err := fmt.Sscanf(c.Args().First(), "%d", &id); err != nil || id <= 0 {
				return outputError(errors.NewInvalidRequest("blip id must be a positive integer"))
			}

			input := ops.UpdateBlipInput{
				ID:     id,
				Author: cfg.ResolveAuthor(),
			}
			// IsSet distinguishes an omitted flag (keep) from --flag "" (clear).
			if c.IsSet("name") {
				v := c.String("name")
				input.Name = &v
			}
			if c.IsSet("quadrant") {
				v := c.String("quadrant")
				input.Quadrant = &v
			}
			if c.IsSet("ring") {
				v := c.String("ring")
				input.Ring = &v
			}
			if c.IsSet("tag") {
				v := c.String("tag")
				input.Tag = &v
			}
			if c.IsSet("description") {
				v := c.String("description")
				input.Description = &v
			}

			output, err := ops.UpdateBlip(db, writer, input)
			if err != nil {
				return outputError(err)
			}

			warnToStderr(output.Warning)
			return outputJSON(output)
		},
	}
}

// adrCmd groups the ADR subcommands.
func adrCmd(db *sql.DB, writer *docwriter.Writer) *cli.Command {
	return &cli.Command{
		Name:  "adr",
		Usage: "Manage the decision log",
		Subcommands: []*cli.Command{
			adrAddCmd(db, writer),
			adrListCmd(db),
			adrUpdateCmd(db, writer),
		},
	}
}

// adrAddCmd creates the adr add command.
func adrAddCmd(db *sql.DB, writer *docwriter.Writer) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Record a decision (log row plus Markdown document)",
		ArgsUsage: "<title>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "blip", Aliases: []string{"b"}, Usage: "Blip the decision concerns"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Value: "proposed", Usage: "proposed|accepted|rejected|deprecated|superseded"},
			&cli.StringFlag{Name: "context", Usage: "Context section"},
			&cli.StringFlag{Name: "decision", Usage: "Decision section"},
			&cli.StringFlag{Name: "consequences", Usage: "Consequences section"},
			&cli.StringFlag{Name: "references", Usage: "References section"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("decision title is required"))
			}

			output, err := ops.CreateAdr(db, writer, ops.CreateAdrInput{
				Title:        c.Args().First(),
				BlipName:     c.String("blip"),
				Status:       c.String("status"),
				Context:      c.String("context"),
				Decision:     c.String("decision"),
				Consequences: c.String("consequences"),
				References:   c.String("references"),
			})
			if err != nil {
				return outputError(err)
			}

			warnToStderr(output.Warning)
			return outputJSON(output)
		},
	}
}

// adrUpdateCmd creates the adr update command.
func adrUpdateCmd(db *sql.DB, writer *docwriter.Writer) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update a decision by id; with no flags the document is re-written and the blip link re-checked",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New decision title"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "proposed|accepted|rejected|deprecated|superseded"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("adr id is required"))
			}
			var id int64
			if _, err := fmt.Sscanf(c.Args().First(), "%d", &id); err != nil || id <= 0 {
				return outputError(errors.NewInvalidRequest("adr id must be a positive integer"))
			}

			input := ops.UpdateAdrInput{ID: id}
			if c.IsSet("title") {
				v := c.String("title")
				input.Title = &v
			}
			if c.IsSet("status") {
				v := c.String("status")
				input.Status = &v
			}

			output, err := ops.UpdateAdr(db, writer, input)
			if err != nil {
				return outputError(err)
			}

			warnToStderr(output.Warning)
			return outputJSON(output)
		},
	}
}

// adrListCmd creates the adr list command.
func adrListCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List decision log entries",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "blip", Aliases: []string{"b"}, Usage: "Only entries referencing this blip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ListAdrs(db, ops.ListAdrsInput{BlipName: c.String("blip")})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Summarize the radar",
		Action: func(c *cli.Context) error {
			output, err := ops.Stats(db)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all blips and decisions to a JSONL snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Destination file (defaults to the exports directory)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(db, ops.ExportInput{
				BaseDir: baseDir,
				Path:    c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command for the read-only web view.
func serveCmd(db *sql.DB, cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the read-only web view",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 7531, Usage: "Port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, baseDir, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// tuiCmd launches the interactive session explicitly.
func tuiCmd(db *sql.DB, cfg *config.Config, writer *docwriter.Writer, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Open the interactive radar session",
		Action: func(c *cli.Context) error {
			return runTUI(db, cfg, writer, baseDir)
		},
	}
}

// outputJSON marshals result to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if rErr, ok := err.(*errors.RadrError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", rErr.Code, rErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// warnToStderr surfaces a recoverable divergence without failing the command.
func warnToStderr(warning *errors.RadrError) {
	if warning != nil {
		fmt.Fprintf(os.Stderr, "warning: [%s] %s\n", warning.Code, warning.Message)
	}
}
