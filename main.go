package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/afittestide/sbrowser/storage"
	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	isatty "github.com/mattn/go-isatty"
	"go.uber.org/fx"
)

type runCmd struct{}

type versionCmd struct{}

type updateCmd struct {
	Check bool `help:"Only check whether a newer release exists"`
}

type historyCmd struct {
	Format string `enum:"text,json,yaml" default:"text" help:"Output format (text, json, yaml)"`
}

type bookmarksCmd struct {
	Format string `enum:"text,json,yaml" default:"text" help:"Output format (text, json, yaml)"`
}

type keysCmd struct{}

var cli struct {
	Debug     bool         `help:"Enable debug logging"`
	Config    string       `help:"Path to the settings file" type:"path"`
	Run       runCmd       `cmd:"" default:"1" help:"Run the browser shell"`
	Version   versionCmd   `cmd:"version" help:"Print version information"`
	Update    updateCmd    `cmd:"update" help:"Update sbrowser to the latest release"`
	History   historyCmd   `cmd:"history" help:"Print the navigation history"`
	Bookmarks bookmarksCmd `cmd:"bookmarks" help:"Print the bookmarks"`
	Keys      keysCmd      `cmd:"keys" help:"Show keyboard shortcuts and commands"`
}

// Update the version as part of the version release process
var version = "0.1.0"

const stopTimeout = 5 * time.Second

func (v versionCmd) Run() error {
	fmt.Printf("sbrowser v%s\n", version)
	return nil
}

func (r *runCmd) Run() error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsTerminal(os.Stdin.Fd()) {
		fmt.Println("This program requires a terminal to run.")
		fmt.Println("Please run it in a terminal emulator.")
		return nil
	}

	var program *tea.Program
	app := fx.New(
		appOptions(Options{Debug: cli.Debug, ConfigPath: cli.Config}),
		fx.NopLogger,
		fx.Populate(&program),
	)
	if err := app.Err(); err != nil {
		return explainStartupError(err)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	_, runErr := program.Run()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		slog.Warn("failed to stop cleanly", "error", err)
	}
	return runErr
}

// explainStartupError adds a hint for a missing settings file
func explainStartupError(err error) error {
	var cfgErr *ConfigError
	if isMissingConfig(err) && errors.As(err, &cfgErr) {
		return fmt.Errorf("settings file %s not found, create it with at least \"home\" and \"search_engine\": %w", cfgErr.Path, cfgErr)
	}
	return err
}

func (u *updateCmd) Run() error {
	if u.Check {
		latest, newer, err := CheckForUpdates(version)
		if err != nil {
			return err
		}
		if !newer {
			fmt.Printf("sbrowser v%s is up to date\n", version)
			return nil
		}
		fmt.Printf("sbrowser v%s is available (running v%s), run `sbrowser update`\n", latest.Version, version)
		return nil
	}

	updated, err := SelfUpdate(version)
	if err != nil {
		return err
	}
	fmt.Printf("sbrowser is at v%s\n", updated)
	return nil
}

func (h *historyCmd) Run() error {
	paths, err := ResolvePaths(cli.Config)
	if err != nil {
		return err
	}
	return printLog(os.Stdout, "history", paths.History, h.Format)
}

func (b *bookmarksCmd) Run() error {
	paths, err := ResolvePaths(cli.Config)
	if err != nil {
		return err
	}
	return printLog(os.Stdout, "bookmarks", paths.Bookmarks, b.Format)
}

func (k keysCmd) Run() error {
	fmt.Print(renderKeys(DefaultKeyMap(), 80))
	return nil
}

// printLog writes one of the persistent logs in format. An unreadable log
// prints as empty, as it does in the shell.
func printLog(w io.Writer, name, path, format string) error {
	exporter, err := NewExporter(format)
	if err != nil {
		return err
	}
	entries, err := storage.NewLineLog(path).Load()
	if err != nil {
		slog.Warn("failed to load log", "path", path, "error", err)
		entries = nil
	}
	return exporter.Export(logExport{Name: name, Path: path, Entries: entries}, w)
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("sbrowser"),
		kong.Description("A keyboard driven browser shell with a modal command line."),
	)

	// The shell sets up its own logger through fx
	if ctx.Command() != "run" {
		if paths, err := ResolvePaths(cli.Config); err == nil {
			if _, _, err := newLogger(paths.LogFile, cli.Debug); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}
	}

	if err := ctx.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
