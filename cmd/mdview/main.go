// Command mdview renders Markdown in the terminal.
//
// Usage:
//
//	mdview [flags] [file|glob ...]
//
// With no arguments Markdown is read from stdin. Files ending in .json are
// element trees saved with --json.
//
// Flags:
//
//	-w, --width int      Render width (0 detects the terminal width)
//	    --json           Write parsed element trees as JSON instead of rendering
//	    --tui            Open the interactive viewer (single file)
//	    --images         Fetch images before rendering
//	    --config string  Config file (default $MDVIEW_CONFIG)
//	-j, --jobs int       Documents parsed concurrently
//	    --no-color       Disable colors
//	-v, --verbose        Debug logging
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env := environment{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
	}
	if err := run(ctx, os.Args[1:], env); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("mdview:"), err)
		os.Exit(1)
	}
}

// environment is the process state run depends on. Env vars are read only
// through getenv.
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
}

func run(ctx context.Context, args []string, env environment) error {
	opts, err := parseFlags(args, env.stderr)
	if err != nil {
		return err
	}
	if opts.help {
		return nil
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(env.stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := loadConfig(opts, env.getenv)
	if err != nil {
		return err
	}
	setupColor(opts.noColor, env.stdout)
	cfg.Width = resolveWidth(cfg.Width, env.stdout, env.getenv)
	logger.Debug("config resolved", "width", cfg.Width, "images", opts.images, "jobs", opts.jobs)

	inputs, err := expandInputs(opts.args)
	if err != nil {
		return err
	}

	if opts.tui {
		if len(inputs) != 1 || inputs[0].stdin {
			return fmt.Errorf("--tui needs exactly one file")
		}
		return runTUI(ctx, inputs[0].path, cfg)
	}

	if len(inputs) == 1 && !opts.json && !opts.images && !inputs[0].isTree() {
		return streamDocument(ctx, env.stdout, inputs[0], env.stdin, cfg, logger)
	}

	docs, err := loadDocuments(ctx, inputs, env.stdin, opts.jobs, logger)
	if err != nil {
		return err
	}
	if opts.json {
		return writeJSON(env.stdout, docs)
	}
	return renderStatic(ctx, env.stdout, docs, cfg, opts.images, logger)
}
