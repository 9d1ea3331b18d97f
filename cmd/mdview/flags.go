package main

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/fwojciec/mdview"
	"github.com/fwojciec/mdview/toml"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	defaultWidth = 80
	configEnv    = "MDVIEW_CONFIG"
)

type options struct {
	width      int
	widthSet   bool
	json       bool
	tui        bool
	images     bool
	configPath string
	jobs       int
	noColor    bool
	verbose    bool
	help       bool
	args       []string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	flags := pflag.NewFlagSet("mdview", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.IntVarP(&opts.width, "width", "w", 0, "Render width (0 detects the terminal width)")
	flags.BoolVar(&opts.json, "json", false, "Write parsed element trees as JSON instead of rendering")
	flags.BoolVar(&opts.tui, "tui", false, "Open the interactive viewer (single file)")
	flags.BoolVar(&opts.images, "images", false, "Fetch images before rendering")
	flags.StringVar(&opts.configPath, "config", "", "Config file (default $"+configEnv+")")
	flags.IntVarP(&opts.jobs, "jobs", "j", runtime.GOMAXPROCS(0), "Documents parsed concurrently")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colors")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: mdview [flags] [file|glob ...]\n")
		fmt.Fprintln(stderr, "\nIf no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			opts.help = true
			return opts, nil
		}
		return options{}, err
	}
	if opts.width < 0 {
		return options{}, fmt.Errorf("--width must be non-negative: %w", mdview.ErrValidation)
	}
	if opts.jobs < 1 {
		return options{}, fmt.Errorf("--jobs must be at least 1: %w", mdview.ErrValidation)
	}
	opts.widthSet = flags.Changed("width")
	opts.args = flags.Args()
	return opts, nil
}

// loadConfig reads the config file named by --config or $MDVIEW_CONFIG and
// applies flag overrides. Without a file the defaults are used.
func loadConfig(opts options, getenv func(string) string) (mdview.Config, error) {
	path := opts.configPath
	if path == "" {
		path = getenv(configEnv)
	}
	cfg := mdview.DefaultConfig()
	if path != "" {
		var err error
		cfg, err = toml.Load(path)
		if err != nil {
			return mdview.Config{}, fmt.Errorf("load config: %w", err)
		}
	}
	if opts.widthSet {
		cfg.Width = opts.width
	}
	return cfg, nil
}

// setupColor turns colors off when asked to or when w is not a terminal.
func setupColor(noColor bool, w io.Writer) {
	if noColor || !isTerminal(w) {
		lipgloss.SetColorProfile(termenv.Ascii)
		color.NoColor = true
	}
}

func resolveWidth(width int, w io.Writer, getenv func(string) string) int {
	if width > 0 {
		return width
	}
	if f, ok := w.(interface{ Fd() uintptr }); ok && isTerminal(w) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return cols
		}
	}
	var cols int
	if _, err := fmt.Sscanf(getenv("COLUMNS"), "%d", &cols); err == nil && cols > 0 {
		return cols
	}
	return defaultWidth
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
