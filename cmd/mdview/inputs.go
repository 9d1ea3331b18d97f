package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/mdview"
	"github.com/fwojciec/mdview/goldmark"
	"github.com/fwojciec/mdview/json"
	"golang.org/x/sync/errgroup"
)

// input is one document source: a file path or stdin.
type input struct {
	path  string
	stdin bool
}

func (in input) name() string {
	if in.stdin {
		return "<stdin>"
	}
	return in.path
}

// isTree reports whether the input is a saved element tree.
func (in input) isTree() bool {
	return !in.stdin && strings.EqualFold(filepath.Ext(in.path), ".json")
}

// baseDir is the directory relative image paths resolve against.
func (in input) baseDir() string {
	if in.stdin {
		return "."
	}
	return filepath.Dir(in.path)
}

// document is a parsed input.
type document struct {
	input    input
	elements []mdview.Element
}

// expandInputs turns arguments into inputs. Arguments with glob meta
// characters are expanded; a pattern with no matches is an error. With no
// arguments, or "-", the input is stdin.
func expandInputs(args []string) ([]input, error) {
	if len(args) == 0 {
		return []input{{stdin: true}}, nil
	}
	seen := make(map[string]bool)
	var inputs []input
	add := func(in input) {
		key := in.path
		if in.stdin {
			key = "-"
		}
		if seen[key] {
			return
		}
		seen[key] = true
		inputs = append(inputs, in)
	}
	for _, arg := range args {
		if arg == "-" {
			add(input{stdin: true})
			continue
		}
		if !hasMeta(arg) {
			add(input{path: arg})
			continue
		}
		if !doublestar.ValidatePattern(filepath.ToSlash(arg)) {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, mdview.ErrValidation)
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}
		for _, m := range matches {
			add(input{path: m})
		}
	}
	return inputs, nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// loadDocuments reads and parses inputs concurrently, at most jobs at a
// time. Documents are returned in input order. Blocks that fail to parse
// are logged and skipped; read failures abort the whole load.
func loadDocuments(ctx context.Context, inputs []input, stdin io.Reader, jobs int, logger *slog.Logger) ([]document, error) {
	docs := make([]document, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, in := range inputs {
		g.Go(func() error {
			elems, err := loadInput(gctx, in, stdin, logger)
			if err != nil {
				return fmt.Errorf("%s: %w", in.name(), err)
			}
			docs[i] = document{input: in, elements: elems}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func loadInput(ctx context.Context, in input, stdin io.Reader, logger *slog.Logger) ([]mdview.Element, error) {
	if in.isTree() {
		tree, err := json.Load(in.path)
		if err != nil {
			return nil, err
		}
		return tree.Elements, nil
	}

	var elems []mdview.Element
	err := parseInput(ctx, in, stdin, logger, func(e mdview.Element) {
		elems = append(elems, e)
	})
	return elems, err
}

// parseInput parses a Markdown input and calls yield for each element.
func parseInput(ctx context.Context, in input, stdin io.Reader, logger *slog.Logger, yield func(mdview.Element)) error {
	r := stdin
	if !in.stdin {
		f, err := os.Open(in.path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	for e, err := range mdview.Parse(ctx, r, goldmark.New()) {
		if err != nil {
			var perr *mdview.ParseMappingError
			if errors.As(err, &perr) {
				logger.Warn("block skipped", "input", in.name(), "error", perr)
				continue
			}
			return err
		}
		yield(e)
	}
	return nil
}
