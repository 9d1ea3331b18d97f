package mdview

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
)

const fence = "```"

// SplitBlocks yields the raw text of each block of r, where blocks are
// separated by blank lines outside fenced code. Blank lines outside code
// never become part of a block, so no block is empty. Lines are yielded
// without their terminators and joined with "\n".
//
// A line starting with ``` toggles fenced-code state; an unterminated fence
// keeps the rest of the input in one block. ctx is checked once per line;
// cancellation ends the sequence without flushing a partial block and
// without an error. A read error is yielded once and ends the sequence.
//
// Every iteration reads r from its current position.
func SplitBlocks(ctx context.Context, r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		br := bufio.NewReader(r)
		var lines []string
		inCode := false
		for {
			if ctx.Err() != nil {
				return
			}
			line, err := br.ReadString('\n')
			if err != nil && err != io.EOF {
				yield("", fmt.Errorf("read block: %w", err))
				return
			}
			if line != "" || err == nil {
				line = strings.TrimRight(line, "\r\n")
				if strings.HasPrefix(line, fence) {
					inCode = !inCode
				}
				switch {
				case !inCode && strings.TrimSpace(line) == "":
					if len(lines) > 0 {
						if !yield(strings.Join(lines, "\n"), nil) {
							return
						}
						lines = lines[:0]
					}
				default:
					lines = append(lines, line)
				}
			}
			if err == io.EOF {
				break
			}
		}
		if len(lines) > 0 && ctx.Err() == nil {
			yield(strings.Join(lines, "\n"), nil)
		}
	}
}

// SplitString is SplitBlocks over s.
func SplitString(ctx context.Context, s string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for block, err := range SplitBlocks(ctx, strings.NewReader(s)) {
			if !yield(block, err) {
				return
			}
		}
	}
}
