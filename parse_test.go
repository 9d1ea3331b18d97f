package mdview_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/fwojciec/mdview"
	"github.com/fwojciec/mdview/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("yields elements of every block in order", func(t *testing.T) {
		t.Parallel()
		elems, err := mdview.Collect(mdview.ParseString(context.Background(), "a\nb\n\nc", lineParser()))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, texts(elems))
	})

	t.Run("parses lazily", func(t *testing.T) {
		t.Parallel()
		var parsed int
		p := &mock.BlockParser{
			ParseBlockFn: func(block string) ([]mdview.Element, error) {
				parsed++
				return []mdview.Element{&mdview.Text{RawText: block}}, nil
			},
		}
		for range mdview.ParseString(context.Background(), "a\n\nb\n\nc", p) {
			break
		}
		assert.Equal(t, 1, parsed)
	})

	t.Run("mapping error is yielded and parsing continues", func(t *testing.T) {
		t.Parallel()
		p := &mock.BlockParser{
			ParseBlockFn: func(block string) ([]mdview.Element, error) {
				if block == "bad" {
					return nil, &mdview.ParseMappingError{Block: block, Err: errors.New("boom")}
				}
				return []mdview.Element{&mdview.Text{RawText: block}}, nil
			},
		}
		elems, err := mdview.Collect(mdview.ParseString(context.Background(), "a\n\nbad\n\nc", p))
		var mapErr *mdview.ParseMappingError
		require.ErrorAs(t, err, &mapErr)
		assert.Equal(t, "bad", mapErr.Block)
		assert.Equal(t, []string{"a", "c"}, texts(elems))
	})

	t.Run("cancellation ends the sequence without error", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var got []string
		for e, err := range mdview.ParseString(ctx, "a\n\nb\n\nc", lineParser()) {
			require.NoError(t, err)
			got = append(got, e.Raw())
			cancel()
		}
		assert.Equal(t, []string{"a"}, got)
	})

	t.Run("read error is yielded", func(t *testing.T) {
		t.Parallel()
		r := io.MultiReader(strings.NewReader("a\n\nb"), iotest.ErrReader(errors.New("broken pipe")))
		_, err := mdview.Collect(mdview.Parse(context.Background(), r, lineParser()))
		assert.ErrorContains(t, err, "broken pipe")
	})
}
