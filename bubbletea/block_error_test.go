package bubbletea_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/mdview"
	bt "github.com/fwojciec/mdview/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestErrorBlock_View(t *testing.T) {
	t.Parallel()

	t.Run("renders error prefix and message", func(t *testing.T) {
		t.Parallel()
		styles := bt.NewStyles(mdview.DefaultTheme())
		block := bt.NewErrorBlock(errors.New("something broke"), styles)
		view := block.View(80)
		assert.Contains(t, view, "Error")
		assert.Contains(t, view, "something broke")
	})
}
