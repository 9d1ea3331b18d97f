package json_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/mdview"
	"github.com/fwojciec/mdview/goldmark"
	mdjson "github.com/fwojciec/mdview/json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = "# Title\n\n" +
	"Some **bold**, *italic*, `code`, $x^2$ and [a link](https://example.com \"T\").\n\n" +
	"![logo](logo.png \"Logo\")\n\n" +
	"```go\nfmt.Println(1)\n```\n\n" +
	"> quoted\n\n" +
	"3. three\n4. four\n   - nested\n\n" +
	"- [x] done\n- [ ] todo\n  - [ ] sub\n\n" +
	"| A | B |\n|---|---|\n| `1` | [2](u) |\n\n" +
	"---\n\n" +
	"$$\ne = mc^2\n$$"

func parse(t *testing.T, src string) []mdview.Element {
	t.Helper()
	elems, err := mdview.Collect(mdview.ParseString(context.Background(), src, goldmark.New()))
	require.NoError(t, err)
	return elems
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	tree := mdjson.Tree{
		Source:   "README.md",
		SavedAt:  time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC),
		Elements: parse(t, document),
	}
	require.NotEmpty(t, tree.Elements)

	data, err := mdjson.Marshal(tree)
	require.NoError(t, err)

	got, err := mdjson.Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, "README.md", got.Source)
	assert.True(t, tree.SavedAt.Equal(got.SavedAt), "SavedAt mismatch")
	if diff := cmp.Diff(tree.Elements, got.Elements); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshal_V1Envelope(t *testing.T) {
	t.Parallel()

	data, err := mdjson.Marshal(mdjson.Tree{
		Source:   "doc.md",
		Elements: []mdview.Element{&mdview.HorizontalRule{RawText: "---"}},
	})
	require.NoError(t, err)

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &envelope))

	var version int
	require.NoError(t, json.Unmarshal(envelope["version"], &version))
	assert.Equal(t, 1, version)

	var source string
	require.NoError(t, json.Unmarshal(envelope["source"], &source))
	assert.Equal(t, "doc.md", source)

	_, ok := envelope["saved_at"]
	assert.True(t, ok, "expected saved_at key in JSON")

	var elems []map[string]any
	require.NoError(t, json.Unmarshal(envelope["elements"], &elems))
	require.Len(t, elems, 1)
	assert.Equal(t, "horizontal_rule", elems[0]["type"])
	assert.Equal(t, "---", elems[0]["raw"])
}

func TestMarshal_JSONFieldNames(t *testing.T) {
	t.Parallel()

	data, err := mdjson.Marshal(mdjson.Tree{Elements: []mdview.Element{
		&mdview.List{IsOrdered: true, Start: 2, Items: []*mdview.ListItem{
			{Text: "a", Children: []*mdview.ListItem{{Text: "b", IndentationLevel: 1}}},
		}},
	}})
	require.NoError(t, err)

	var env struct {
		Elements []struct {
			Type    string `json:"type"`
			Ordered bool   `json:"ordered"`
			Start   int    `json:"start"`
			Items   []struct {
				Text     string `json:"text"`
				Children []struct {
					Text  string `json:"text"`
					Level int    `json:"level"`
				} `json:"children"`
			} `json:"items"`
		} `json:"elements"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	require.Len(t, env.Elements, 1)
	l := env.Elements[0]
	assert.Equal(t, "list", l.Type)
	assert.True(t, l.Ordered)
	assert.Equal(t, 2, l.Start)
	require.Len(t, l.Items, 1)
	require.Len(t, l.Items[0].Children, 1)
	assert.Equal(t, "b", l.Items[0].Children[0].Text)
	assert.Equal(t, 1, l.Items[0].Children[0].Level)
}

func TestMarshal_EmptyTree(t *testing.T) {
	t.Parallel()

	data, err := mdjson.Marshal(mdjson.Tree{})
	require.NoError(t, err)

	got, err := mdjson.Unmarshal(data)
	require.NoError(t, err)
	assert.Empty(t, got.Elements)
}

func TestMarshal_NilElement(t *testing.T) {
	t.Parallel()

	_, err := mdjson.Marshal(mdjson.Tree{Elements: []mdview.Element{
		&mdview.Paragraph{Inlines: []mdview.Element{nil}},
	}})
	assert.Error(t, err)
}

func TestUnmarshal_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want string
	}{
		{"invalid json", `{`, "unmarshal envelope"},
		{"unsupported version", `{"version": 2, "elements": []}`, "unsupported envelope version: 2"},
		{"unknown element type", `{"version": 1, "elements": [{"type": "video"}]}`, `unknown element type: "video"`},
		{"item at top level", `{"version": 1, "elements": [{"type": "list_item"}]}`, "cannot appear at this position"},
		{"unknown inline type", `{"version": 1, "elements": [{"type": "paragraph", "inlines": [{"type": "x"}]}]}`, "element 0: inline 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := mdjson.Unmarshal([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSave_And_Load(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.json")

	tree := mdjson.Tree{Source: "a.md", Elements: parse(t, "# Hi\n\nthere")}

	err := mdjson.Save(path, tree)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	got, err := mdjson.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "a.md", got.Source)
	require.Len(t, got.Elements, 2)
	assert.Equal(t, mdview.KindHeading, got.Elements[0].Kind())
}

func TestLoad_NonexistentFile(t *testing.T) {
	t.Parallel()
	_, err := mdjson.Load("/nonexistent/path/tree.json")
	assert.Error(t, err)
}

func TestSave_CreatesParentDirectories(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "tree.json")

	err := mdjson.Save(path, mdjson.Tree{})
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
