// Package json persists parsed element trees as JSON.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/mdview"
)

// Tree is a parsed document saved for later rendering.
type Tree struct {
	Source   string // Path or name of the Markdown source
	SavedAt  time.Time
	Elements []mdview.Element
}

// envelope is the v1 wire format for a persisted tree.
type envelope struct {
	Version  int          `json:"version"`
	Source   string       `json:"source,omitempty"`
	SavedAt  time.Time    `json:"saved_at"`
	Elements []elementDTO `json:"elements"`
}

// Marshal serializes a Tree to JSON in v1 envelope format.
func Marshal(t Tree) ([]byte, error) {
	env := envelope{
		Version:  1,
		Source:   t.Source,
		SavedAt:  t.SavedAt,
		Elements: make([]elementDTO, 0, len(t.Elements)),
	}
	for i, e := range t.Elements {
		dto, err := marshalElement(e)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		env.Elements = append(env.Elements, dto)
	}
	return json.MarshalIndent(env, "", "  ")
}

// Unmarshal deserializes a Tree from JSON in v1 envelope format.
func Unmarshal(data []byte) (Tree, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Tree{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return Tree{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	elems := make([]mdview.Element, len(env.Elements))
	for i, dto := range env.Elements {
		e, err := unmarshalElement(dto)
		if err != nil {
			return Tree{}, fmt.Errorf("element %d: %w", i, err)
		}
		elems[i] = e
	}
	return Tree{Source: env.Source, SavedAt: env.SavedAt, Elements: elems}, nil
}

// Save writes a Tree to a JSON file, creating parent directories as needed.
func Save(path string, t Tree) error {
	data, err := Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Tree from a JSON file.
func Load(path string) (Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tree{}, fmt.Errorf("read file: %w", err)
	}
	return Unmarshal(data)
}
