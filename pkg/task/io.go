package task

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/gridrule/pkg/errors"
	"github.com/matzehuels/gridrule/pkg/grid"
)

// Read decodes and validates a task from r. Malformed grids are rejected
// with an errors.ErrCodeInvalidGrid error; structural problems with
// errors.ErrCodeInvalidTask. Read does not close r.
func Read(r io.Reader) (Task, error) {
	var t Task
	dec := json.NewDecoder(r)
	if err := dec.Decode(&t); err != nil {
		if errors.GetCode(err) != "" {
			return Task{}, err
		}
		return Task{}, errors.Wrap(errors.ErrCodeInvalidTask, err, "decode task")
	}
	if err := t.Validate(); err != nil {
		return Task{}, err
	}
	return t, nil
}

// Import reads the task file at path. When the task has no ID, the file's
// base name without extension is used.
func Import(path string) (Task, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Task{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Task{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return Task{}, fmt.Errorf("%s: %w", path, err)
	}
	if t.ID == "" {
		t.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return t, nil
}

// Write encodes v as indented JSON.
func Write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Export writes v as indented JSON to the file at path.
func Export(v any, path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportGrid reads a single grid, stored as nested JSON rows, from path.
func ImportGrid(path string) (grid.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return grid.Grid{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return grid.Grid{}, fmt.Errorf("open %s: %w", path, err)
	}
	var g grid.Grid
	if err := json.Unmarshal(data, &g); err != nil {
		return grid.Grid{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
