// Package checkpoint persists named node values as a directory of text
// files, one file per node.
//
// Each file is named <node name>.txt and holds a single tensor in the
// tensor package's text format. Files are written to a temporary name and
// renamed into place, so a crash mid-save never leaves a truncated
// checkpoint behind.
package checkpoint

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/born-ml/graphgrad/internal/graph"
	"github.com/born-ml/graphgrad/internal/tensor"
)

// Extension is appended to node names to form file names.
const Extension = ".txt"

// MaxNameLen bounds node names used as file names.
const MaxNameLen = 255 - len(Extension)

// Common errors.
var (
	ErrInvalidName = errors.New("invalid checkpoint name")
	ErrShape       = errors.New("checkpoint shape does not match node")
)

// Path returns the file that holds the node called name.
func Path(dir, name string) string {
	return filepath.Join(dir, name+Extension)
}

// ValidateName reports whether name can be used as a file name.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	case len(name) > MaxNameLen:
		return fmt.Errorf("%d bytes, max %d: %w", len(name), MaxNameLen, ErrInvalidName)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("%q contains a path separator: %w", name, ErrInvalidName)
	}
	return nil
}

// Save writes the value of every node to dir, creating dir if needed.
func Save(dir string, nodes []*graph.Node) error {
	for _, n := range nodes {
		if err := ValidateName(n.Name()); err != nil {
			return fmt.Errorf("save %v: %w", n, err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create checkpoint dir: %w", err)
	}

	for _, n := range nodes {
		if err := writeFile(Path(dir, n.Name()), n.Value()); err != nil {
			return fmt.Errorf("save %v: %w", n, err)
		}
	}
	return nil
}

// writeFile writes t to path through a temporary file in the same
// directory.
func writeFile(path string, t *tensor.Tensor) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := tensor.WriteText(tmp, t); err != nil {
		return fmt.Errorf("failed to write tensor: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// Load restores every node from dir. Nodes must be parameters and the
// stored shapes must match exactly. Nothing is modified unless every file
// reads back cleanly.
func Load(dir string, nodes []*graph.Node) error {
	values := make([]*tensor.Tensor, len(nodes))
	for i, n := range nodes {
		if !n.IsParameter() {
			return fmt.Errorf("load %v: %w", n, graph.ErrNotParameter)
		}
		if err := ValidateName(n.Name()); err != nil {
			return fmt.Errorf("load %v: %w", n, err)
		}
		t, err := ReadFile(Path(dir, n.Name()))
		if err != nil {
			return fmt.Errorf("load %v: %w", n, err)
		}
		if !t.Shape().Equal(n.Shape()) {
			return fmt.Errorf("load %v: stored %v, node %v: %w", n, t.Shape(), n.Shape(), ErrShape)
		}
		values[i] = t
	}

	for i, n := range nodes {
		if err := graph.SetValue(n, values[i].Data()); err != nil {
			return fmt.Errorf("load %v: %w", n, err)
		}
	}
	return nil
}

// ReadFile reads a single tensor file.
func ReadFile(path string) (*tensor.Tensor, error) {
	//nolint:gosec // G304: checkpoint paths come from the user's configuration
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := tensor.ReadText(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Exists reports whether dir holds a file for every node.
func Exists(dir string, nodes []*graph.Node) bool {
	for _, n := range nodes {
		if _, err := os.Stat(Path(dir, n.Name())); err != nil {
			return false
		}
	}
	return len(nodes) > 0
}
