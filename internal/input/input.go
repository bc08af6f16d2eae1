// Package input reads BBCode sources from files or standard input.
package input

import (
	"errors"
	"fmt"
	"io"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
)

// StdinName is the path that selects standard input.
const StdinName = "-"

// ErrNoInput is returned when no path is given and stdin is a terminal.
var ErrNoInput = errors.New("no input: pass a file or pipe BBCode on stdin")

// Source is one input document.
type Source struct {
	Name string
	Text string
}

// Reader loads sources from a filesystem and a stdin stream.
type Reader struct {
	Fs    afero.Fs
	Stdin io.Reader
}

// Read loads every path in order. "-" reads stdin; no paths at all reads
// stdin unless it is an interactive terminal.
func (r *Reader) Read(paths []string) ([]Source, error) {
	if len(paths) == 0 {
		if IsTerminal(r.Stdin) {
			return nil, ErrNoInput
		}
		paths = []string{StdinName}
	}

	sources := make([]Source, 0, len(paths))
	for _, p := range paths {
		src, err := r.read(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (r *Reader) read(path string) (Source, error) {
	if path == StdinName {
		data, err := io.ReadAll(r.Stdin)
		if err != nil {
			return Source{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return Source{Name: "<stdin>", Text: string(data)}, nil
	}

	data, err := afero.ReadFile(r.Fs, path)
	if err != nil {
		return Source{}, fmt.Errorf("failed to read file: %w", err)
	}
	return Source{Name: path, Text: string(data)}, nil
}

// IsTerminal reports whether r is a terminal device.
func IsTerminal(r any) bool {
	f, ok := r.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
