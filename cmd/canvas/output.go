package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tfcanvas/canvas/internal/result"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// openOutput returns stdout for "" or "-", else a created file.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printWarnings(warnings []result.Warning) {
	for _, w := range warnings {
		if w.NodeID != "" {
			fmt.Fprintf(os.Stderr, "WARN [%s] %s\n", w.NodeID, w.Message)
		} else {
			fmt.Fprintf(os.Stderr, "WARN %s\n", w.Message)
		}
	}
}

func printErrors(errs []result.Error) {
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "ERROR [%s] %s\n", e.NodeID, e.Message)
		if e.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "  suggestion: %s\n", e.Suggestion)
		}
	}
}
