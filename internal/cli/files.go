package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/pipeline"
)

// readGraphInput loads a JSON graph file as a single input.
func readGraphInput(path string) (pipeline.Input, error) {
	if err := errors.ValidatePath(path); err != nil {
		return pipeline.Input{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("read graph %s: %w", path, err)
	}
	return pipeline.Input{ID: path, Format: pipeline.FormatJSON, Data: string(data)}, nil
}

// moleculeInput returns the single molecule named by a SMILES argument or
// a --graph file.
func moleculeInput(args []string, graphFile string) (pipeline.Input, error) {
	switch {
	case graphFile != "" && len(args) > 0:
		return pipeline.Input{}, fmt.Errorf("give either a SMILES argument or --graph, not both")
	case graphFile != "":
		return readGraphInput(graphFile)
	case len(args) == 1:
		return pipeline.Input{Format: pipeline.FormatSMILES, Data: args[0]}, nil
	default:
		return pipeline.Input{}, fmt.Errorf("expected one SMILES argument or --graph")
	}
}

// readBatch reads records from path, or from stdin when path is "-".
func readBatch(path, format string) ([]pipeline.Input, error) {
	if path == "-" {
		return pipeline.ReadInputs(os.Stdin, format)
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return pipeline.ReadInputs(f, format)
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, data []byte, path string) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// createOutput opens path for writing, or returns w when path is empty.
// The returned close function must be called.
func createOutput(w io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" {
		return w, func() error { return nil }, nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return nil, nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}
